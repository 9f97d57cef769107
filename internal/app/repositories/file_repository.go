package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evrim/opphub/internal/app/models"
)

// FileRepository handles database operations for file metadata
type FileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

var fileColumns = []string{
	"id", "file_name", "file_path", "file_url", "file_size", "file_type",
	"resource_type", "resource_id", "uploaded_by", "created_at", "updated_at",
}

func scanFile(row pgx.Row) (*models.File, error) {
	file := &models.File{}
	err := row.Scan(
		&file.ID, &file.FileName, &file.FilePath, &file.FileURL, &file.FileSize, &file.FileType,
		&file.ResourceType, &file.ResourceID, &file.UploadedBy, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// GetByID retrieves file metadata by ID, or nil when absent
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := squirrel.Select(fileColumns...).
		From("files").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	file, err := scanFile(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return file, nil
}

// ListByResource retrieves all files attached to a resource
func (r *FileRepository) ListByResource(ctx context.Context, resourceType models.FileType, resourceID int64) ([]*models.File, error) {
	query := squirrel.Select(fileColumns...).
		From("files").
		Where("resource_type = ?", resourceType).
		Where("resource_id = ?", resourceID).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var files []*models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return files, nil
}

// Create inserts file metadata and returns its ID
func (r *FileRepository) Create(ctx context.Context, file *models.File) (int64, error) {
	query := squirrel.Insert("files").
		Columns("file_name", "file_path", "file_url", "file_size", "file_type",
			"resource_type", "resource_id", "uploaded_by").
		Values(file.FileName, file.FilePath, file.FileURL, file.FileSize, file.FileType,
			file.ResourceType, file.ResourceID, file.UploadedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// Delete removes file metadata
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("files").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
