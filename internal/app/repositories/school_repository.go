package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/pkg/dberrors"
)

// SchoolRepository handles database operations for schools
type SchoolRepository struct {
	pool *pgxpool.Pool
}

// NewSchoolRepository creates a new SchoolRepository
func NewSchoolRepository(pool *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{pool: pool}
}

var schoolColumns = []string{"id", "name", "logo_url", "created_at", "updated_at"}

func scanSchool(row pgx.Row) (*models.School, error) {
	school := &models.School{}
	err := row.Scan(&school.ID, &school.Name, &school.LogoURL, &school.CreatedAt, &school.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return school, nil
}

// GetByID retrieves a school by ID, or nil when absent
func (r *SchoolRepository) GetByID(ctx context.Context, id int64) (*models.School, error) {
	query := squirrel.Select(schoolColumns...).
		From("schools").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	school, err := scanSchool(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return school, nil
}

// GetAll retrieves schools ordered by name, optionally filtered by a name search
func (r *SchoolRepository) GetAll(ctx context.Context, search string, offset, limit int) ([]*models.School, int64, error) {
	base := squirrel.Select().
		From("schools").
		PlaceholderFormat(squirrel.Dollar)

	if search != "" {
		base = base.Where("name ILIKE ?", "%"+search+"%")
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	listSQL, listArgs, err := base.Columns(schoolColumns...).
		OrderBy("name ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var schools []*models.School
	for rows.Next() {
		school, err := scanSchool(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		schools = append(schools, school)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating school rows: %w", err)
	}

	return schools, total, nil
}

// Create inserts a new school and returns its ID
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) (int64, error) {
	query := squirrel.Insert("schools").
		Columns("name", "logo_url").
		Values(school.Name, school.LogoURL).
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

// Update modifies an existing school
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	query := squirrel.Update("schools").
		Set("name", school.Name).
		Set("logo_url", school.LogoURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", school.ID).
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

// Delete removes a school. Fails with a foreign key violation while users
// or opportunities still reference it; the service maps that to a conflict.
func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("schools").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return err
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
