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

// NewsRepository handles database operations for school news posts
type NewsRepository struct {
	pool *pgxpool.Pool
}

// NewNewsRepository creates a new NewsRepository
func NewNewsRepository(pool *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{pool: pool}
}

var newsColumns = []string{
	"id", "title", "body", "school_id", "created_by_id", "created_at", "updated_at",
}

func scanNewsPost(row pgx.Row) (*models.NewsPost, error) {
	post := &models.NewsPost{}
	err := row.Scan(
		&post.ID, &post.Title, &post.Body,
		&post.SchoolID, &post.CreatedByID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetByID retrieves a news post by ID, or nil when absent
func (r *NewsRepository) GetByID(ctx context.Context, id int64) (*models.NewsPost, error) {
	query := squirrel.Select(newsColumns...).
		From("news_posts").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	post, err := scanNewsPost(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return post, nil
}

// List retrieves news posts, newest first. A non-nil school scope returns
// that school's posts together with platform-wide ones (nil school_id);
// a nil scope returns everything.
func (r *NewsRepository) List(ctx context.Context, schoolID *int64, offset, limit int) ([]*models.NewsPost, int64, error) {
	base := squirrel.Select().
		From("news_posts").
		PlaceholderFormat(squirrel.Dollar)

	if schoolID != nil {
		base = base.Where("(school_id = ? OR school_id IS NULL)", *schoolID)
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	listSQL, listArgs, err := base.Columns(newsColumns...).
		OrderBy("created_at DESC").
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

	var posts []*models.NewsPost
	for rows.Next() {
		post, err := scanNewsPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating news rows: %w", err)
	}

	return posts, total, nil
}

// Create inserts a new news post and returns its ID
func (r *NewsRepository) Create(ctx context.Context, post *models.NewsPost) (int64, error) {
	query := squirrel.Insert("news_posts").
		Columns("title", "body", "school_id", "created_by_id").
		Values(post.Title, post.Body, post.SchoolID, post.CreatedByID).
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

// Update modifies an existing news post
func (r *NewsRepository) Update(ctx context.Context, post *models.NewsPost) error {
	query := squirrel.Update("news_posts").
		Set("title", post.Title).
		Set("body", post.Body).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", post.ID).
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

// Delete removes a news post
func (r *NewsRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("news_posts").
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
