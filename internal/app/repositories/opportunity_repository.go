package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evrim/opphub/internal/app/models"
)

// OpportunityRepository handles database operations for opportunities
type OpportunityRepository struct {
	pool *pgxpool.Pool
}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository(pool *pgxpool.Pool) *OpportunityRepository {
	return &OpportunityRepository{pool: pool}
}

var opportunityColumns = []string{
	"o.id", "o.title", "o.description", "o.industry", "o.opportunity_type",
	"o.age_group", "o.location", "o.created_by_id", "o.school_id", "o.is_global",
	"o.visible_to_schools", "o.number_of_spaces", "o.start_date", "o.end_date",
	"o.application_deadline", "o.created_at", "o.updated_at",
}

func scanOpportunity(row pgx.Row) (*models.Opportunity, error) {
	opp := &models.Opportunity{}
	err := row.Scan(
		&opp.ID, &opp.Title, &opp.Description, &opp.Industry, &opp.Type,
		&opp.AgeGroup, &opp.Location, &opp.CreatedByID, &opp.SchoolID, &opp.IsGlobal,
		&opp.VisibleToSchools, &opp.NumberOfSpaces, &opp.StartDate, &opp.EndDate,
		&opp.ApplicationDeadline, &opp.CreatedAt, &opp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return opp, nil
}

// GetByID retrieves an opportunity by ID, or nil when absent
func (r *OpportunityRepository) GetByID(ctx context.Context, id int64) (*models.Opportunity, error) {
	query := squirrel.Select(opportunityColumns...).
		From("opportunities o").
		Where("o.id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	opp, err := scanOpportunity(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return opp, nil
}

// GetAll retrieves the opportunity universe ordered by recency, with
// optional search/type/industry filters. Visibility is NOT applied here:
// pagination happens after the access layer has filtered the result, so the
// ordering this query establishes must carry through unchanged.
func (r *OpportunityRepository) GetAll(ctx context.Context, search, oppType, industry *string) ([]*models.Opportunity, error) {
	query := squirrel.Select(opportunityColumns...).
		From("opportunities o").
		OrderBy("o.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		query = query.Where("(o.title ILIKE ? OR o.description ILIKE ?)", pattern, pattern)
	}
	if oppType != nil && *oppType != "" {
		query = query.Where("o.opportunity_type = ?", *oppType)
	}
	if industry != nil && *industry != "" {
		query = query.Where("o.industry = ?", *industry)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var opps []*models.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		opps = append(opps, opp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opportunity rows: %w", err)
	}

	return opps, nil
}

// Create inserts a new opportunity and returns its ID
func (r *OpportunityRepository) Create(ctx context.Context, opp *models.Opportunity) (int64, error) {
	now := time.Now()
	query := squirrel.Insert("opportunities").
		Columns(
			"title", "description", "industry", "opportunity_type", "age_group",
			"location", "created_by_id", "school_id", "is_global", "visible_to_schools",
			"number_of_spaces", "start_date", "end_date", "application_deadline",
			"created_at", "updated_at",
		).
		Values(
			opp.Title, opp.Description, opp.Industry, opp.Type, opp.AgeGroup,
			opp.Location, opp.CreatedByID, opp.SchoolID, opp.IsGlobal, opp.VisibleToSchools,
			opp.NumberOfSpaces, opp.StartDate, opp.EndDate, opp.ApplicationDeadline,
			now, now,
		).
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

// Update persists changes to an existing opportunity
func (r *OpportunityRepository) Update(ctx context.Context, opp *models.Opportunity) error {
	query := squirrel.Update("opportunities").
		Set("title", opp.Title).
		Set("description", opp.Description).
		Set("industry", opp.Industry).
		Set("opportunity_type", opp.Type).
		Set("age_group", opp.AgeGroup).
		Set("location", opp.Location).
		Set("school_id", opp.SchoolID).
		Set("is_global", opp.IsGlobal).
		Set("visible_to_schools", opp.VisibleToSchools).
		Set("number_of_spaces", opp.NumberOfSpaces).
		Set("start_date", opp.StartDate).
		Set("end_date", opp.EndDate).
		Set("application_deadline", opp.ApplicationDeadline).
		Set("updated_at", time.Now()).
		Where("id = ?", opp.ID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}

// Delete removes an opportunity. Registrations cascade at the schema level.
func (r *OpportunityRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("opportunities").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}
