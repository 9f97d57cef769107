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

// PreferencesRepository handles database operations for student preferences.
// Each student has at most one preferences row, keyed by user_id.
type PreferencesRepository struct {
	pool *pgxpool.Pool
}

// NewPreferencesRepository creates a new PreferencesRepository
func NewPreferencesRepository(pool *pgxpool.Pool) *PreferencesRepository {
	return &PreferencesRepository{pool: pool}
}

var preferencesColumns = []string{
	"id", "user_id", "industries", "locations", "age_groups", "opportunity_types", "updated_at",
}

func scanPreferences(row pgx.Row) (*models.StudentPreferences, error) {
	prefs := &models.StudentPreferences{}
	err := row.Scan(
		&prefs.ID, &prefs.UserID,
		&prefs.Industries, &prefs.Locations, &prefs.AgeGroups, &prefs.OpportunityTypes,
		&prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// GetByUserID retrieves a student's preferences, or nil when the student
// has never saved any.
func (r *PreferencesRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentPreferences, error) {
	query := squirrel.Select(preferencesColumns...).
		From("student_preferences").
		Where("user_id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	prefs, err := scanPreferences(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return prefs, nil
}

// Upsert creates or replaces a student's preferences in a single statement
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *models.StudentPreferences) (*models.StudentPreferences, error) {
	query := squirrel.Insert("student_preferences").
		Columns("user_id", "industries", "locations", "age_groups", "opportunity_types").
		Values(prefs.UserID, prefs.Industries, prefs.Locations, prefs.AgeGroups, prefs.OpportunityTypes).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			industries = EXCLUDED.industries,
			locations = EXCLUDED.locations,
			age_groups = EXCLUDED.age_groups,
			opportunity_types = EXCLUDED.opportunity_types,
			updated_at = NOW()
			RETURNING ` + joinColumns(preferencesColumns)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	saved, err := scanPreferences(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return saved, nil
}
