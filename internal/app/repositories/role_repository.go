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

// RoleRepository handles database operations for roles. Roles are written
// only by the seeder; everything else is reads.
type RoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

var roleColumns = []string{
	"id", "name",
	"can_create_opportunities", "can_edit_own_opportunities", "can_edit_school_opportunities",
	"can_edit_all_opportunities", "can_view_opportunities", "can_view_attendees",
	"can_manage_users", "can_manage_schools", "can_manage_settings",
	"can_manage_preferences", "can_upload_documents", "can_manage_news",
}

func scanRole(row pgx.Row) (*models.Role, error) {
	role := &models.Role{}
	err := row.Scan(
		&role.ID, &role.Name,
		&role.CanCreateOpportunities, &role.CanEditOwnOpportunities, &role.CanEditSchoolOpportunities,
		&role.CanEditAllOpportunities, &role.CanViewOpportunities, &role.CanViewAttendees,
		&role.CanManageUsers, &role.CanManageSchools, &role.CanManageSettings,
		&role.CanManagePreferences, &role.CanUploadDocuments, &role.CanManageNews,
	)
	if err != nil {
		return nil, err
	}
	return role, nil
}

// GetByName retrieves a role by its seeded name, or nil when absent
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	query := squirrel.Select(roleColumns...).
		From("roles").
		Where("name = ?", name).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	role, err := scanRole(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return role, nil
}

// GetAll retrieves every seeded role
func (r *RoleRepository) GetAll(ctx context.Context) ([]*models.Role, error) {
	query := squirrel.Select(roleColumns...).
		From("roles").
		OrderBy("id").
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

	var roles []*models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", err)
	}

	return roles, nil
}

// Create inserts a role; duplicate names return the existing ID untouched.
// Used only by the seeder.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) (int64, error) {
	query := squirrel.Insert("roles").
		Columns(roleColumns[1:]...).
		Values(
			role.Name,
			role.CanCreateOpportunities, role.CanEditOwnOpportunities, role.CanEditSchoolOpportunities,
			role.CanEditAllOpportunities, role.CanViewOpportunities, role.CanViewAttendees,
			role.CanManageUsers, role.CanManageSchools, role.CanManageSettings,
			role.CanManagePreferences, role.CanUploadDocuments, role.CanManageNews,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			existing, getErr := r.GetByName(ctx, role.Name)
			if getErr != nil {
				return 0, getErr
			}
			if existing != nil {
				return existing.ID, nil
			}
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}
