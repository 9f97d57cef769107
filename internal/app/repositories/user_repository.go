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
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/dberrors"
)

// UserRepository handles database operations for users
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var userColumns = []string{
	"u.id", "u.email", "u.password", "u.first_name", "u.last_name",
	"u.role_id", "u.school_id", "u.is_active", "u.created_at", "u.updated_at", "u.last_login_at",
	"r.id", "r.name",
	"r.can_create_opportunities", "r.can_edit_own_opportunities", "r.can_edit_school_opportunities",
	"r.can_edit_all_opportunities", "r.can_view_opportunities", "r.can_view_attendees",
	"r.can_manage_users", "r.can_manage_schools", "r.can_manage_settings",
	"r.can_manage_preferences", "r.can_upload_documents", "r.can_manage_news",
}

func scanUserWithRole(row pgx.Row) (*models.User, error) {
	user := &models.User{Role: &models.Role{}}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.RoleID, &user.SchoolID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
		&user.Role.ID, &user.Role.Name,
		&user.Role.CanCreateOpportunities, &user.Role.CanEditOwnOpportunities, &user.Role.CanEditSchoolOpportunities,
		&user.Role.CanEditAllOpportunities, &user.Role.CanViewOpportunities, &user.Role.CanViewAttendees,
		&user.Role.CanManageUsers, &user.Role.CanManageSchools, &user.Role.CanManageSettings,
		&user.Role.CanManagePreferences, &user.Role.CanUploadDocuments, &user.Role.CanManageNews,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func userSelect() squirrel.SelectBuilder {
	return squirrel.Select(userColumns...).
		From("users u").
		Join("roles r ON r.id = u.role_id").
		PlaceholderFormat(squirrel.Dollar)
}

// FindByID retrieves a user with their role loaded, or nil when absent
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := userSelect().Where("u.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUserWithRole(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by email with their role loaded, or nil when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := userSelect().Where("u.email = ?", email).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUserWithRole(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return user, nil
}

// GetAll retrieves users ordered by creation time, optionally scoped to a school
func (r *UserRepository) GetAll(ctx context.Context, schoolID *int64, offset uint64, limit int) ([]*models.User, int64, error) {
	countQuery := squirrel.Select("COUNT(*)").From("users u").PlaceholderFormat(squirrel.Dollar)
	listQuery := userSelect().OrderBy("u.created_at DESC").Offset(offset).Limit(uint64(limit))

	if schoolID != nil {
		countQuery = countQuery.Where("u.school_id = ?", *schoolID)
		listQuery = listQuery.Where("u.school_id = ?", *schoolID)
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUserWithRole(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, total, nil
}

// Create inserts a new user and returns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	now := time.Now()
	query := squirrel.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role_id", "school_id", "is_active", "created_at", "updated_at").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.RoleID, user.SchoolID, user.IsActive, now, now).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// Update persists changes to an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := squirrel.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("role_id", user.RoleID).
		Set("school_id", user.SchoolID).
		Set("is_active", user.IsActive).
		Set("updated_at", time.Now()).
		Where("id = ?", user.ID).
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
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin records the login instant
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// Delete removes a user. Opportunities keep their created_by_id as a weak
// historical reference; registrations cascade at the schema level.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
