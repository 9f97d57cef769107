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
	"github.com/evrim/opphub/internal/db"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/dberrors"
)

// InterestRepository handles database operations for student interest
// registrations. All writes go through Register/Unregister; nothing else in
// the codebase touches the student_interests table.
type InterestRepository struct {
	pool *pgxpool.Pool
}

// NewInterestRepository creates a new InterestRepository
func NewInterestRepository(pool *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{pool: pool}
}

// errConcurrentRegistration signals that the unique pair constraint caught
// an insert the row lock could not serialize. The failed insert aborts the
// transaction, so the winning row is re-read outside it.
var errConcurrentRegistration = errors.New("registration inserted concurrently")

// Register atomically claims a space on an opportunity for a student.
//
// The capacity check and the insert run inside one transaction that first
// locks the opportunity row, so two concurrent registrations for the last
// remaining space serialize: one commits, the other sees the full count and
// fails with ErrCapacityExceeded. Re-registering an existing pair is a
// no-op that returns the stored row.
func (r *InterestRepository) Register(ctx context.Context, studentID, opportunityID int64) (*models.StudentInterest, error) {
	var interest *models.StudentInterest

	err := db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		// Lock the opportunity row; concurrent registrations against the
		// same opportunity queue up here.
		var spaces *int
		err := tx.QueryRow(ctx,
			`SELECT number_of_spaces FROM opportunities WHERE id = $1 FOR UPDATE`,
			opportunityID,
		).Scan(&spaces)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrOpportunityNotFound
			}
			return fmt.Errorf("error locking opportunity: %w", err)
		}

		// Idempotent: an existing registration is returned unchanged.
		existing := &models.StudentInterest{}
		err = tx.QueryRow(ctx,
			`SELECT id, student_id, opportunity_id, registration_date
			 FROM student_interests WHERE student_id = $1 AND opportunity_id = $2`,
			studentID, opportunityID,
		).Scan(&existing.ID, &existing.StudentID, &existing.OpportunityID, &existing.RegistrationDate)
		if err == nil {
			interest = existing
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("error checking existing registration: %w", err)
		}

		if spaces != nil {
			var count int
			err = tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM student_interests WHERE opportunity_id = $1`,
				opportunityID,
			).Scan(&count)
			if err != nil {
				return fmt.Errorf("error counting registrations: %w", err)
			}
			if count >= *spaces {
				return apperrors.NewCapacityExceededError(0)
			}
		}

		created := &models.StudentInterest{
			StudentID:        studentID,
			OpportunityID:    opportunityID,
			RegistrationDate: time.Now(),
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO student_interests (student_id, opportunity_id, registration_date)
			 VALUES ($1, $2, $3) RETURNING id`,
			created.StudentID, created.OpportunityID, created.RegistrationDate,
		).Scan(&created.ID)
		if err != nil {
			// The unique pair constraint is the backstop for races the row
			// lock cannot see; treat it like the idempotent path.
			if dberrors.IsDuplicateConstraintError(err, "student_interests_student_id_opportunity_id_key") {
				return errConcurrentRegistration
			}
			return fmt.Errorf("error inserting registration: %w", err)
		}

		interest = created
		return nil
	})

	if err != nil {
		if errors.Is(err, errConcurrentRegistration) {
			return r.getByPair(ctx, studentID, opportunityID)
		}
		if dberrors.IsTransient(err) {
			return nil, apperrors.ErrTransientFailure
		}
		return nil, err
	}

	return interest, nil
}

// getByPair retrieves the registration row for a (student, opportunity)
// pair. Used to resolve the idempotent result after a concurrent insert won.
func (r *InterestRepository) getByPair(ctx context.Context, studentID, opportunityID int64) (*models.StudentInterest, error) {
	interest := &models.StudentInterest{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, opportunity_id, registration_date
		 FROM student_interests WHERE student_id = $1 AND opportunity_id = $2`,
		studentID, opportunityID,
	).Scan(&interest.ID, &interest.StudentID, &interest.OpportunityID, &interest.RegistrationDate)
	if err != nil {
		return nil, fmt.Errorf("error reading registration: %w", err)
	}
	return interest, nil
}

// Unregister removes a student's registration. Deleting an absent pair is
// not an error; the space is freed atomically with respect to concurrent
// Register calls.
func (r *InterestRepository) Unregister(ctx context.Context, studentID, opportunityID int64) error {
	query := squirrel.Delete("student_interests").
		Where("student_id = ? AND opportunity_id = ?", studentID, opportunityID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// Exists checks if a student is registered on a specific opportunity
func (r *InterestRepository) Exists(ctx context.Context, studentID, opportunityID int64) (bool, error) {
	query := squirrel.Select("1").
		From("student_interests").
		Where("student_id = ? AND opportunity_id = ?", studentID, opportunityID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.pool.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

// CountByOpportunityID retrieves the number of registrations for an opportunity
func (r *InterestRepository) CountByOpportunityID(ctx context.Context, opportunityID int64) (int, error) {
	query := squirrel.Select("COUNT(*)").
		From("student_interests").
		Where("opportunity_id = ?", opportunityID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}

// CountsByOpportunityIDs retrieves registration counts for multiple opportunities
func (r *InterestRepository) CountsByOpportunityIDs(ctx context.Context, opportunityIDs []int64) (map[int64]int, error) {
	if len(opportunityIDs) == 0 {
		return make(map[int64]int), nil
	}

	query := squirrel.Select("opportunity_id", "COUNT(*)").
		From("student_interests").
		Where(squirrel.Eq{"opportunity_id": opportunityIDs}).
		GroupBy("opportunity_id").
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

	counts := make(map[int64]int)
	for rows.Next() {
		var opportunityID int64
		var count int
		if err := rows.Scan(&opportunityID, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[opportunityID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration count rows: %w", err)
	}

	return counts, nil
}

// ListByOpportunityID retrieves all registrations for an opportunity with
// the registered students attached, newest first.
func (r *InterestRepository) ListByOpportunityID(ctx context.Context, opportunityID int64) ([]*models.StudentInterest, error) {
	query := squirrel.Select(
		"si.id", "si.student_id", "si.opportunity_id", "si.registration_date",
		"u.email", "u.first_name", "u.last_name",
	).
		From("student_interests si").
		Join("users u ON u.id = si.student_id").
		Where("si.opportunity_id = ?", opportunityID).
		OrderBy("si.registration_date DESC").
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

	var interests []*models.StudentInterest
	for rows.Next() {
		interest := &models.StudentInterest{Student: &models.User{}}
		err := rows.Scan(
			&interest.ID,
			&interest.StudentID,
			&interest.OpportunityID,
			&interest.RegistrationDate,
			&interest.Student.Email,
			&interest.Student.FirstName,
			&interest.Student.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		interest.Student.ID = interest.StudentID
		interests = append(interests, interest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}

	return interests, nil
}
