package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/evrim/opphub/internal/app/models"
	appRepos "github.com/evrim/opphub/internal/app/repositories"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/auth"
)

// defaultSuperadminEmail is the bootstrap account created on first start.
// The password must be changed after the first login.
const (
	defaultSuperadminEmail    = "superadmin@opphub.local"
	defaultSuperadminPassword = "ChangeMe123!"
)

// platformRoles is the closed set of roles and their capability matrices.
// Capabilities never inherit; every role lists its grants in full.
func platformRoles() []*appModels.Role {
	return []*appModels.Role{
		{
			Name: appModels.RoleStudent,
			RoleCapabilities: appModels.RoleCapabilities{
				CanViewOpportunities: true,
				CanManagePreferences: true,
			},
		},
		{
			Name: appModels.RoleTeacher,
			RoleCapabilities: appModels.RoleCapabilities{
				CanViewOpportunities:    true,
				CanCreateOpportunities:  true,
				CanEditOwnOpportunities: true,
				CanViewAttendees:        true,
				CanUploadDocuments:      true,
			},
		},
		{
			Name: appModels.RoleModerator,
			RoleCapabilities: appModels.RoleCapabilities{
				CanViewOpportunities:       true,
				CanCreateOpportunities:     true,
				CanEditOwnOpportunities:    true,
				CanEditSchoolOpportunities: true,
				CanViewAttendees:           true,
				CanUploadDocuments:         true,
				CanManageNews:              true,
			},
		},
		{
			Name: appModels.RoleAdmin,
			RoleCapabilities: appModels.RoleCapabilities{
				CanViewOpportunities:       true,
				CanCreateOpportunities:     true,
				CanEditOwnOpportunities:    true,
				CanEditSchoolOpportunities: true,
				CanViewAttendees:           true,
				CanUploadDocuments:         true,
				CanManageNews:              true,
				CanManageUsers:             true,
				CanManagePreferences:       true,
			},
		},
		{
			Name: appModels.RoleSuperadmin,
			RoleCapabilities: appModels.RoleCapabilities{
				CanViewOpportunities:       true,
				CanCreateOpportunities:     true,
				CanEditOwnOpportunities:    true,
				CanEditSchoolOpportunities: true,
				CanEditAllOpportunities:    true,
				CanViewAttendees:           true,
				CanUploadDocuments:         true,
				CanManageNews:              true,
				CanManageUsers:             true,
				CanManageSchools:           true,
				CanManageSettings:          true,
				CanManagePreferences:       true,
			},
		},
	}
}

// CreateDefaultData seeds the platform roles and the bootstrap superadmin
// account. Re-running is safe: existing roles and users are left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	roleRepo := appRepos.NewRoleRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (roles, superadmin)...")

	var finalErr error
	roleIDs := map[string]int64{}
	for _, role := range platformRoles() {
		id, err := roleRepo.Create(ctx, role)
		if err != nil {
			lgr.Error().Err(err).Str("role", role.Name).Msg("Error seeding role")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		roleIDs[role.Name] = id
	}

	superadminRoleID, ok := roleIDs[appModels.RoleSuperadmin]
	if !ok {
		return finalErr
	}

	existing, err := userRepo.FindByEmail(ctx, defaultSuperadminEmail)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if existing != nil {
		return finalErr
	}

	hashed, err := auth.HashPassword(defaultSuperadminPassword)
	if err != nil {
		return errors.Join(finalErr, err)
	}

	_, err = userRepo.Create(ctx, &appModels.User{
		Email:     defaultSuperadminEmail,
		Password:  hashed,
		FirstName: "Platform",
		LastName:  "Superadmin",
		RoleID:    superadminRoleID,
		IsActive:  true,
	})
	if err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error seeding superadmin user")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Str("email", defaultSuperadminEmail).Msg("Superadmin account seeded, change the default password")
	return finalErr
}
