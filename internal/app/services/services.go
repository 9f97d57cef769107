// Package services holds the business logic between the HTTP controllers
// and the repositories. The opportunity and registration services take
// their persistence as small interfaces so the access and capacity rules
// can be tested against in-memory stores.
package services

import (
	"github.com/evrim/opphub/internal/app/repositories"
	"github.com/evrim/opphub/internal/pkg/auth"
	"github.com/evrim/opphub/internal/pkg/filestorage"
	"github.com/evrim/opphub/internal/pkg/helpers"
)

// Services holds all the service instances
type Services struct {
	AuthService         AuthService
	OpportunityService  OpportunityService
	RegistrationService RegistrationService
	PreferenceService   PreferenceService
	SchoolService       SchoolService
	UserService         UserService
	NewsService         NewsService
	DocumentService     DocumentService
}

// NewServices initializes all services with their repository dependencies
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	storage filestorage.Storage,
) *Services {
	clock := helpers.SystemClock{}

	return &Services{
		AuthService: NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService, clock),
		OpportunityService: NewOpportunityService(
			repos.OpportunityRepository,
			repos.InterestRepository,
			repos.PreferencesRepository,
			repos.FileRepository,
			clock,
		),
		RegistrationService: NewRegistrationService(repos.InterestRepository, repos.OpportunityRepository),
		PreferenceService:   NewPreferenceService(repos.PreferencesRepository),
		SchoolService:       NewSchoolService(repos.SchoolRepository),
		UserService:         NewUserService(repos.UserRepository, repos.RoleRepository),
		NewsService:         NewNewsService(repos.NewsRepository),
		DocumentService:     NewDocumentService(repos.FileRepository, repos.OpportunityRepository, storage),
	}
}
