package repositories

import (
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	RoleRepository        *RoleRepository
	SchoolRepository      *SchoolRepository
	OpportunityRepository *OpportunityRepository
	InterestRepository    *InterestRepository
	PreferencesRepository *PreferencesRepository
	NewsRepository        *NewsRepository
	TokenRepository       *TokenRepository
	FileRepository        *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		RoleRepository:        NewRoleRepository(db),
		SchoolRepository:      NewSchoolRepository(db),
		OpportunityRepository: NewOpportunityRepository(db),
		InterestRepository:    NewInterestRepository(db),
		PreferencesRepository: NewPreferencesRepository(db),
		NewsRepository:        NewNewsRepository(db),
		TokenRepository:       NewTokenRepository(db),
		FileRepository:        NewFileRepository(db),
	}
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
