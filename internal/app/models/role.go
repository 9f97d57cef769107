package models

// Capability identifies a single named permission flag on a role.
type Capability string

const (
	CapCreateOpportunities     Capability = "CREATE_OPPORTUNITIES"
	CapEditOwnOpportunities    Capability = "EDIT_OWN_OPPORTUNITIES"
	CapEditSchoolOpportunities Capability = "EDIT_SCHOOL_OPPORTUNITIES"
	CapEditAllOpportunities    Capability = "EDIT_ALL_OPPORTUNITIES"
	CapViewOpportunities       Capability = "VIEW_OPPORTUNITIES"
	CapViewAttendees           Capability = "VIEW_ATTENDEES"
	CapManageUsers             Capability = "MANAGE_USERS"
	CapManageSchools           Capability = "MANAGE_SCHOOLS"
	CapManageSettings          Capability = "MANAGE_SETTINGS"
	CapManagePreferences       Capability = "MANAGE_PREFERENCES"
	CapUploadDocuments         Capability = "UPLOAD_DOCUMENTS"
	CapManageNews              Capability = "MANAGE_NEWS"
)

// RoleCapabilities is the closed set of permission flags attached to a role.
// There is no inheritance between roles: each flag is explicit, and a
// capability not set on a role is simply false.
type RoleCapabilities struct {
	CanCreateOpportunities     bool `json:"canCreateOpportunities" db:"can_create_opportunities"`
	CanEditOwnOpportunities    bool `json:"canEditOwnOpportunities" db:"can_edit_own_opportunities"`
	CanEditSchoolOpportunities bool `json:"canEditSchoolOpportunities" db:"can_edit_school_opportunities"`
	CanEditAllOpportunities    bool `json:"canEditAllOpportunities" db:"can_edit_all_opportunities"`
	CanViewOpportunities       bool `json:"canViewOpportunities" db:"can_view_opportunities"`
	CanViewAttendees           bool `json:"canViewAttendees" db:"can_view_attendees"`
	CanManageUsers             bool `json:"canManageUsers" db:"can_manage_users"`
	CanManageSchools           bool `json:"canManageSchools" db:"can_manage_schools"`
	CanManageSettings          bool `json:"canManageSettings" db:"can_manage_settings"`
	CanManagePreferences       bool `json:"canManagePreferences" db:"can_manage_preferences"`
	CanUploadDocuments         bool `json:"canUploadDocuments" db:"can_upload_documents"`
	CanManageNews              bool `json:"canManageNews" db:"can_manage_news"`
}

// Has reports whether the role grants the given capability. Unknown
// capabilities are always false; adding a new flag requires extending both
// the struct and this switch.
func (rc RoleCapabilities) Has(c Capability) bool {
	switch c {
	case CapCreateOpportunities:
		return rc.CanCreateOpportunities
	case CapEditOwnOpportunities:
		return rc.CanEditOwnOpportunities
	case CapEditSchoolOpportunities:
		return rc.CanEditSchoolOpportunities
	case CapEditAllOpportunities:
		return rc.CanEditAllOpportunities
	case CapViewOpportunities:
		return rc.CanViewOpportunities
	case CapViewAttendees:
		return rc.CanViewAttendees
	case CapManageUsers:
		return rc.CanManageUsers
	case CapManageSchools:
		return rc.CanManageSchools
	case CapManageSettings:
		return rc.CanManageSettings
	case CapManagePreferences:
		return rc.CanManagePreferences
	case CapUploadDocuments:
		return rc.CanUploadDocuments
	case CapManageNews:
		return rc.CanManageNews
	default:
		return false
	}
}

// Role defines the role model based on the 'roles' table. Roles are seeded
// once at startup and never mutated at runtime.
type Role struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" example:"TEACHER"`
	RoleCapabilities
}

// Seeded role names.
const (
	RoleStudent    = "STUDENT"
	RoleTeacher    = "TEACHER"
	RoleModerator  = "MODERATOR"
	RoleAdmin      = "ADMIN"
	RoleSuperadmin = "SUPERADMIN"
)
