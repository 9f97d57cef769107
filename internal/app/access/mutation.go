package access

import (
	"github.com/evrim/opphub/internal/app/models"
)

// CanCreate reports whether the user may create opportunities at all.
// What they may set on the new record is decided by SanitizeCreate.
func CanCreate(user models.UserContext) bool {
	return user.Role.Has(models.CapCreateOpportunities)
}

// CanMutate decides EDIT and DELETE access for a (user, opportunity) pair.
// The three grants are checked independently, broadest first:
//
//   - canEditAllOpportunities: any opportunity on the platform
//   - canEditSchoolOpportunities: any opportunity owned by the user's school
//   - canEditOwnOpportunities: opportunities the user created, regardless of school
//
// A role with none of these can mutate nothing, including its own records.
func CanMutate(user models.UserContext, opp *models.Opportunity) bool {
	if user.Role.Has(models.CapEditAllOpportunities) {
		return true
	}
	if user.Role.Has(models.CapEditSchoolOpportunities) &&
		user.SchoolID != nil && opp.SchoolID != nil && *user.SchoolID == *opp.SchoolID {
		return true
	}
	if user.Role.Has(models.CapEditOwnOpportunities) && user.ID == opp.CreatedByID {
		return true
	}
	return false
}

// SanitizeCreate enforces the server-side trust boundary on a new
// opportunity before it is persisted. The creator is always the caller.
// For every role below canEditAllOpportunities the client-supplied
// ownership fields are overwritten: the opportunity lands in the caller's
// own school and cannot be made global, no matter what the payload said.
func SanitizeCreate(user models.UserContext, opp *models.Opportunity) {
	opp.CreatedByID = user.ID
	if !user.Role.Has(models.CapEditAllOpportunities) {
		opp.SchoolID = user.SchoolID
		opp.IsGlobal = false
	}
}

// SanitizeUpdate applies the same downgrade on edit: a non-superadmin
// payload cannot move the opportunity to another school, change its
// creator, or flip the global flag. The restricted fields are silently
// reset to their stored values rather than rejected.
func SanitizeUpdate(user models.UserContext, existing, updated *models.Opportunity) {
	updated.CreatedByID = existing.CreatedByID
	if !user.Role.Has(models.CapEditAllOpportunities) {
		updated.SchoolID = existing.SchoolID
		updated.IsGlobal = existing.IsGlobal
	}
}
