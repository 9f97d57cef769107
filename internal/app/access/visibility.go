// Package access holds the pure decision logic for the platform: who may
// see an opportunity, who may change it, and how a student's saved
// preferences narrow a listing. Everything here is side-effect free;
// persistence and transport concerns live elsewhere.
package access

import (
	"github.com/evrim/opphub/internal/app/models"
)

// IsVisible decides READ access for a (user, opportunity) pair.
//
// An opportunity is visible when it is global, when the user's school owns
// it, or when the user's school appears in its explicit share list. A user
// without a school (a platform-level account) sees only global
// opportunities through this predicate; whatever else they see comes from
// the canEditAllOpportunities listing override, not from here.
func IsVisible(user models.UserContext, opp *models.Opportunity) bool {
	if opp.IsGlobal {
		return true
	}
	if user.SchoolID == nil {
		return false
	}
	if opp.SchoolID != nil && *opp.SchoolID == *user.SchoolID {
		return true
	}
	for _, schoolID := range opp.VisibleToSchools {
		if schoolID == *user.SchoolID {
			return true
		}
	}
	return false
}

// FilterVisible applies IsVisible over a slice, preserving input order.
// Callers order by recency before filtering; reordering here would break
// stable pagination.
func FilterVisible(user models.UserContext, opps []*models.Opportunity) []*models.Opportunity {
	visible := make([]*models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if IsVisible(user, opp) {
			visible = append(visible, opp)
		}
	}
	return visible
}
