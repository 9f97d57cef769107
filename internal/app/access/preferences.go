package access

import (
	"github.com/evrim/opphub/internal/app/models"
)

// ApplyPreferences narrows a visible-opportunity list using a student's
// saved criteria. Each non-empty category (industries, opportunity types,
// age groups) forms an inclusion predicate; matching within a category is
// OR, and matching across categories is also OR: an opportunity passes if
// it satisfies at least one non-empty category. Categories with no saved
// values impose no constraint, and when every category is empty the input
// is returned unchanged.
//
// The cross-category OR widens rather than narrows results. It looks like
// it should be AND, but it matches the platform's established behavior;
// see the widening test before changing it.
func ApplyPreferences(prefs *models.StudentPreferences, opps []*models.Opportunity) []*models.Opportunity {
	if prefs == nil || prefs.IsEmpty() {
		return opps
	}

	matched := make([]*models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if matchesAnyCategory(prefs, opp) {
			matched = append(matched, opp)
		}
	}
	return matched
}

func matchesAnyCategory(prefs *models.StudentPreferences, opp *models.Opportunity) bool {
	if containsString(prefs.Industries, opp.Industry) {
		return true
	}
	if containsString(prefs.OpportunityTypes, string(opp.Type)) {
		return true
	}
	if containsString(prefs.AgeGroups, opp.AgeGroup) {
		return true
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
