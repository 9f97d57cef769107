package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evrim/opphub/internal/app/models"
)

func idsOf(opps []*models.Opportunity) []int64 {
	ids := make([]int64, 0, len(opps))
	for _, opp := range opps {
		ids = append(ids, opp.ID)
	}
	return ids
}

func TestApplyPreferences(t *testing.T) {
	opps := []*models.Opportunity{
		{ID: 1, Industry: "tech", Type: models.OpportunityInternship, AgeGroup: "16-18"},
		{ID: 2, Industry: "finance", Type: models.OpportunityWorkshop, AgeGroup: "16-18"},
		{ID: 3, Industry: "arts", Type: models.OpportunityScholarship, AgeGroup: "14-16"},
	}

	t.Run("nil preferences pass everything", func(t *testing.T) {
		require.Equal(t, []int64{1, 2, 3}, idsOf(ApplyPreferences(nil, opps)))
	})

	t.Run("empty preferences pass everything", func(t *testing.T) {
		prefs := &models.StudentPreferences{}
		require.Equal(t, []int64{1, 2, 3}, idsOf(ApplyPreferences(prefs, opps)))
	})

	t.Run("single category matches within it", func(t *testing.T) {
		prefs := &models.StudentPreferences{Industries: []string{"tech", "arts"}}
		require.Equal(t, []int64{1, 3}, idsOf(ApplyPreferences(prefs, opps)))
	})

	t.Run("categories combine with OR, not AND", func(t *testing.T) {
		// Industry tech matches only opportunity 1; age group 14-16 matches
		// only opportunity 3. An AND would return nothing; the platform's
		// behavior returns the union.
		prefs := &models.StudentPreferences{
			Industries: []string{"tech"},
			AgeGroups:  []string{"14-16"},
		}
		require.Equal(t, []int64{1, 3}, idsOf(ApplyPreferences(prefs, opps)))
	})

	t.Run("type category matches the typed constant", func(t *testing.T) {
		prefs := &models.StudentPreferences{OpportunityTypes: []string{"WORKSHOP"}}
		require.Equal(t, []int64{2}, idsOf(ApplyPreferences(prefs, opps)))
	})

	t.Run("no category matches yields empty", func(t *testing.T) {
		prefs := &models.StudentPreferences{Industries: []string{"mining"}}
		require.Empty(t, ApplyPreferences(prefs, opps))
	})

	t.Run("locations are saved but never filter", func(t *testing.T) {
		prefs := &models.StudentPreferences{Locations: []string{"Leeds"}}
		require.Equal(t, []int64{1, 2, 3}, idsOf(ApplyPreferences(prefs, opps)))
	})
}
