package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evrim/opphub/internal/app/models"
)

func TestCanMutate(t *testing.T) {
	schoolA := int64Ptr(1)
	schoolB := int64Ptr(2)

	ownOnly := models.RoleCapabilities{CanEditOwnOpportunities: true}
	schoolScope := models.RoleCapabilities{CanEditOwnOpportunities: true, CanEditSchoolOpportunities: true}
	allScope := models.RoleCapabilities{CanEditAllOpportunities: true}

	tests := []struct {
		name string
		user models.UserContext
		opp  *models.Opportunity
		want bool
	}{
		{
			name: "edit-all reaches any opportunity",
			user: models.UserContext{ID: 1, Role: allScope},
			opp:  &models.Opportunity{CreatedByID: 99, SchoolID: schoolB},
			want: true,
		},
		{
			name: "school scope covers same-school records by others",
			user: models.UserContext{ID: 1, SchoolID: schoolA, Role: schoolScope},
			opp:  &models.Opportunity{CreatedByID: 99, SchoolID: schoolA},
			want: true,
		},
		{
			name: "school scope stops at the school boundary",
			user: models.UserContext{ID: 1, SchoolID: schoolA, Role: schoolScope},
			opp:  &models.Opportunity{CreatedByID: 99, SchoolID: schoolB},
			want: false,
		},
		{
			name: "school scope without a school grants nothing school-wide",
			user: models.UserContext{ID: 1, Role: models.RoleCapabilities{CanEditSchoolOpportunities: true}},
			opp:  &models.Opportunity{CreatedByID: 99, SchoolID: schoolA},
			want: false,
		},
		{
			name: "own scope covers own record in another school",
			user: models.UserContext{ID: 1, SchoolID: schoolA, Role: ownOnly},
			opp:  &models.Opportunity{CreatedByID: 1, SchoolID: schoolB},
			want: true,
		},
		{
			name: "own scope does not cover others",
			user: models.UserContext{ID: 1, SchoolID: schoolA, Role: ownOnly},
			opp:  &models.Opportunity{CreatedByID: 2, SchoolID: schoolA},
			want: false,
		},
		{
			name: "no edit grants means no mutation even of own record",
			user: models.UserContext{ID: 1, SchoolID: schoolA, Role: models.RoleCapabilities{CanCreateOpportunities: true}},
			opp:  &models.Opportunity{CreatedByID: 1, SchoolID: schoolA},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanMutate(tt.user, tt.opp))
		})
	}
}

func TestSanitizeCreate(t *testing.T) {
	schoolA := int64Ptr(1)
	schoolB := int64Ptr(2)

	t.Run("restricted creator is pinned to own school", func(t *testing.T) {
		user := models.UserContext{ID: 7, SchoolID: schoolA, Role: models.RoleCapabilities{CanCreateOpportunities: true}}
		opp := &models.Opportunity{CreatedByID: 99, SchoolID: schoolB, IsGlobal: true}

		SanitizeCreate(user, opp)

		require.Equal(t, int64(7), opp.CreatedByID)
		require.Equal(t, schoolA, opp.SchoolID)
		require.False(t, opp.IsGlobal)
	})

	t.Run("edit-all keeps client ownership fields", func(t *testing.T) {
		user := models.UserContext{ID: 7, Role: models.RoleCapabilities{CanEditAllOpportunities: true}}
		opp := &models.Opportunity{CreatedByID: 99, SchoolID: schoolB, IsGlobal: true}

		SanitizeCreate(user, opp)

		require.Equal(t, int64(7), opp.CreatedByID)
		require.Equal(t, schoolB, opp.SchoolID)
		require.True(t, opp.IsGlobal)
	})
}

func TestSanitizeUpdate(t *testing.T) {
	schoolA := int64Ptr(1)
	schoolB := int64Ptr(2)
	existing := &models.Opportunity{ID: 3, CreatedByID: 42, SchoolID: schoolA, IsGlobal: false}

	t.Run("restricted editor cannot move or globalize", func(t *testing.T) {
		user := models.UserContext{ID: 42, SchoolID: schoolA, Role: models.RoleCapabilities{CanEditOwnOpportunities: true}}
		updated := &models.Opportunity{ID: 3, CreatedByID: 1, SchoolID: schoolB, IsGlobal: true}

		SanitizeUpdate(user, existing, updated)

		require.Equal(t, int64(42), updated.CreatedByID)
		require.Equal(t, schoolA, updated.SchoolID)
		require.False(t, updated.IsGlobal)
	})

	t.Run("edit-all may reassign school and flip global", func(t *testing.T) {
		user := models.UserContext{ID: 1, Role: models.RoleCapabilities{CanEditAllOpportunities: true}}
		updated := &models.Opportunity{ID: 3, CreatedByID: 1, SchoolID: schoolB, IsGlobal: true}

		SanitizeUpdate(user, existing, updated)

		// Creator is immutable for everyone.
		require.Equal(t, int64(42), updated.CreatedByID)
		require.Equal(t, schoolB, updated.SchoolID)
		require.True(t, updated.IsGlobal)
	})
}
