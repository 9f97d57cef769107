package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evrim/opphub/internal/app/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestIsVisible(t *testing.T) {
	schoolA := int64Ptr(1)
	schoolB := int64Ptr(2)

	tests := []struct {
		name string
		user models.UserContext
		opp  *models.Opportunity
		want bool
	}{
		{
			name: "global opportunity visible to anyone",
			user: models.UserContext{ID: 10, SchoolID: schoolB},
			opp:  &models.Opportunity{IsGlobal: true, SchoolID: schoolA},
			want: true,
		},
		{
			name: "global opportunity visible to schoolless user",
			user: models.UserContext{ID: 10},
			opp:  &models.Opportunity{IsGlobal: true},
			want: true,
		},
		{
			name: "own school opportunity",
			user: models.UserContext{ID: 10, SchoolID: schoolA},
			opp:  &models.Opportunity{SchoolID: schoolA},
			want: true,
		},
		{
			name: "other school opportunity hidden",
			user: models.UserContext{ID: 10, SchoolID: schoolA},
			opp:  &models.Opportunity{SchoolID: schoolB},
			want: false,
		},
		{
			name: "shared via visibility list",
			user: models.UserContext{ID: 10, SchoolID: schoolA},
			opp:  &models.Opportunity{SchoolID: schoolB, VisibleToSchools: []int64{3, 1}},
			want: true,
		},
		{
			name: "share list for a different school does not leak",
			user: models.UserContext{ID: 10, SchoolID: schoolA},
			opp:  &models.Opportunity{SchoolID: schoolB, VisibleToSchools: []int64{3, 4}},
			want: false,
		},
		{
			name: "schoolless user sees nothing non-global",
			user: models.UserContext{ID: 10},
			opp:  &models.Opportunity{SchoolID: schoolA, VisibleToSchools: []int64{1, 2}},
			want: false,
		},
		{
			name: "creator without visibility path is not exempt",
			user: models.UserContext{ID: 10, SchoolID: schoolA},
			opp:  &models.Opportunity{CreatedByID: 10, SchoolID: schoolB},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsVisible(tt.user, tt.opp))
		})
	}
}

func TestFilterVisiblePreservesOrder(t *testing.T) {
	user := models.UserContext{ID: 10, SchoolID: int64Ptr(1)}
	opps := []*models.Opportunity{
		{ID: 5, IsGlobal: true},
		{ID: 4, SchoolID: int64Ptr(2)},
		{ID: 3, SchoolID: int64Ptr(1)},
		{ID: 2, SchoolID: int64Ptr(2), VisibleToSchools: []int64{1}},
		{ID: 1, SchoolID: int64Ptr(3)},
	}

	visible := FilterVisible(user, opps)

	ids := make([]int64, 0, len(visible))
	for _, opp := range visible {
		ids = append(ids, opp.ID)
	}
	require.Equal(t, []int64{5, 3, 2}, ids)
}

func TestFilterVisibleEmptyInput(t *testing.T) {
	user := models.UserContext{ID: 10, SchoolID: int64Ptr(1)}
	require.Empty(t, FilterVisible(user, nil))
}
