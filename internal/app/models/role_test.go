package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleCapabilitiesHas(t *testing.T) {
	rc := RoleCapabilities{
		CanCreateOpportunities: true,
		CanViewOpportunities:   true,
		CanManagePreferences:   true,
	}

	require.True(t, rc.Has(CapCreateOpportunities))
	require.True(t, rc.Has(CapViewOpportunities))
	require.True(t, rc.Has(CapManagePreferences))

	require.False(t, rc.Has(CapEditAllOpportunities))
	require.False(t, rc.Has(CapManageUsers))
}

func TestRoleCapabilitiesHasUnknownCapability(t *testing.T) {
	all := RoleCapabilities{
		CanCreateOpportunities:     true,
		CanEditOwnOpportunities:    true,
		CanEditSchoolOpportunities: true,
		CanEditAllOpportunities:    true,
		CanViewOpportunities:       true,
		CanViewAttendees:           true,
		CanManageUsers:             true,
		CanManageSchools:           true,
		CanManageSettings:          true,
		CanManagePreferences:       true,
		CanUploadDocuments:         true,
		CanManageNews:              true,
	}

	// Even a role with every flag set grants nothing for a name outside the
	// closed set.
	require.False(t, all.Has(Capability("DELETE_EVERYTHING")))
	require.False(t, all.Has(Capability("")))
}

func TestUserContext(t *testing.T) {
	schoolID := int64(3)

	t.Run("copies role capabilities", func(t *testing.T) {
		u := &User{
			ID:       7,
			SchoolID: &schoolID,
			Role:     &Role{Name: RoleTeacher, RoleCapabilities: RoleCapabilities{CanCreateOpportunities: true}},
		}
		ctx := u.Context()
		require.Equal(t, int64(7), ctx.ID)
		require.Equal(t, &schoolID, ctx.SchoolID)
		require.True(t, ctx.Role.Has(CapCreateOpportunities))
	})

	t.Run("missing role grants nothing", func(t *testing.T) {
		u := &User{ID: 7}
		ctx := u.Context()
		require.False(t, ctx.Role.Has(CapViewOpportunities))
	})
}
