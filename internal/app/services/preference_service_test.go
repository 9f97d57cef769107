package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evrim/opphub/internal/app/models/dto"
)

func TestPreferenceGetWithoutSavedRow(t *testing.T) {
	svc := NewPreferenceService(newFakePreferencesStore())

	resp, err := svc.Get(context.Background(), studentContext(10, nil))
	require.NoError(t, err)
	require.Equal(t, int64(10), resp.UserID)
	require.Empty(t, resp.Industries)
	require.Empty(t, resp.OpportunityTypes)
}

func TestPreferenceUpsertReplacesWhole(t *testing.T) {
	svc := NewPreferenceService(newFakePreferencesStore())
	user := studentContext(10, nil)

	_, err := svc.Upsert(context.Background(), user, &dto.UpsertPreferencesRequest{
		Industries: []string{"tech", "finance"},
		AgeGroups:  []string{"16-18"},
	})
	require.NoError(t, err)

	// A second save is a full replacement, not a merge.
	_, err = svc.Upsert(context.Background(), user, &dto.UpsertPreferencesRequest{
		Industries: []string{"arts"},
	})
	require.NoError(t, err)

	resp, err := svc.Get(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, []string{"arts"}, resp.Industries)
	require.Empty(t, resp.AgeGroups)
}

func TestPreferenceEmptyUpsertClearsFilters(t *testing.T) {
	svc := NewPreferenceService(newFakePreferencesStore())
	user := studentContext(10, nil)

	_, err := svc.Upsert(context.Background(), user, &dto.UpsertPreferencesRequest{Industries: []string{"tech"}})
	require.NoError(t, err)

	// There is no delete endpoint; saving an empty set is how filters are
	// cleared, and the saved empty row leaves the listing untouched.
	resp, err := svc.Upsert(context.Background(), user, &dto.UpsertPreferencesRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Industries)
	require.Empty(t, resp.AgeGroups)
	require.Empty(t, resp.OpportunityTypes)

	got, err := svc.Get(context.Background(), user)
	require.NoError(t, err)
	require.Empty(t, got.Industries)
}
