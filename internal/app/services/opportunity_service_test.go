package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/pkg/apperrors"
)

// fakeOpportunityStore returns its opportunities in insertion order,
// ignoring SQL-level filters; the listing tests exercise the in-memory
// policy pipeline, not the query builder.
type fakeOpportunityStore struct {
	mu     sync.Mutex
	opps   []*models.Opportunity
	nextID int64
}

func newFakeOpportunityStore(opps ...*models.Opportunity) *fakeOpportunityStore {
	store := &fakeOpportunityStore{}
	for _, opp := range opps {
		store.opps = append(store.opps, opp)
		if opp.ID > store.nextID {
			store.nextID = opp.ID
		}
	}
	return store
}

func (f *fakeOpportunityStore) GetByID(_ context.Context, id int64) (*models.Opportunity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, opp := range f.opps {
		if opp.ID == id {
			copied := *opp
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOpportunityStore) GetAll(_ context.Context, _, _, _ *string) ([]*models.Opportunity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Opportunity(nil), f.opps...), nil
}

func (f *fakeOpportunityStore) Create(_ context.Context, opp *models.Opportunity) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	opp.ID = f.nextID
	f.opps = append(f.opps, opp)
	return opp.ID, nil
}

func (f *fakeOpportunityStore) Update(_ context.Context, updated *models.Opportunity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, opp := range f.opps {
		if opp.ID == updated.ID {
			f.opps[i] = updated
			return nil
		}
	}
	return apperrors.ErrOpportunityNotFound
}

func (f *fakeOpportunityStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, opp := range f.opps {
		if opp.ID == id {
			f.opps = append(f.opps[:i], f.opps[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrOpportunityNotFound
}

// CountsByOpportunityIDs lets fakeInterestStore double as the listing
// layer's InterestCounter.
func (f *fakeInterestStore) CountsByOpportunityIDs(_ context.Context, opportunityIDs []int64) (map[int64]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[int64]int, len(opportunityIDs))
	for _, id := range opportunityIDs {
		counts[id] = len(f.regs[id])
	}
	return counts, nil
}

type fakePreferencesStore struct {
	mu    sync.Mutex
	prefs map[int64]*models.StudentPreferences
}

func newFakePreferencesStore() *fakePreferencesStore {
	return &fakePreferencesStore{prefs: map[int64]*models.StudentPreferences{}}
}

func (f *fakePreferencesStore) GetByUserID(_ context.Context, userID int64) (*models.StudentPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs[userID], nil
}

func (f *fakePreferencesStore) Upsert(_ context.Context, prefs *models.StudentPreferences) (*models.StudentPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefs.UserID] = prefs
	return prefs, nil
}

type fakeAttachmentLister struct{}

func (fakeAttachmentLister) ListByResource(_ context.Context, _ models.FileType, _ int64) ([]*models.File, error) {
	return nil, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestOpportunityService(store *fakeOpportunityStore, interests *fakeInterestStore, prefs *fakePreferencesStore, now time.Time) OpportunityService {
	return NewOpportunityService(store, interests, prefs, fakeAttachmentLister{}, fixedClock{now: now})
}

func listingFixture() *fakeOpportunityStore {
	return newFakeOpportunityStore(
		&models.Opportunity{ID: 1, Industry: "tech", IsGlobal: true},
		&models.Opportunity{ID: 2, Industry: "finance", SchoolID: int64Ptr(1)},
		&models.Opportunity{ID: 3, Industry: "tech", SchoolID: int64Ptr(2)},
		&models.Opportunity{ID: 4, Industry: "arts", SchoolID: int64Ptr(2), VisibleToSchools: []int64{1}},
	)
}

func listedIDs(t *testing.T, svc OpportunityService, user models.UserContext, page, size int) []int64 {
	t.Helper()
	resp, err := svc.ListForUser(context.Background(), user, &dto.OpportunityFilterRequest{Page: page, PageSize: size})
	require.NoError(t, err)
	ids := make([]int64, 0, len(resp.Opportunities))
	for _, opp := range resp.Opportunities {
		ids = append(ids, opp.ID)
	}
	return ids
}

func TestListForUserVisibilityTiers(t *testing.T) {
	store := listingFixture()
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	t.Run("student sees global, own school and shared", func(t *testing.T) {
		user := studentContext(10, int64Ptr(1))
		require.Equal(t, []int64{1, 2, 4}, listedIDs(t, svc, user, 1, 10))
	})

	t.Run("schoolless student sees only global", func(t *testing.T) {
		user := studentContext(10, nil)
		require.Equal(t, []int64{1}, listedIDs(t, svc, user, 1, 10))
	})

	t.Run("edit-all sees the full universe", func(t *testing.T) {
		user := models.UserContext{ID: 1, Role: models.RoleCapabilities{CanViewOpportunities: true, CanEditAllOpportunities: true}}
		require.Equal(t, []int64{1, 2, 3, 4}, listedIDs(t, svc, user, 1, 10))
	})

	t.Run("teacher is visibility-filtered but not preference-filtered", func(t *testing.T) {
		user := models.UserContext{
			ID:       20,
			SchoolID: int64Ptr(1),
			Role:     models.RoleCapabilities{CanViewOpportunities: true, CanCreateOpportunities: true},
		}
		require.Equal(t, []int64{1, 2, 4}, listedIDs(t, svc, user, 1, 10))
	})
}

func TestListForUserAppliesStudentPreferences(t *testing.T) {
	store := listingFixture()
	prefs := newFakePreferencesStore()
	_, err := prefs.Upsert(context.Background(), &models.StudentPreferences{UserID: 10, Industries: []string{"tech"}})
	require.NoError(t, err)

	svc := newTestOpportunityService(store, newFakeInterestStore(), prefs, time.Now())

	// Opportunity 3 is tech but invisible; opportunity 4 is visible but
	// filtered out by the preference. Only the global tech one remains.
	user := studentContext(10, int64Ptr(1))
	require.Equal(t, []int64{1}, listedIDs(t, svc, user, 1, 10))
}

func TestListForUserSchoolEditorBypassesPreferences(t *testing.T) {
	store := listingFixture()
	prefs := newFakePreferencesStore()
	_, err := prefs.Upsert(context.Background(), &models.StudentPreferences{UserID: 30, Industries: []string{"tech"}})
	require.NoError(t, err)

	svc := newTestOpportunityService(store, newFakeInterestStore(), prefs, time.Now())

	// A custom role may hold the school-editing grant without the creation
	// one; staff-tier roles manage listings and are never narrowed by
	// their own saved filters.
	user := models.UserContext{
		ID:       30,
		SchoolID: int64Ptr(1),
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanEditSchoolOpportunities: true},
	}
	require.Equal(t, []int64{1, 2, 4}, listedIDs(t, svc, user, 1, 10))
}

func TestListForUserPaginatesAfterFiltering(t *testing.T) {
	store := listingFixture()
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	user := studentContext(10, int64Ptr(1))

	// Three visible items paged two at a time: the second page holds the
	// third visible item, not whatever landed at raw offset 2.
	require.Equal(t, []int64{1, 2}, listedIDs(t, svc, user, 1, 2))
	require.Equal(t, []int64{4}, listedIDs(t, svc, user, 2, 2))
	require.Empty(t, listedIDs(t, svc, user, 3, 2))

	resp, err := svc.ListForUser(context.Background(), user, &dto.OpportunityFilterRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Pagination.TotalItems)
	require.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestListForUserDerivesSpacesLeft(t *testing.T) {
	store := newFakeOpportunityStore(
		&models.Opportunity{ID: 1, IsGlobal: true, NumberOfSpaces: intPtr(5)},
		&models.Opportunity{ID: 2, IsGlobal: true},
	)
	interests := newFakeInterestStore()
	interests.setCapacity(1, intPtr(5))
	for _, studentID := range []int64{101, 102, 103} {
		_, err := interests.Register(context.Background(), studentID, 1)
		require.NoError(t, err)
	}

	svc := newTestOpportunityService(store, interests, newFakePreferencesStore(), time.Now())

	resp, err := svc.ListForUser(context.Background(), studentContext(10, nil), &dto.OpportunityFilterRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, resp.Opportunities, 2)

	require.NotNil(t, resp.Opportunities[0].SpacesLeft)
	require.Equal(t, 2, *resp.Opportunities[0].SpacesLeft)

	// Unbounded capacity stays null rather than becoming a large number.
	require.Nil(t, resp.Opportunities[1].NumberOfSpaces)
	require.Nil(t, resp.Opportunities[1].SpacesLeft)
}

func TestGetByIDHidesInvisibleOpportunities(t *testing.T) {
	store := newFakeOpportunityStore(&models.Opportunity{ID: 1, SchoolID: int64Ptr(2)})
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	_, err := svc.GetByID(context.Background(), studentContext(10, int64Ptr(1)), 1)
	require.ErrorIs(t, err, apperrors.ErrOpportunityNotFound)

	_, err = svc.GetByID(context.Background(), studentContext(10, int64Ptr(1)), 99)
	require.ErrorIs(t, err, apperrors.ErrOpportunityNotFound)
}

func TestGetByIDAllowsMutatorsPastVisibility(t *testing.T) {
	// The creator moved schools; their own record stays reachable through
	// the edit-own grant even though it is no longer visible to them.
	store := newFakeOpportunityStore(&models.Opportunity{ID: 1, CreatedByID: 20, SchoolID: int64Ptr(2)})
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	user := models.UserContext{
		ID:       20,
		SchoolID: int64Ptr(1),
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanEditOwnOpportunities: true},
	}

	resp, err := svc.GetByID(context.Background(), user, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.ID)
}

func TestGetByIDReportsDeadlinePassed(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	store := newFakeOpportunityStore(
		&models.Opportunity{ID: 1, IsGlobal: true, ApplicationDeadline: &past},
		&models.Opportunity{ID: 2, IsGlobal: true, ApplicationDeadline: &future},
		&models.Opportunity{ID: 3, IsGlobal: true},
	)
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), now)

	user := studentContext(10, nil)

	resp, err := svc.GetByID(context.Background(), user, 1)
	require.NoError(t, err)
	require.True(t, resp.DeadlinePassed)

	resp, err = svc.GetByID(context.Background(), user, 2)
	require.NoError(t, err)
	require.False(t, resp.DeadlinePassed)

	resp, err = svc.GetByID(context.Background(), user, 3)
	require.NoError(t, err)
	require.False(t, resp.DeadlinePassed)
}

func TestCreateRequiresCapability(t *testing.T) {
	store := newFakeOpportunityStore()
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	req := &dto.CreateOpportunityRequest{Title: "t", Description: "d", Industry: "tech", Type: "WORKSHOP"}
	_, err := svc.Create(context.Background(), studentContext(10, int64Ptr(1)), req)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateSanitizesOwnership(t *testing.T) {
	store := newFakeOpportunityStore()
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	user := models.UserContext{
		ID:       20,
		SchoolID: int64Ptr(1),
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanCreateOpportunities: true, CanEditOwnOpportunities: true},
	}

	// The payload claims another school and global reach; both are
	// overwritten for a restricted creator.
	req := &dto.CreateOpportunityRequest{
		Title:       "Summer internship",
		Description: "d",
		Industry:    "tech",
		Type:        "INTERNSHIP",
		SchoolID:    int64Ptr(9),
		IsGlobal:    true,
	}

	resp, err := svc.Create(context.Background(), user, req)
	require.NoError(t, err)
	require.Equal(t, int64(20), resp.CreatedByID)
	require.Equal(t, int64Ptr(1), resp.SchoolID)
	require.False(t, resp.IsGlobal)
}

func TestUpdateKeepsGlobalFlagWhenOmitted(t *testing.T) {
	store := newFakeOpportunityStore(&models.Opportunity{
		ID: 1, Title: "old", CreatedByID: 1, IsGlobal: true, Industry: "tech", Type: models.OpportunityWorkshop,
	})
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	admin := models.UserContext{ID: 1, Role: models.RoleCapabilities{CanViewOpportunities: true, CanEditAllOpportunities: true}}

	req := &dto.UpdateOpportunityRequest{Title: "new", Description: "d", Industry: "tech", Type: "WORKSHOP"}
	resp, err := svc.Update(context.Background(), admin, 1, req)
	require.NoError(t, err)
	require.Equal(t, "new", resp.Title)
	require.True(t, resp.IsGlobal)
}

func TestUpdateForbiddenOutsideMutationScope(t *testing.T) {
	store := newFakeOpportunityStore(&models.Opportunity{ID: 1, CreatedByID: 99, SchoolID: int64Ptr(1), IsGlobal: true})
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	user := models.UserContext{
		ID:       20,
		SchoolID: int64Ptr(1),
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanCreateOpportunities: true, CanEditOwnOpportunities: true},
	}

	req := &dto.UpdateOpportunityRequest{Title: "hijack", Description: "d", Industry: "tech", Type: "WORKSHOP"}
	_, err := svc.Update(context.Background(), user, 1, req)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDelete(t *testing.T) {
	store := newFakeOpportunityStore(&models.Opportunity{ID: 1, CreatedByID: 20, SchoolID: int64Ptr(1)})
	svc := newTestOpportunityService(store, newFakeInterestStore(), newFakePreferencesStore(), time.Now())

	stranger := studentContext(10, int64Ptr(1))
	require.ErrorIs(t, svc.Delete(context.Background(), stranger, 1), apperrors.ErrPermissionDenied)

	owner := models.UserContext{
		ID:       20,
		SchoolID: int64Ptr(1),
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanEditOwnOpportunities: true},
	}
	require.NoError(t, svc.Delete(context.Background(), owner, 1))
	require.ErrorIs(t, svc.Delete(context.Background(), owner, 1), apperrors.ErrOpportunityNotFound)
}
