package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/pkg/apperrors"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

// fakeOpportunityGetter serves a fixed set of opportunities by ID.
type fakeOpportunityGetter struct {
	mu   sync.Mutex
	opps map[int64]*models.Opportunity
}

func newFakeOpportunityGetter(opps ...*models.Opportunity) *fakeOpportunityGetter {
	byID := make(map[int64]*models.Opportunity, len(opps))
	for _, opp := range opps {
		byID[opp.ID] = opp
	}
	return &fakeOpportunityGetter{opps: byID}
}

func (f *fakeOpportunityGetter) GetByID(_ context.Context, id int64) (*models.Opportunity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opps[id], nil
}

// fakeInterestStore keeps registrations in memory under a single mutex,
// mirroring the repository contract: Register is atomic, idempotent and
// checks capacity under the lock.
type fakeInterestStore struct {
	mu       sync.Mutex
	capacity map[int64]*int // nil entry means unlimited
	regs     map[int64]map[int64]*models.StudentInterest
	nextID   int64
}

func newFakeInterestStore() *fakeInterestStore {
	return &fakeInterestStore{
		capacity: map[int64]*int{},
		regs:     map[int64]map[int64]*models.StudentInterest{},
	}
}

func (f *fakeInterestStore) setCapacity(opportunityID int64, spaces *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capacity[opportunityID] = spaces
}

func (f *fakeInterestStore) Register(_ context.Context, studentID, opportunityID int64) (*models.StudentInterest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byStudent := f.regs[opportunityID]
	if byStudent == nil {
		byStudent = map[int64]*models.StudentInterest{}
		f.regs[opportunityID] = byStudent
	}

	if existing, ok := byStudent[studentID]; ok {
		return existing, nil
	}

	if spaces, ok := f.capacity[opportunityID]; ok && spaces != nil && len(byStudent) >= *spaces {
		return nil, apperrors.NewCapacityExceededError(0)
	}

	f.nextID++
	interest := &models.StudentInterest{
		ID:               f.nextID,
		StudentID:        studentID,
		OpportunityID:    opportunityID,
		RegistrationDate: time.Now(),
	}
	byStudent[studentID] = interest
	return interest, nil
}

func (f *fakeInterestStore) Unregister(_ context.Context, studentID, opportunityID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.regs[opportunityID], studentID)
	return nil
}

func (f *fakeInterestStore) CountByOpportunityID(_ context.Context, opportunityID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.regs[opportunityID]), nil
}

func (f *fakeInterestStore) ListByOpportunityID(_ context.Context, opportunityID int64) ([]*models.StudentInterest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	interests := make([]*models.StudentInterest, 0, len(f.regs[opportunityID]))
	for _, interest := range f.regs[opportunityID] {
		interests = append(interests, interest)
	}
	return interests, nil
}

func studentContext(id int64, schoolID *int64) models.UserContext {
	return models.UserContext{
		ID:       id,
		SchoolID: schoolID,
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanManagePreferences: true},
	}
}

func TestRegisterClaimsSpace(t *testing.T) {
	opp := &models.Opportunity{ID: 1, IsGlobal: true, NumberOfSpaces: intPtr(5)}
	interests := newFakeInterestStore()
	interests.setCapacity(1, opp.NumberOfSpaces)
	svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

	resp, err := svc.Register(context.Background(), studentContext(10, nil), 1)
	require.NoError(t, err)
	require.Equal(t, int64(10), resp.StudentID)
	require.Equal(t, int64(1), resp.OpportunityID)
	require.NotNil(t, resp.SpacesLeft)
	require.Equal(t, 4, *resp.SpacesLeft)
}

func TestRegisterIsIdempotent(t *testing.T) {
	opp := &models.Opportunity{ID: 1, IsGlobal: true, NumberOfSpaces: intPtr(3)}
	interests := newFakeInterestStore()
	interests.setCapacity(1, opp.NumberOfSpaces)
	svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

	first, err := svc.Register(context.Background(), studentContext(10, nil), 1)
	require.NoError(t, err)

	second, err := svc.Register(context.Background(), studentContext(10, nil), 1)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)

	taken, err := interests.CountByOpportunityID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, taken)
	require.Equal(t, 2, *second.SpacesLeft)
}

func TestRegisterUnknownOpportunity(t *testing.T) {
	svc := NewRegistrationService(newFakeInterestStore(), newFakeOpportunityGetter())

	_, err := svc.Register(context.Background(), studentContext(10, nil), 42)
	require.ErrorIs(t, err, apperrors.ErrOpportunityNotFound)
}

func TestRegisterInvisibleOpportunityIsForbidden(t *testing.T) {
	// The student's school is neither the owner nor on the share list, so
	// registering by a guessed ID must be rejected outright.
	opp := &models.Opportunity{ID: 1, SchoolID: int64Ptr(2), VisibleToSchools: []int64{3}}
	interests := newFakeInterestStore()
	svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

	_, err := svc.Register(context.Background(), studentContext(10, int64Ptr(1)), 1)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	taken, err := interests.CountByOpportunityID(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, taken)
}

func TestRegisterCapacityExceeded(t *testing.T) {
	opp := &models.Opportunity{ID: 1, IsGlobal: true, NumberOfSpaces: intPtr(1)}
	interests := newFakeInterestStore()
	interests.setCapacity(1, opp.NumberOfSpaces)
	svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

	_, err := svc.Register(context.Background(), studentContext(10, nil), 1)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), studentContext(11, nil), 1)
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	taken, err := interests.CountByOpportunityID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, taken)
}

func TestRegisterLastSpaceRace(t *testing.T) {
	// Two students race for the single remaining space. Exactly one must
	// win regardless of scheduling.
	for i := 0; i < 50; i++ {
		opp := &models.Opportunity{ID: 1, IsGlobal: true, NumberOfSpaces: intPtr(1)}
		interests := newFakeInterestStore()
		interests.setCapacity(1, opp.NumberOfSpaces)
		svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for _, studentID := range []int64{10, 11} {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_, err := svc.Register(context.Background(), studentContext(id, nil), 1)
				errs <- err
			}(studentID)
		}
		wg.Wait()
		close(errs)

		var wins, capacityFailures int
		for err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperrors.ErrCapacityExceeded):
				capacityFailures++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		require.Equal(t, 1, wins)
		require.Equal(t, 1, capacityFailures)

		taken, err := interests.CountByOpportunityID(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, 1, taken)
	}
}

func TestRegisterSamePairRaceIsIdempotent(t *testing.T) {
	// The same student registering twice concurrently must yield one row
	// and two successes, never a conflict error.
	for i := 0; i < 50; i++ {
		opp := &models.Opportunity{ID: 1, IsGlobal: true, NumberOfSpaces: intPtr(1)}
		interests := newFakeInterestStore()
		interests.setCapacity(1, opp.NumberOfSpaces)
		svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

		type result struct {
			resp *dto.InterestResponse
			err  error
		}
		results := make(chan result, 2)
		var wg sync.WaitGroup
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := svc.Register(context.Background(), studentContext(10, nil), 1)
				results <- result{resp: resp, err: err}
			}()
		}
		wg.Wait()
		close(results)

		first := <-results
		second := <-results
		require.NoError(t, first.err)
		require.NoError(t, second.err)
		require.Equal(t, first.resp.ID, second.resp.ID)

		taken, err := interests.CountByOpportunityID(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, 1, taken)
	}
}

func TestUnregisterFreesSpace(t *testing.T) {
	opp := &models.Opportunity{ID: 1, IsGlobal: true, NumberOfSpaces: intPtr(1)}
	interests := newFakeInterestStore()
	interests.setCapacity(1, opp.NumberOfSpaces)
	svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

	_, err := svc.Register(context.Background(), studentContext(10, nil), 1)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), studentContext(11, nil), 1)
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	require.NoError(t, svc.Unregister(context.Background(), studentContext(10, nil), 1))

	resp, err := svc.Register(context.Background(), studentContext(11, nil), 1)
	require.NoError(t, err)
	require.Equal(t, 0, *resp.SpacesLeft)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	opp := &models.Opportunity{ID: 1, IsGlobal: true}
	svc := NewRegistrationService(newFakeInterestStore(), newFakeOpportunityGetter(opp))

	user := studentContext(10, nil)
	require.NoError(t, svc.Unregister(context.Background(), user, 1))
	require.NoError(t, svc.Unregister(context.Background(), user, 1))
}

func TestUnregisterUnknownOpportunity(t *testing.T) {
	svc := NewRegistrationService(newFakeInterestStore(), newFakeOpportunityGetter())
	err := svc.Unregister(context.Background(), studentContext(10, nil), 42)
	require.ErrorIs(t, err, apperrors.ErrOpportunityNotFound)
}

func TestListAttendees(t *testing.T) {
	opp := &models.Opportunity{ID: 1, SchoolID: int64Ptr(1), NumberOfSpaces: intPtr(5)}
	interests := newFakeInterestStore()
	interests.setCapacity(1, opp.NumberOfSpaces)
	svc := NewRegistrationService(interests, newFakeOpportunityGetter(opp))

	for _, id := range []int64{10, 11, 12} {
		_, err := svc.Register(context.Background(), studentContext(id, int64Ptr(1)), 1)
		require.NoError(t, err)
	}

	viewer := models.UserContext{
		ID:       2,
		SchoolID: int64Ptr(1),
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanViewAttendees: true},
	}

	resp, err := svc.ListAttendees(context.Background(), viewer, 1)
	require.NoError(t, err)
	require.Len(t, resp.Attendees, 3)
	require.NotNil(t, resp.SpacesLeft)
	require.Equal(t, 2, *resp.SpacesLeft)
}

func TestListAttendeesRequiresCapability(t *testing.T) {
	opp := &models.Opportunity{ID: 1, IsGlobal: true}
	svc := NewRegistrationService(newFakeInterestStore(), newFakeOpportunityGetter(opp))

	_, err := svc.ListAttendees(context.Background(), studentContext(10, nil), 1)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListAttendeesInvisibleOpportunityReportsNotFound(t *testing.T) {
	opp := &models.Opportunity{ID: 1, SchoolID: int64Ptr(2)}
	svc := NewRegistrationService(newFakeInterestStore(), newFakeOpportunityGetter(opp))

	viewer := models.UserContext{
		ID:       2,
		SchoolID: int64Ptr(1),
		Role:     models.RoleCapabilities{CanViewOpportunities: true, CanViewAttendees: true},
	}

	_, err := svc.ListAttendees(context.Background(), viewer, 1)
	require.ErrorIs(t, err, apperrors.ErrOpportunityNotFound)
}

func TestSpacesLeftClampsAtZero(t *testing.T) {
	require.Nil(t, spacesLeft(nil, 3))

	left := spacesLeft(intPtr(5), 3)
	require.Equal(t, 2, *left)

	// Overshoot from legacy rows must read as zero, never negative.
	left = spacesLeft(intPtr(2), 7)
	require.Equal(t, 0, *left)
}
