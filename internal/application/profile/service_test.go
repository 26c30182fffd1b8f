package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-match-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) Put(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProfileStore) Get(ctx context.Context, profileID string) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProfileStore) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProfileStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Profile, string, error) {
	args := m.Called(ctx, limit, cursor)
	profiles, _ := args.Get(0).([]domain.Profile)
	return profiles, args.String(1), args.Error(2)
}
func (m *mockProfileStore) ScanExcluding(ctx context.Context, excludedIDs []string, limit int) ([]domain.Profile, error) {
	args := m.Called(ctx, excludedIDs, limit)
	profiles, _ := args.Get(0).([]domain.Profile)
	return profiles, args.Error(1)
}
func (m *mockProfileStore) Update(ctx context.Context, profileID string, updates map[string]interface{}) error {
	return m.Called(ctx, profileID, updates).Error(0)
}
func (m *mockProfileStore) Delete(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}

type mockSwipeStore struct{ mock.Mock }

func (m *mockSwipeStore) CountByUserBetween(ctx context.Context, userID string, start, end time.Time) (int, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Int(0), args.Error(1)
}
func (m *mockSwipeStore) ProfileIDsByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]string, error) {
	args := m.Called(ctx, userID, start, end)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// fixedNow pins the clock to mid-day so the window bounds are unambiguous.
var fixedNow = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

func newTestService(ps *mockProfileStore, ss *mockSwipeStore, stackCount int) Service {
	return NewService(ServiceDeps{
		ProfileRepo: ps,
		SwipeRepo:   ss,
		StackCount:  stackCount,
		Now:         func() time.Time { return fixedNow },
	})
}

// --- FindStack ---

func TestFindStack_QuotaSpent_ReturnsEmptyWithoutScanning(t *testing.T) {
	ps := &mockProfileStore{}
	ss := &mockSwipeStore{}
	ss.On("CountByUserBetween", mock.Anything, "u1", mock.Anything, mock.Anything).Return(20, nil)

	svc := newTestService(ps, ss, 20)
	profiles, err := svc.FindStack(context.Background(), "u1")

	require.NoError(t, err)
	assert.Empty(t, profiles)
	ps.AssertNotCalled(t, "ScanExcluding", mock.Anything, mock.Anything, mock.Anything)
}

func TestFindStack_OverQuota_ReturnsEmpty(t *testing.T) {
	ps := &mockProfileStore{}
	ss := &mockSwipeStore{}
	ss.On("CountByUserBetween", mock.Anything, "u1", mock.Anything, mock.Anything).Return(25, nil)

	svc := newTestService(ps, ss, 20)
	profiles, err := svc.FindStack(context.Background(), "u1")

	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestFindStack_PartialQuota_CapsAtRemaining(t *testing.T) {
	ps := &mockProfileStore{}
	ss := &mockSwipeStore{}
	ss.On("CountByUserBetween", mock.Anything, "u1", mock.Anything, mock.Anything).Return(18, nil)
	ss.On("ProfileIDsByUserBetween", mock.Anything, "u1", mock.Anything, mock.Anything).
		Return([]string{"p1", "p2"}, nil)
	ps.On("ScanExcluding", mock.Anything, []string{"p1", "p2"}, 2).
		Return([]domain.Profile{{ProfileID: "p3"}, {ProfileID: "p4"}}, nil)

	svc := newTestService(ps, ss, 20)
	profiles, err := svc.FindStack(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, profiles, 2)
	ps.AssertExpectations(t)
}

func TestFindStack_NoSwipesToday_NoExclusions(t *testing.T) {
	ps := &mockProfileStore{}
	ss := &mockSwipeStore{}
	ss.On("CountByUserBetween", mock.Anything, "u1", mock.Anything, mock.Anything).Return(0, nil)
	ss.On("ProfileIDsByUserBetween", mock.Anything, "u1", mock.Anything, mock.Anything).
		Return([]string{}, nil)
	ps.On("ScanExcluding", mock.Anything, []string{}, 20).
		Return([]domain.Profile{{ProfileID: "p1"}}, nil)

	svc := newTestService(ps, ss, 20)
	profiles, err := svc.FindStack(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestFindStack_WindowIsCallersCalendarDay(t *testing.T) {
	ps := &mockProfileStore{}
	ss := &mockSwipeStore{}

	var gotStart, gotEnd time.Time
	ss.On("CountByUserBetween", mock.Anything, "u1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotStart = args.Get(2).(time.Time)
			gotEnd = args.Get(3).(time.Time)
		}).Return(20, nil)

	svc := newTestService(ps, ss, 20)
	_, err := svc.FindStack(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), gotStart)
	assert.Equal(t, 14, gotEnd.Day())
	assert.Equal(t, 23, gotEnd.Hour())
	assert.Equal(t, 59, gotEnd.Minute())
	assert.Equal(t, 59, gotEnd.Second())
}

// --- Create ---

func TestCreate_SecondProfile_ReturnsConflict(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByUserID", mock.Anything, "u1").Return(&domain.Profile{ProfileID: "p1"}, nil)

	svc := newTestService(ps, &mockSwipeStore{}, 20)
	_, err := svc.Create(context.Background(), "u1", domain.CreateProfileRequest{
		DisplayName: "Alice", Gender: "female",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreate_HappyPath(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByUserID", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	ps.On("Put", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

	svc := newTestService(ps, &mockSwipeStore{}, 20)
	p, err := svc.Create(context.Background(), "u1", domain.CreateProfileRequest{
		DisplayName: "Alice", Gender: "female", City: "Lisbon",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.ProfileID)
	assert.Equal(t, "u1", p.UserID)
}

// --- Update / Delete ownership ---

func TestUpdate_OtherUsersProfile_ReturnsForbidden(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Profile{ProfileID: "p1", UserID: "owner"}, nil)

	svc := newTestService(ps, &mockSwipeStore{}, 20)
	bio := "new bio"
	_, err := svc.Update(context.Background(), "intruder", "p1", domain.UpdateProfileRequest{Bio: &bio})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDelete_OtherUsersProfile_ReturnsForbidden(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Profile{ProfileID: "p1", UserID: "owner"}, nil)

	svc := newTestService(ps, &mockSwipeStore{}, 20)
	err := svc.Delete(context.Background(), "intruder", "p1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
