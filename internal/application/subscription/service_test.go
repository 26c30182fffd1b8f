package subscription

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

type mockPlanStore struct{ mock.Mock }

func (m *mockPlanStore) Put(ctx context.Context, p *domain.Plan) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPlanStore) Get(ctx context.Context, planID string) (*domain.Plan, error) {
	args := m.Called(ctx, planID)
	if p, _ := args.Get(0).(*domain.Plan); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPlanStore) Scan(ctx context.Context) ([]domain.Plan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]domain.Plan)
	return plans, args.Error(1)
}
func (m *mockPlanStore) Update(ctx context.Context, planID string, updates map[string]interface{}) error {
	return m.Called(ctx, planID, updates).Error(0)
}
func (m *mockPlanStore) HardDelete(ctx context.Context, planID string) error {
	return m.Called(ctx, planID).Error(0)
}

type mockSubscriptionStore struct{ mock.Mock }

func (m *mockSubscriptionStore) Put(ctx context.Context, s *domain.Subscription) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSubscriptionStore) Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if s, _ := args.Get(0).(*domain.Subscription); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubscriptionStore) GetActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if s, _ := args.Get(0).(*domain.Subscription); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubscriptionStore) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	subs, _ := args.Get(0).([]domain.Subscription)
	return subs, args.Error(1)
}
func (m *mockSubscriptionStore) Update(ctx context.Context, subscriptionID string, updates map[string]interface{}) error {
	return m.Called(ctx, subscriptionID, updates).Error(0)
}

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestService(pr *mockPlanStore, sr *mockSubscriptionStore) Service {
	return NewService(ServiceDeps{
		PlanRepo:         pr,
		SubscriptionRepo: sr,
		Now:              func() time.Time { return fixedNow },
	})
}

// --- Subscribe ---

func TestSubscribe_UnknownPlan_ReturnsNotFound(t *testing.T) {
	pr := &mockPlanStore{}
	pr.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := newTestService(pr, &mockSubscriptionStore{})
	_, err := svc.Subscribe(context.Background(), "u1", domain.SubscribeRequest{PlanID: "ghost"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSubscribe_PlanLookupFails_NotMaskedAsNotFound(t *testing.T) {
	pr := &mockPlanStore{}
	storeErr := errors.New("dynamo unavailable")
	pr.On("Get", mock.Anything, "p1").Return(nil, storeErr)

	svc := newTestService(pr, &mockSubscriptionStore{})
	_, err := svc.Subscribe(context.Background(), "u1", domain.SubscribeRequest{PlanID: "p1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestSubscribe_DisabledPlan_ReturnsBadRequest(t *testing.T) {
	pr := &mockPlanStore{}
	pr.On("Get", mock.Anything, "plan1").Return(&domain.Plan{PlanID: "plan1", Enable: false}, nil)

	svc := newTestService(pr, &mockSubscriptionStore{})
	_, err := svc.Subscribe(context.Background(), "u1", domain.SubscribeRequest{PlanID: "plan1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSubscribe_AlreadyActive_ReturnsConflict(t *testing.T) {
	pr := &mockPlanStore{}
	sr := &mockSubscriptionStore{}
	pr.On("Get", mock.Anything, "plan1").Return(&domain.Plan{PlanID: "plan1", Enable: true, PeriodDays: 30}, nil)
	sr.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Subscription{
		SubscriptionID: "s1",
		Status:         domain.SubscriptionActive,
		EndsAt:         fixedNow.Add(10 * 24 * time.Hour),
	}, nil)

	svc := newTestService(pr, sr)
	_, err := svc.Subscribe(context.Background(), "u1", domain.SubscribeRequest{PlanID: "plan1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestSubscribe_HappyPath_EndsAfterPlanPeriod(t *testing.T) {
	pr := &mockPlanStore{}
	sr := &mockSubscriptionStore{}
	pr.On("Get", mock.Anything, "plan1").Return(&domain.Plan{PlanID: "plan1", Enable: true, PeriodDays: 30}, nil)
	sr.On("GetActiveByUser", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	var stored *domain.Subscription
	sr.On("Put", mock.Anything, mock.AnythingOfType("*domain.Subscription")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.Subscription)
	}).Return(nil)

	svc := newTestService(pr, sr)
	sub, err := svc.Subscribe(context.Background(), "u1", domain.SubscribeRequest{PlanID: "plan1"})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), sub.EndsAt)
}

// --- Current ---

func TestCurrent_NoActive_ReturnsNilNil(t *testing.T) {
	sr := &mockSubscriptionStore{}
	sr.On("GetActiveByUser", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	svc := newTestService(&mockPlanStore{}, sr)
	sub, err := svc.Current(context.Background(), "u1")

	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestCurrent_PastEnd_TransitionsToExpired(t *testing.T) {
	sr := &mockSubscriptionStore{}
	sr.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Subscription{
		SubscriptionID: "s1",
		Status:         domain.SubscriptionActive,
		EndsAt:         fixedNow.Add(-time.Hour),
	}, nil)
	sr.On("Update", mock.Anything, "s1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m[fieldStatus] == domain.SubscriptionExpired
	})).Return(nil)

	svc := newTestService(&mockPlanStore{}, sr)
	sub, err := svc.Current(context.Background(), "u1")

	require.NoError(t, err)
	assert.Nil(t, sub)
	sr.AssertExpectations(t)
}

// --- Cancel ---

func TestCancel_OtherUsersSubscription_ReturnsForbidden(t *testing.T) {
	sr := &mockSubscriptionStore{}
	sr.On("Get", mock.Anything, "s1").Return(&domain.Subscription{
		SubscriptionID: "s1", UserID: "owner", Status: domain.SubscriptionActive,
	}, nil)

	svc := newTestService(&mockPlanStore{}, sr)
	_, err := svc.Cancel(context.Background(), "intruder", "s1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCancel_HappyPath(t *testing.T) {
	sr := &mockSubscriptionStore{}
	sr.On("Get", mock.Anything, "s1").Return(&domain.Subscription{
		SubscriptionID: "s1", UserID: "u1", Status: domain.SubscriptionActive,
	}, nil)
	sr.On("Update", mock.Anything, "s1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m[fieldStatus] == domain.SubscriptionCanceled
	})).Return(nil)

	svc := newTestService(&mockPlanStore{}, sr)
	sub, err := svc.Cancel(context.Background(), "u1", "s1")

	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCanceled, sub.Status)
}
