package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldStatus     = "status"
	fieldName       = "name"
	fieldPriceCents = "price_cents"
	fieldPeriodDays = "period_days"
	fieldEnable     = "enable"
)

type Service interface {
	// Plan catalog, admin-managed.
	CreatePlan(ctx context.Context, req domain.CreatePlanRequest) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	GetPlan(ctx context.Context, planID string) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, planID string, req domain.UpdatePlanRequest) (*domain.Plan, error)
	DeletePlan(ctx context.Context, planID string) error

	// Subscriptions, owned by the acting user.
	Subscribe(ctx context.Context, userID string, req domain.SubscribeRequest) (*domain.Subscription, error)
	Current(ctx context.Context, userID string) (*domain.Subscription, error)
	History(ctx context.Context, userID string) ([]domain.Subscription, error)
	Cancel(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error)
}

type planStore interface {
	Put(ctx context.Context, p *domain.Plan) error
	Get(ctx context.Context, planID string) (*domain.Plan, error)
	Scan(ctx context.Context) ([]domain.Plan, error)
	Update(ctx context.Context, planID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, planID string) error
}

type subscriptionStore interface {
	Put(ctx context.Context, s *domain.Subscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	GetActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	Update(ctx context.Context, subscriptionID string, updates map[string]interface{}) error
}

type service struct {
	planRepo planStore
	repo     subscriptionStore
	now      func() time.Time
}

type ServiceDeps struct {
	PlanRepo         planStore
	SubscriptionRepo subscriptionStore
	Now              func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{planRepo: deps.PlanRepo, repo: deps.SubscriptionRepo, now: now}
}

func (s *service) CreatePlan(ctx context.Context, req domain.CreatePlanRequest) (*domain.Plan, error) {
	now := s.now().UTC()
	p := &domain.Plan{
		PlanID:     id.New(),
		Name:       req.Name,
		PriceCents: req.PriceCents,
		PeriodDays: req.PeriodDays,
		Enable:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.planRepo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.planRepo.Scan(ctx)
}

func (s *service) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	return s.planRepo.Get(ctx, planID)
}

func (s *service) UpdatePlan(ctx context.Context, planID string, req domain.UpdatePlanRequest) (*domain.Plan, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.PriceCents != nil {
		updates[fieldPriceCents] = *req.PriceCents
	}
	if req.PeriodDays != nil {
		updates[fieldPeriodDays] = *req.PeriodDays
	}
	if req.Enable != nil {
		updates[fieldEnable] = *req.Enable
	}
	if len(updates) == 0 {
		return s.planRepo.Get(ctx, planID)
	}
	if err := s.planRepo.Update(ctx, planID, updates); err != nil {
		return nil, err
	}
	return s.planRepo.Get(ctx, planID)
}

func (s *service) DeletePlan(ctx context.Context, planID string) error {
	if _, err := s.planRepo.Get(ctx, planID); err != nil {
		return err
	}
	return s.planRepo.HardDelete(ctx, planID)
}

func (s *service) Subscribe(ctx context.Context, userID string, req domain.SubscribeRequest) (*domain.Subscription, error) {
	plan, err := s.planRepo.Get(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("plan not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if !plan.Enable {
		return nil, fmt.Errorf("plan is not available: %w", domain.ErrBadRequest)
	}
	if current, err := s.Current(ctx, userID); err == nil && current != nil {
		return nil, fmt.Errorf("user already has an active subscription: %w", domain.ErrConflict)
	} else if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sub := &domain.Subscription{
		SubscriptionID: id.New(),
		UserID:         userID,
		PlanID:         plan.PlanID,
		Status:         domain.SubscriptionActive,
		StartsAt:       now,
		EndsAt:         now.AddDate(0, 0, plan.PeriodDays),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Current returns the user's active subscription or (nil, nil) when there is
// none. A stored record past its end time is transitioned to expired on read.
func (s *service) Current(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if sub.EndsAt.Before(s.now().UTC()) {
		if err := s.repo.Update(ctx, sub.SubscriptionID, map[string]interface{}{fieldStatus: domain.SubscriptionExpired}); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return sub, nil
}

func (s *service) History(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Cancel(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error) {
	sub, err := s.repo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, fmt.Errorf("subscription belongs to another user: %w", domain.ErrForbidden)
	}
	if sub.Status != domain.SubscriptionActive {
		return nil, fmt.Errorf("subscription is not active: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, subscriptionID, map[string]interface{}{fieldStatus: domain.SubscriptionCanceled}); err != nil {
		return nil, err
	}
	sub.Status = domain.SubscriptionCanceled
	return sub, nil
}
