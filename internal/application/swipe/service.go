package swipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/id"
)

// Result reports what a recorded swipe produced.
type Result struct {
	Swipe   *domain.Swipe `json:"swipe"`
	Outcome string        `json:"outcome"`
}

type Service interface {
	// Create records a swipe for the acting user. A like that closes a
	// mutual pair yields an OutcomeMatch result and notifies both sides.
	Create(ctx context.Context, userID string, req domain.CreateSwipeRequest) (*Result, error)
	ListToday(ctx context.Context, userID string) ([]domain.Swipe, error)
}

type swipeStore interface {
	Put(ctx context.Context, s *domain.Swipe) error
	CountByUserBetween(ctx context.Context, userID string, start, end time.Time) (int, error)
	ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.Swipe, error)
	HasLike(ctx context.Context, userID, profileID string) (bool, error)
}

type profileStore interface {
	Get(ctx context.Context, profileID string) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type service struct {
	repo             swipeStore
	profileRepo      profileStore
	notificationRepo notificationStore
	stackCount       int
	now              func() time.Time
}

type ServiceDeps struct {
	SwipeRepo        swipeStore
	ProfileRepo      profileStore
	NotificationRepo notificationStore
	StackCount       int
	// Now defaults to time.Now; tests override it to pin the day window.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:             deps.SwipeRepo,
		profileRepo:      deps.ProfileRepo,
		notificationRepo: deps.NotificationRepo,
		stackCount:       deps.StackCount,
		now:              now,
	}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateSwipeRequest) (*Result, error) {
	start, end := dayBounds(s.now())
	count, err := s.repo.CountByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if count >= s.stackCount {
		return nil, fmt.Errorf("daily swipe limit reached: %w", domain.ErrForbidden)
	}

	target, err := s.profileRepo.Get(ctx, req.ProfileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	sw := &domain.Swipe{
		SwipeID:   id.New(),
		UserID:    userID,
		ProfileID: target.ProfileID,
		Type:      req.Type,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Put(ctx, sw); err != nil {
		return nil, err
	}

	if req.Type == domain.SwipePass {
		return &Result{Swipe: sw, Outcome: domain.OutcomePass}, nil
	}

	matched, err := s.isMutualLike(ctx, userID, target)
	if err != nil {
		slog.Warn("mutual like check failed", "user_id", userID, "profile_id", target.ProfileID, "err", err)
		return &Result{Swipe: sw, Outcome: domain.OutcomeLike}, nil
	}
	if !matched {
		return &Result{Swipe: sw, Outcome: domain.OutcomeLike}, nil
	}

	s.notifyMatch(ctx, userID, target.UserID)
	return &Result{Swipe: sw, Outcome: domain.OutcomeMatch}, nil
}

func (s *service) ListToday(ctx context.Context, userID string) ([]domain.Swipe, error) {
	start, end := dayBounds(s.now())
	return s.repo.ListByUserBetween(ctx, userID, start, end)
}

// isMutualLike reports whether the owner of the target profile has already
// liked the acting user's own profile.
func (s *service) isMutualLike(ctx context.Context, userID string, target *domain.Profile) (bool, error) {
	own, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No own profile, nothing the other side could have liked.
			return false, nil
		}
		return false, err
	}
	return s.repo.HasLike(ctx, target.UserID, own.ProfileID)
}

// notifyMatch writes one notification per side. Delivery failures are logged
// and do not fail the swipe.
func (s *service) notifyMatch(ctx context.Context, userID, targetUserID string) {
	now := s.now().UTC()
	for _, uid := range []string{userID, targetUserID} {
		n := &domain.Notification{
			NotificationID: id.New(),
			UserID:         uid,
			Kind:           domain.NotificationMatch,
			Title:          "It's a match!",
			Body:           "You and another user liked each other.",
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.notificationRepo.Put(ctx, n); err != nil {
			slog.Warn("failed to store match notification", "user_id", uid, "err", err)
		}
	}
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}
