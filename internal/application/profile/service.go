package profile

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
	fieldDisplayName = "display_name"
	fieldGender      = "gender"
	fieldBio         = "bio"
	fieldCity        = "city"
	fieldPhotoURL    = "photo_url"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateProfileRequest) (*domain.Profile, error)
	Get(ctx context.Context, profileID string) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Profile, string, error)
	Update(ctx context.Context, userID, profileID string, req domain.UpdateProfileRequest) (*domain.Profile, error)
	Delete(ctx context.Context, userID, profileID string) error
	// FindStack returns the profiles the user may still review today. The
	// size of the result never exceeds the daily quota minus the swipes
	// already spent within the current calendar day.
	FindStack(ctx context.Context, userID string) ([]domain.Profile, error)
}

type profileStore interface {
	Put(ctx context.Context, p *domain.Profile) error
	Get(ctx context.Context, profileID string) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Profile, string, error)
	ScanExcluding(ctx context.Context, excludedIDs []string, limit int) ([]domain.Profile, error)
	Update(ctx context.Context, profileID string, updates map[string]interface{}) error
	Delete(ctx context.Context, profileID string) error
}

type swipeStore interface {
	CountByUserBetween(ctx context.Context, userID string, start, end time.Time) (int, error)
	ProfileIDsByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]string, error)
}

type service struct {
	repo       profileStore
	swipeRepo  swipeStore
	stackCount int
	now        func() time.Time
}

type ServiceDeps struct {
	ProfileRepo profileStore
	SwipeRepo   swipeStore
	StackCount  int
	// Now defaults to time.Now; tests override it to pin the day window.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       deps.ProfileRepo,
		swipeRepo:  deps.SwipeRepo,
		stackCount: deps.StackCount,
		now:        now,
	}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateProfileRequest) (*domain.Profile, error) {
	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("user already has a profile: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	now := s.now().UTC()
	p := &domain.Profile{
		ProfileID:   id.New(),
		UserID:      userID,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		Bio:         req.Bio,
		City:        req.City,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, profileID string) (*domain.Profile, error) {
	return s.repo.Get(ctx, profileID)
}

func (s *service) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Profile, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Update(ctx context.Context, userID, profileID string, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	p, err := s.repo.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("profile belongs to another user: %w", domain.ErrForbidden)
	}
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates[fieldDisplayName] = *req.DisplayName
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if req.Bio != nil {
		updates[fieldBio] = *req.Bio
	}
	if req.City != nil {
		updates[fieldCity] = *req.City
	}
	if req.PhotoURL != nil {
		updates[fieldPhotoURL] = *req.PhotoURL
	}
	if len(updates) == 0 {
		return p, nil
	}
	if err := s.repo.Update(ctx, profileID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, profileID)
}

func (s *service) Delete(ctx context.Context, userID, profileID string) error {
	p, err := s.repo.Get(ctx, profileID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return fmt.Errorf("profile belongs to another user: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, profileID)
}

func (s *service) FindStack(ctx context.Context, userID string) ([]domain.Profile, error) {
	start, end := dayBounds(s.now())

	count, err := s.swipeRepo.CountByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	remaining := s.stackCount - count
	if remaining <= 0 {
		return []domain.Profile{}, nil
	}

	swipedIDs, err := s.swipeRepo.ProfileIDsByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return s.repo.ScanExcluding(ctx, swipedIDs, remaining)
}

// dayBounds returns the inclusive bounds of the calendar day containing t,
// in t's location: 00:00:00.000 through 23:59:59.999.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}
