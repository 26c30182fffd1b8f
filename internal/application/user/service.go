package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-match-api/internal/domain"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername     = "username"
	fieldEmail        = "email"
	fieldPhone        = "phone"
	fieldName         = "name"
	fieldBirthday     = "birthday"
	fieldRole         = "role"
	fieldEnable       = "enable"
	fieldPasswordHash = "password_hash"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type Service interface {
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
}

type passwordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type service struct {
	repo   userStore
	hasher passwordHasher
}

type ServiceDeps struct {
	UserRepo userStore
	Hasher   passwordHasher
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo, hasher: deps.Hasher}
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Username != nil {
		updates[fieldUsername] = *req.Username
	}
	if req.Email != nil {
		updates[fieldEmail] = *req.Email
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Birthday != nil {
		t, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldBirthday] = t
	}
	if req.Role != nil {
		switch *req.Role {
		case domain.RoleAdmin, domain.RoleUser:
			updates[fieldRole] = *req.Role
		default:
			return nil, fmt.Errorf("invalid role: %w", domain.ErrBadRequest)
		}
	}
	if req.Enable != nil {
		if *req.Enable != 0 && *req.Enable != 1 {
			return nil, fmt.Errorf("enable must be 0 or 1: %w", domain.ErrBadRequest)
		}
		updates[fieldEnable] = *req.Enable
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	return s.repo.SoftDelete(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, u.PasswordHash) {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]interface{}{fieldPasswordHash: hash})
}
