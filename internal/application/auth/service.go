package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/infrastructure/google"
	jwtinfra "github.com/go-match-api/internal/infrastructure/jwt"
	"github.com/go-match-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmailConfirmed = "email_confirmed"
	fieldPhoneConfirmed = "phone_confirmed"
	fieldGoogleSub      = "google_sub"
	fieldAuthProvider   = "auth_provider"
)

// SignInResult is the token pair returned to a freshly authenticated user.
type SignInResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   string `json:"expiresIn"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ConfirmEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type ConfirmPhoneRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type Service interface {
	// ValidateUser checks credentials against the stored hash. A missing
	// user and a wrong password are indistinguishable to the caller: both
	// return (nil, nil).
	ValidateUser(ctx context.Context, username, password string) (*domain.User, error)
	SignIn(ctx context.Context, u *domain.User) (*SignInResult, error)
	SignUp(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	// Authenticate resolves a bearer token to its live user record.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*domain.User, error)
	RequestEmailConfirmation(ctx context.Context, userID string) error
	ConfirmEmail(ctx context.Context, userID, token string) error
	RequestPhoneConfirmation(ctx context.Context, userID string) error
	ConfirmPhone(ctx context.Context, userID, otp string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error)
	Delete(ctx context.Context, userID, verType string) error
}

type passwordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type tokenProvider interface {
	Sign(userID string) (string, error)
	Verify(tokenStr string) (*jwtinfra.Claims, error)
	ExpiresIn() string
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type service struct {
	userRepo         userStore
	verificationRepo verificationStore
	hasher           passwordHasher
	tokens           tokenProvider
	mailer           mailer
	smsSender        smsSender
	google           googleVerifier
}

type ServiceDeps struct {
	UserRepo         userStore
	VerificationRepo verificationStore
	Hasher           passwordHasher
	Tokens           tokenProvider
	Mailer           mailer
	SMSSender        smsSender
	Google           googleVerifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:         deps.UserRepo,
		verificationRepo: deps.VerificationRepo,
		hasher:           deps.Hasher,
		tokens:           deps.Tokens,
		mailer:           deps.Mailer,
		smsSender:        deps.SMSSender,
		google:           deps.Google,
	}
}

func (s *service) ValidateUser(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if u.Enable != 1 {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

func (s *service) SignIn(ctx context.Context, u *domain.User) (*SignInResult, error) {
	token, err := s.tokens.Sign(u.UserID)
	if err != nil {
		return nil, err
	}
	return &SignInResult{
		AccessToken: token,
		ExpiresIn:   s.tokens.ExpiresIn(),
	}, nil
}

func (s *service) SignUp(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Name:         req.Name,
		Birthday:     birthday,
		Role:         domain.RoleUser,
		AuthProvider: "local",
		Enable:       1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject: %w", domain.ErrUnauthorized)
	}
	u, err := s.userRepo.Get(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("user no longer exists: %w", domain.ErrUnauthorized)
	}
	if u.Enable != 1 {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

func (s *service) LoginWithGoogle(ctx context.Context, idToken string) (*domain.User, error) {
	if s.google == nil {
		return nil, fmt.Errorf("google sign-in is not configured: %w", domain.ErrBadRequest)
	}
	payload, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if !payload.EmailVerified {
		return nil, fmt.Errorf("google account email not verified: %w", domain.ErrUnauthorized)
	}

	u, err := s.userRepo.GetByEmail(ctx, payload.Email)
	if err == nil {
		if u.Enable != 1 {
			return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
		}
		if u.GoogleSub == "" {
			// Link the Google identity to the existing local account.
			updates := map[string]interface{}{
				fieldGoogleSub:      payload.Sub,
				fieldEmailConfirmed: true,
			}
			if err := s.userRepo.Update(ctx, u.UserID, updates); err != nil {
				return nil, err
			}
			u.GoogleSub = payload.Sub
			u.EmailConfirmed = true
		} else if u.GoogleSub != payload.Sub {
			return nil, fmt.Errorf("google account mismatch: %w", domain.ErrUnauthorized)
		}
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u = &domain.User{
		UserID:         id.New(),
		Username:       payload.Email,
		Email:          payload.Email,
		Name:           payload.Name,
		Role:           domain.RoleUser,
		AuthProvider:   "google",
		GoogleSub:      payload.Sub,
		EmailConfirmed: true,
		Enable:         1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) RequestEmailConfirmation(ctx context.Context, userID string) error {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	token, err := generateToken(32)
	if err != nil {
		return err
	}
	v := &domain.UserVerification{
		UserID:    userID,
		Type:      domain.VerificationEmail,
		Code:      token,
		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendEmail(u.Email, "Confirm your email", "Token: "+token)
}

func (s *service) ConfirmEmail(ctx context.Context, userID, token string) error {
	v, err := s.verificationRepo.Get(ctx, userID, domain.VerificationEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("token not found: %w", domain.ErrNotFound)
		}
		return err
	}
	if v.Code != token {
		return fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
	}
	if err := s.verificationRepo.Delete(ctx, userID, domain.VerificationEmail); err != nil {
		slog.Warn("failed to delete email verification record", "user_id", userID, "err", err)
	}
	return s.userRepo.Update(ctx, userID, map[string]interface{}{fieldEmailConfirmed: true})
}

func (s *service) RequestPhoneConfirmation(ctx context.Context, userID string) error {
	if s.smsSender == nil {
		return fmt.Errorf("sms delivery is not configured: %w", domain.ErrBadRequest)
	}
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.Phone == nil {
		return fmt.Errorf("no phone number on account: %w", domain.ErrBadRequest)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(999999))
	if err != nil {
		return err
	}
	otp := fmt.Sprintf("%06d", n.Int64())
	v := &domain.UserVerification{
		UserID:    userID,
		Type:      domain.VerificationPhone,
		Code:      otp,
		ExpiresAt: time.Now().Add(15 * time.Minute).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	return s.smsSender.SendSMS(ctx, *u.Phone, "Your verification code: "+otp)
}

func (s *service) ConfirmPhone(ctx context.Context, userID, otp string) error {
	v, err := s.verificationRepo.Get(ctx, userID, domain.VerificationPhone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("OTP not found: %w", domain.ErrNotFound)
		}
		return err
	}
	if v.Code != otp {
		return fmt.Errorf("invalid OTP: %w", domain.ErrUnauthorized)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return fmt.Errorf("OTP expired: %w", domain.ErrUnauthorized)
	}
	if err := s.verificationRepo.Delete(ctx, userID, domain.VerificationPhone); err != nil {
		slog.Warn("failed to delete phone verification record", "user_id", userID, "err", err)
	}
	return s.userRepo.Update(ctx, userID, map[string]interface{}{fieldPhoneConfirmed: true})
}

func generateToken(n int) (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		b[i] = letters[idx.Int64()]
	}
	return string(b), nil
}
