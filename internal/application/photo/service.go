package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/infrastructure/dynamo"
	s3infra "github.com/go-match-api/internal/infrastructure/s3"
	"github.com/go-match-api/internal/pkg/id"
)

// presignTTL bounds how long a generated photo URL stays valid.
const presignTTL = 15 * time.Minute

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	ProfileID   string
	UserID      string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Photo, error)
	UploadBase64(ctx context.Context, userID, profileID string, req domain.UploadPhotoBase64Request) (*domain.Photo, error)
	ListByProfile(ctx context.Context, profileID string) ([]domain.Photo, error)
	// URL returns a presigned, time-limited link to the stored object.
	URL(ctx context.Context, photoID string) (string, error)
	Delete(ctx context.Context, userID, photoID string) error
}

type service struct {
	s3          *s3infra.Store
	repo        *dynamo.PhotoRepo
	profileRepo *dynamo.ProfileRepo
}

func NewService(s3 *s3infra.Store, repo *dynamo.PhotoRepo, profileRepo *dynamo.ProfileRepo) Service {
	return &service{s3: s3, repo: repo, profileRepo: profileRepo}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Photo, error) {
	profile, err := s.profileRepo.Get(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != input.UserID {
		return nil, fmt.Errorf("profile belongs to another user: %w", domain.ErrForbidden)
	}

	safeName := sanitizeFilename(input.Filename)
	photoID := id.New()
	key := fmt.Sprintf("photos/%s/%s_%s", profile.ProfileID, photoID, safeName)
	contentType := input.ContentType
	if contentType == "" {
		contentType = s3infra.DetectContentType(safeName)
	}
	url, err := s.s3.Upload(ctx, key, input.Reader, contentType)
	if err != nil {
		return nil, err
	}

	p := &domain.Photo{
		PhotoID:     photoID,
		ProfileID:   profile.ProfileID,
		UserID:      input.UserID,
		Key:         key,
		URL:         url,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	s.setProfilePhoto(ctx, profile.ProfileID, url)
	return p, nil
}

func (s *service) UploadBase64(ctx context.Context, userID, profileID string, req domain.UploadPhotoBase64Request) (*domain.Photo, error) {
	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", domain.ErrBadRequest)
	}
	return s.Upload(ctx, UploadInput{
		Reader:    bytes.NewReader(decoded),
		Filename:  req.Filename,
		ProfileID: profileID,
		UserID:    userID,
	})
}

func (s *service) ListByProfile(ctx context.Context, profileID string) ([]domain.Photo, error) {
	return s.repo.ListByProfile(ctx, profileID)
}

func (s *service) URL(ctx context.Context, photoID string) (string, error) {
	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return "", err
	}
	return s.s3.PresignedURL(ctx, p.Key, presignTTL)
}

func (s *service) Delete(ctx context.Context, userID, photoID string) error {
	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return fmt.Errorf("photo belongs to another user: %w", domain.ErrForbidden)
	}
	if err := s.s3.Delete(ctx, p.Key); err != nil {
		return err
	}
	return s.repo.Delete(ctx, photoID)
}

// setProfilePhoto points the profile card at the latest upload. Failure is
// logged and does not fail the upload.
func (s *service) setProfilePhoto(ctx context.Context, profileID, url string) {
	if err := s.profileRepo.Update(ctx, profileID, map[string]interface{}{"photo_url": url}); err != nil {
		slog.Warn("failed to update profile photo url", "profile_id", profileID, "err", err)
	}
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
