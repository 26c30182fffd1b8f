package user

import (
	"context"
	"errors"
	"testing"

	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.String(1), args.Error(2)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func newTestService(us *mockUserStore) Service {
	return NewService(ServiceDeps{UserRepo: us, Hasher: hash.NewBcrypt()})
}

// --- Update ---

func TestUpdate_NoFields_ReturnsCurrentRecord(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := newTestService(us)
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{})

	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_BadBirthday_ReturnsBadRequest(t *testing.T) {
	svc := newTestService(&mockUserStore{})
	bad := "not-a-date"
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Birthday: &bad})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_InvalidEnable_ReturnsBadRequest(t *testing.T) {
	svc := newTestService(&mockUserStore{})
	enable := 2
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Enable: &enable})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_FieldsMapped(t *testing.T) {
	us := &mockUserStore{}
	name := "New Name"
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m[fieldName] == name
	})).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Name: name}, nil)

	svc := newTestService(us)
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, name, u.Name)
	us.AssertExpectations(t)
}

// --- ChangePassword ---

func TestChangePassword_WrongCurrent_ReturnsUnauthorized(t *testing.T) {
	hashed, err := hash.NewBcrypt().Hash("current-password")
	require.NoError(t, err)

	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", PasswordHash: hashed}, nil)

	svc := newTestService(us)
	err = svc.ChangePassword(context.Background(), "u1", "wrong", "new-password-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestChangePassword_HappyPath_StoresNewHash(t *testing.T) {
	hasher := hash.NewBcrypt()
	hashed, err := hasher.Hash("current-password")
	require.NoError(t, err)

	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", PasswordHash: hashed}, nil)

	var storedHash string
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		h, ok := m[fieldPasswordHash].(string)
		if ok {
			storedHash = h
		}
		return ok
	})).Return(nil)

	svc := newTestService(us)
	err = svc.ChangePassword(context.Background(), "u1", "current-password", "new-password-1")

	require.NoError(t, err)
	assert.True(t, hasher.Verify("new-password-1", storedHash))
}
