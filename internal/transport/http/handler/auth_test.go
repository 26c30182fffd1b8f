package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-match-api/internal/application/auth"
	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) ValidateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) SignIn(ctx context.Context, u *domain.User) (*auth.SignInResult, error) {
	args := m.Called(ctx, u)
	if r, _ := args.Get(0).(*auth.SignInResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) SignUp(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) LoginWithGoogle(ctx context.Context, idToken string) (*domain.User, error) {
	args := m.Called(ctx, idToken)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) RequestEmailConfirmation(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAuthSvc) ConfirmEmail(ctx context.Context, userID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *mockAuthSvc) RequestPhoneConfirmation(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAuthSvc) ConfirmPhone(ctx context.Context, userID, otp string) error {
	return m.Called(ctx, userID, otp).Error(0)
}

// --- helpers ---

func postJSON(t *testing.T, handlerFn http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	rr := httptest.NewRecorder()
	handlerFn(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// --- Login ---

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ValidateUser", mock.Anything, "alice", "wrong").Return(nil, nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Login, "/v1/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "ERROR_UNAUTHORIZED", body.Error)
	assert.NotEmpty(t, body.Help)
}

func TestLogin_MissingFields_Returns422(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	rr := postJSON(t, h.Login, "/v1/auth/login", map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "ERROR_UNPROCESSABLE_ENTITY", body.Error)

	// message is a list of {property, constraints} items
	items, ok := body.Message.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "password", first["property"])
	assert.NotEmpty(t, first["constraints"])
}

func TestLogin_MalformedBody_Returns400(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte("{not-json")))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "ERROR_BAD_REQUEST", decodeError(t, rr).Error)
}

func TestLogin_HappyPath_ReturnsTokenAndUser(t *testing.T) {
	u := &domain.User{UserID: "u1", Username: "alice"}
	svc := &mockAuthSvc{}
	svc.On("ValidateUser", mock.Anything, "alice", "password123").Return(u, nil)
	svc.On("SignIn", mock.Anything, u).Return(&auth.SignInResult{
		AccessToken: "token-abc", ExpiresIn: "24h",
	}, nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Login, "/v1/auth/login", map[string]string{
		"username": "alice", "password": "password123",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	var body AuthEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "token-abc", body.AccessToken)
	assert.Equal(t, "24h", body.ExpiresIn)
	require.NotNil(t, body.User)
	assert.Equal(t, "u1", body.User.UserID)
}

// --- Register ---

func TestRegister_ValidationFailure_Returns422(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	rr := postJSON(t, h.Register, "/v1/auth/register", map[string]string{
		"username": "al", // too short
		"password": "short",
		"email":    "not-an-email",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "ERROR_UNPROCESSABLE_ENTITY", decodeError(t, rr).Error)
}

func TestRegister_Conflict_Returns409(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("SignUp", mock.Anything, mock.AnythingOfType("domain.CreateUserRequest")).
		Return(nil, domain.ErrConflict)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Register, "/v1/auth/register", map[string]string{
		"username": "alice", "password": "password123", "email": "a@b.com",
		"name": "Alice", "birthday": "1995-04-02",
	})

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "ERROR_CONFLICT", decodeError(t, rr).Error)
}

func TestRegister_HappyPath_Returns201(t *testing.T) {
	u := &domain.User{UserID: "u1", Username: "alice"}
	svc := &mockAuthSvc{}
	svc.On("SignUp", mock.Anything, mock.AnythingOfType("domain.CreateUserRequest")).Return(u, nil)
	svc.On("SignIn", mock.Anything, u).Return(&auth.SignInResult{
		AccessToken: "token-abc", ExpiresIn: "24h",
	}, nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Register, "/v1/auth/register", map[string]string{
		"username": "alice", "password": "password123", "email": "a@b.com",
		"name": "Alice", "birthday": "1995-04-02",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	var body AuthEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "token-abc", body.AccessToken)
}

// --- Me ---

func TestMe_NoUserInContext_Returns401(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rr := httptest.NewRecorder()
	h.Me(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMe_ReturnsContextUser(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	ctx := context.WithValue(context.Background(), middleware.UserKey, &domain.User{UserID: "u1"})
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var u domain.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u))
	assert.Equal(t, "u1", u.UserID)
}
