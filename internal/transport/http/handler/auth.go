package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-match-api/internal/application/auth"
	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/validate"
	"github.com/go-match-api/internal/transport/http/middleware"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles registration, login and token introspection.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.svc.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.svc.SignIn(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        u,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.svc.ValidateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeUnauthorized(w, "invalid credentials")
		return
	}
	result, err := h.svc.SignIn(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        u,
	})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.svc.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.svc.SignIn(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        u,
	})
}

// Me returns the user resolved from the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
