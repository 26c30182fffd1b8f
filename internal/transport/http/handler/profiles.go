package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-match-api/internal/application/profile"
	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/validate"
	"github.com/go-match-api/internal/transport/http/middleware"
)

// ProfileHandler handles profile CRUD and the daily stack endpoint.
type ProfileHandler struct {
	svc profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler { return &ProfileHandler{svc: svc} }

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.Create(r.Context(), actor.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePagination(r)
	profiles, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: profiles, NextCursor: next})
}

// Stack returns the profiles the caller may still review today.
func (h *ProfileHandler) Stack(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	profiles, err := h.svc.FindStack(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: profiles})
}

// Me returns the caller's own profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	p, err := h.svc.GetByUserID(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.Update(r.Context(), actor.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), actor.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "profile deleted"})
}
