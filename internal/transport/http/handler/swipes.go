package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-match-api/internal/application/swipe"
	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/validate"
	"github.com/go-match-api/internal/transport/http/middleware"
)

// SwipeHandler handles swipe recording and the daily history listing.
type SwipeHandler struct {
	svc swipe.Service
}

func NewSwipeHandler(svc swipe.Service) *SwipeHandler { return &SwipeHandler{svc: svc} }

func (h *SwipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	var req domain.CreateSwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.svc.Create(r.Context(), actor.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *SwipeHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	swipes, err := h.svc.ListToday(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: swipes})
}
