package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-match-api/internal/application/subscription"
	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/validate"
	"github.com/go-match-api/internal/transport/http/middleware"
)

// SubscriptionHandler handles the plan catalog and user subscriptions.
type SubscriptionHandler struct {
	svc subscription.Service
}

func NewSubscriptionHandler(svc subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// ── Plans ────────────────────────────────────────────────────────────────

func (h *SubscriptionHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.ListPlans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: plans})
}

func (h *SubscriptionHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *SubscriptionHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.CreatePlan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *SubscriptionHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.UpdatePlan(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *SubscriptionHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "plan deleted"})
}

// ── Subscriptions ────────────────────────────────────────────────────────

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	sub, err := h.svc.Subscribe(r.Context(), actor.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Current(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	sub, err := h.svc.Current(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if sub == nil {
		writeError(w, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	subs, err := h.svc.History(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: subs})
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	sub, err := h.svc.Cancel(r.Context(), actor.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
