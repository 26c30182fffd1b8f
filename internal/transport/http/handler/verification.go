package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-match-api/internal/application/auth"
	"github.com/go-match-api/internal/pkg/validate"
	"github.com/go-match-api/internal/transport/http/middleware"
)

// VerificationHandler handles email and phone confirmation flows.
type VerificationHandler struct {
	svc auth.Service
}

func NewVerificationHandler(svc auth.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	if err := h.svc.RequestEmailConfirmation(r.Context(), actor.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "confirmation email sent"})
}

func (h *VerificationHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	var req auth.ConfirmEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.ConfirmEmail(r.Context(), actor.UserID, req.Token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email confirmed"})
}

func (h *VerificationHandler) RequestPhone(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	if err := h.svc.RequestPhoneConfirmation(r.Context(), actor.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
}

func (h *VerificationHandler) ConfirmPhone(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	var req auth.ConfirmPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.ConfirmPhone(r.Context(), actor.UserID, req.OTP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "phone confirmed"})
}
