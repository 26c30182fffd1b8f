package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-match-api/internal/application/notification"
	"github.com/go-match-api/internal/transport/http/middleware"
)

// NotificationHandler handles the unread feed and read acknowledgements.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	notifications, err := h.svc.ListUnread(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: notifications})
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	n, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	n, err := h.svc.MarkAsRead(r.Context(), chi.URLParam(r, "id"), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
