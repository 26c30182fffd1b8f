package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-match-api/internal/application/photo"
	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/validate"
	"github.com/go-match-api/internal/transport/http/middleware"
)

// maxUploadBytes caps multipart photo uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// PhotoHandler handles profile photo uploads stored in S3.
type PhotoHandler struct {
	svc photo.Service
}

func NewPhotoHandler(svc photo.Service) *PhotoHandler { return &PhotoHandler{svc: svc} }

// Upload accepts a multipart form with a "file" part.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "missing file field")
		return
	}
	defer file.Close()

	p, err := h.svc.Upload(r.Context(), photo.UploadInput{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		ProfileID:   chi.URLParam(r, "id"),
		UserID:      actor.UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PhotoHandler) UploadBase64(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	var req domain.UploadPhotoBase64Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.UploadBase64(r.Context(), actor.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PhotoHandler) ListByProfile(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.ListByProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: photos})
}

// URL responds with a short-lived presigned link to the stored object.
func (h *PhotoHandler) URL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.URL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), actor.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "photo deleted"})
}
