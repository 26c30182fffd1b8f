package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/pkg/validate"
)

// Error codes carried in the error field of the response body.
const (
	codeBadRequest    = "ERROR_BAD_REQUEST"
	codeUnauthorized  = "ERROR_UNAUTHORIZED"
	codeForbidden     = "ERROR_FORBIDDEN"
	codeNotFound      = "ERROR_NOT_FOUND"
	codeConflict      = "ERROR_CONFLICT"
	codeUnprocessable = "ERROR_UNPROCESSABLE_ENTITY"
	codeInternal      = "ERROR_INTERNAL_SERVER_ERROR"
)

// writeError maps a service error to its HTTP status and error code. Unknown
// errors become opaque 500s so infrastructure details never reach clients.
func writeError(w http.ResponseWriter, err error) {
	var ve *validate.Error
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Message: ve.Fields,
			Error:   codeUnprocessable,
			Help:    defaultHelp,
		})
		return
	}

	status, code := http.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status, code = http.StatusBadRequest, codeBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, codeForbidden
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, codeConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("unhandled error", "err", err)
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Message: msg, Error: code, Help: defaultHelp})
}

// writeBadRequest is the shortcut for malformed request bodies.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: msg, Error: codeBadRequest, Help: defaultHelp})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: msg, Error: codeUnauthorized, Help: defaultHelp})
}
