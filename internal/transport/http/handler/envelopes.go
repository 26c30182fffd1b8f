package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-match-api/internal/domain"
)

// defaultHelp is appended to every error body so clients always have a
// support pointer.
const defaultHelp = "contact support if the problem persists"

// ErrorResponse is the error body shape shared by all endpoints. Message is a
// string for most failures and a list of field errors for validation ones.
type ErrorResponse struct {
	Message interface{} `json:"message"`
	Error   string      `json:"error"`
	Help    string      `json:"help"`
}

// MessageEnvelope is the generic success wrapper.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// AuthEnvelope wraps login and register responses.
type AuthEnvelope struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   string       `json:"expiresIn"`
	User        *domain.User `json:"user"`
}

// PageEnvelope wraps cursor-paginated list responses.
type PageEnvelope struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
