package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the shared error body shape without importing the
// handler package.
func writeJSONError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": msg,
		"error":   code,
		"help":    "contact support if the problem persists",
	})
}
