package control

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinel errors for control server conditions.
var (
	// ErrBadOrigin is returned when a WebSocket origin check fails.
	ErrBadOrigin = errors.New("control: origin not allowed")

	// ErrServerClosed is returned after Shutdown.
	ErrServerClosed = errors.New("control: server closed")
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
