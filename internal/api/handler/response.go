package handler

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON response body with the given status code. A nil
// data value writes headers only.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

// ErrorResponse is the uniform error body: a stable machine-readable code
// plus an optional human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error writes an ErrorResponse with the given status code.
func Error(w http.ResponseWriter, status int, code string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
