// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the standard error envelope: a machine-oriented label plus a
// human-readable message. Internal details never appear here.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes an error envelope with the given status, label, and message.
func Error(w http.ResponseWriter, status int, label, message string) {
	JSON(w, status, ErrorBody{Error: label, Message: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, label, message string) {
	Error(w, http.StatusBadRequest, label, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, label, message string) {
	Error(w, http.StatusNotFound, label, message)
}

// InternalError writes a 500 response with a generic message.
func InternalError(w http.ResponseWriter, label string) {
	Error(w, http.StatusInternalServerError, label, "something went wrong, please try again later")
}
