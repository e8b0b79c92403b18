package web

import (
	"log/slog"
	"net/http"
	"strings"
)

// Envelope is the uniform wrapper for every API response.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// NewEnvelope wraps data with the given HTTP status and its label.
func NewEnvelope[T any](status int, data T) Envelope[T] {
	return Envelope[T]{
		Code:    status,
		Message: StatusLabel(status),
		Data:    data,
	}
}

// StatusLabel returns the upper snake case name of an HTTP status, e.g. "INTERNAL_SERVER_ERROR".
func StatusLabel(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}
	text = strings.ReplaceAll(text, "-", " ")
	return strings.ToUpper(strings.Join(strings.Fields(text), "_"))
}

// RespondEnvelope writes data wrapped in an Envelope.
func RespondEnvelope[T any](w http.ResponseWriter, logger *slog.Logger, status int, data T) {
	RespondJSON(w, logger, status, NewEnvelope(status, data))
}
