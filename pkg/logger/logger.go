// Package logger provides a slog handler that enriches records with request-scoped identifiers.
package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceIDKey   = "trace_id"
	SpanIDKey    = "span_id"
	RequestIDKey = "request_id"
)

// ContextHandler wraps a slog.Handler and adds the trace, span and request identifiers
// carried by the record's context. A request_id already bound through WithAttrs is not repeated.
type ContextHandler struct {
	slog.Handler
	hasRequestID bool
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

// Handle adds the identifiers found in ctx and passes the record on.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String(TraceIDKey, sc.TraceID().String()),
			slog.String(SpanIDKey, sc.SpanID().String()),
		)
	}
	if !h.hasRequestID {
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			r.AddAttrs(slog.String(RequestIDKey, reqID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler with the given attributes added.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hasRequestID := h.hasRequestID
	for _, a := range attrs {
		if a.Key == RequestIDKey {
			hasRequestID = true
		}
	}
	return &ContextHandler{
		Handler:      h.Handler.WithAttrs(attrs),
		hasRequestID: hasRequestID,
	}
}

// WithGroup returns a new ContextHandler with the given group added.
func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{
		Handler:      h.Handler.WithGroup(group),
		hasRequestID: h.hasRequestID,
	}
}
