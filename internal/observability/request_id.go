package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey is the context key under which the per-request id travels.
const RequestIDKey contextKey = "request_id"

// NewRequestID mints a fresh request id.
func NewRequestID() string {
	return uuid.New().String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext returns the request id, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
