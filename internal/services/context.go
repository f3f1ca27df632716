package services

import "context"

type contextKey string

const (
	postIDKey    contextKey = "post_id"
	requestIDKey contextKey = "request_id"
)

// WithPostID annotates context with the post identifier being processed.
func WithPostID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, postIDKey, id)
}

// PostIDFromContext extracts the post identifier if present.
func PostIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(postIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier for API requests.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(requestIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
