package core

import "context"

// Context keys for invocation options
type contextKey string

const skipHistoryKey contextKey = "skipHistory"

// WithoutHistory marks the invocation as one that must not be recorded.
func WithoutHistory(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipHistoryKey, true)
}

// shouldSkipHistory returns whether recording is disabled for ctx
func shouldSkipHistory(ctx context.Context) bool {
	val := ctx.Value(skipHistoryKey)
	if val == nil {
		return false // default: record when a store is configured
	}
	skip, ok := val.(bool)
	return ok && skip
}
