package core

import "context"

// Context keys for dashboard options
type contextKey string

const (
	runIDKey     contextKey = "runID"
	skipCacheKey contextKey = "skipCache"
)

// withRunID stores the tracking run ID in the context.
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the tracking run ID from context, if any.
func getRunID(ctx context.Context) (int64, bool) {
	runID, ok := ctx.Value(runIDKey).(int64)
	return runID, ok
}

// WithSkipCache makes the fetch bypass cached stats for this context.
// Fresh results are still written back to the cache.
func WithSkipCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipCacheKey, true)
}

// shouldSkipCache returns whether cached stats should be ignored.
func shouldSkipCache(ctx context.Context) bool {
	val := ctx.Value(skipCacheKey)
	if val == nil {
		return false // default: use the cache
	}
	skip, ok := val.(bool)
	return ok && skip
}
