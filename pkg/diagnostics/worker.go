package diagnostics

import (
	"context"
)

type workerKey struct{}

// NewContextWithWorker attaches the name of a worker to a Context.
// Goroutines have no identity that can be observed, so callers that
// want trace events to be attributed to a worker must name it
// explicitly.
func NewContextWithWorker(ctx context.Context, worker string) context.Context {
	return context.WithValue(ctx, workerKey{}, worker)
}

// WorkerFromContext returns the name of the worker attached to a
// Context, or "unknown" if none is present.
func WorkerFromContext(ctx context.Context) string {
	if worker, ok := ctx.Value(workerKey{}).(string); ok {
		return worker
	}
	return "unknown"
}
