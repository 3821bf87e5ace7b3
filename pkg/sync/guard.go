package sync

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Guard is an exclusive lock that is associated with a single shared
// resource. As opposed to sync.Mutex, waiting for a Guard to become
// available can be abandoned by cancelling the Context that is provided
// to Lock(). This permits callers to put an upper bound on the amount
// of time spent waiting, and to recover from lock order inversions
// instead of hanging indefinitely.
//
// Releasing a Guard establishes a happens-before relationship with the
// next successful acquisition, meaning that all writes performed while
// holding it are visible to the next holder.
type Guard struct {
	name      string
	semaphore *semaphore.Weighted
}

// NewGuard creates a Guard that is initially unlocked. The name is only
// used for diagnostic purposes.
func NewGuard(name string) *Guard {
	return &Guard{
		name:      name,
		semaphore: semaphore.NewWeighted(1),
	}
}

// Name of the resource protected by the Guard.
func (g *Guard) Name() string {
	return g.name
}

// Lock the Guard, blocking until it becomes available or the Context
// is done. In the latter case the Guard is not held, and the error of
// the Context is returned.
func (g *Guard) Lock(ctx context.Context) error {
	return g.semaphore.Acquire(ctx, 1)
}

// TryLock attempts to lock the Guard without blocking.
func (g *Guard) TryLock() bool {
	return g.semaphore.TryAcquire(1)
}

// Unlock the Guard. Unlocking a Guard that is not held causes a panic.
func (g *Guard) Unlock() {
	g.semaphore.Release(1)
}
