package transfer

import (
	"context"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/sync"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LockWaiter acquires Guards on behalf of Strategy implementations,
// recording the acquisitions and releases in a diagnostic trace.
//
// If a timeout is configured, waiting for a single Guard is bounded.
// This permits goroutines that got caught up in a deadlock to back out
// with an error that has code DeadlineExceeded. A timeout of zero
// causes LockWaiter to wait until the caller's Context is done.
type LockWaiter struct {
	clock   clock.Clock
	timeout time.Duration
}

// NewLockWaiter creates a LockWaiter.
func NewLockWaiter(clock clock.Clock, timeout time.Duration) *LockWaiter {
	return &LockWaiter{
		clock:   clock,
		timeout: timeout,
	}
}

func (lw *LockWaiter) lock(ctx context.Context, lockPile *sync.LockPile, guard *sync.Guard, beforeUnlock func()) error {
	lockCtx := ctx
	if lw.timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = lw.clock.NewContextWithTimeout(ctx, lw.timeout)
		defer cancel()
	}
	if err := lockPile.Lock(lockCtx, guard, beforeUnlock); err != nil {
		if ctxErr := util.StatusFromContext(ctx); ctxErr != nil {
			return util.StatusWrapf(ctxErr, "Failed to acquire lock %#v", guard.Name())
		}
		return status.Errorf(codes.DeadlineExceeded, "Failed to acquire lock %#v within %s", guard.Name(), lw.timeout)
	}
	return nil
}

// lockAccount acquires the Guard of an Account.
func (lw *LockWaiter) lockAccount(ctx context.Context, lockPile *sync.LockPile, a *account.Account, sink diagnostics.Sink) error {
	if err := lw.lock(ctx, lockPile, a.Guard(), func() {
		sink.Record(diagnostics.NewEvent(ctx, diagnostics.LockReleased, a.Name(), a.Balance()))
	}); err != nil {
		return err
	}
	sink.Record(diagnostics.NewEvent(ctx, diagnostics.LockAcquired, a.Name(), a.Balance()))
	return nil
}

// lockGlobal acquires a Guard that is not associated with an Account.
func (lw *LockWaiter) lockGlobal(ctx context.Context, lockPile *sync.LockPile, guard *sync.Guard, sink diagnostics.Sink) error {
	if err := lw.lock(ctx, lockPile, guard, func() {
		sink.Record(diagnostics.NewEvent(ctx, diagnostics.GlobalLockReleased, guard.Name(), 0))
	}); err != nil {
		return err
	}
	sink.Record(diagnostics.NewEvent(ctx, diagnostics.GlobalLockAcquired, guard.Name(), 0))
	return nil
}
