package transfer

import (
	"context"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/util"
)

// PausePoint identifies a location within a transfer at which an
// Interleaver is invoked.
type PausePoint int

const (
	// PauseAfterFirstLock is reached by strategies that lock two
	// Accounts, after the first of them has been locked.
	PauseAfterFirstLock PausePoint = iota
	// PauseBeforeDebit is reached by strategies that debit the
	// source Account by storing a balance derived from the one
	// observed while checking for sufficient funds. It sits between
	// that check and the store.
	PauseBeforeDebit
	// PauseAfterDebit is reached by all strategies, after the source
	// Account has been debited and before the destination Account
	// is credited.
	PauseAfterDebit
)

func (p PausePoint) String() string {
	switch p {
	case PauseAfterFirstLock:
		return "AfterFirstLock"
	case PauseBeforeDebit:
		return "BeforeDebit"
	case PauseAfterDebit:
		return "AfterDebit"
	default:
		return "Unknown"
	}
}

// Interleaver is called by Strategy implementations at well defined
// points within a transfer. It can be used to widen the window in
// which other goroutines may interleave, so that race conditions and
// deadlocks can be reproduced reliably.
//
// A non-nil error returned by Pause() is treated as an interruption.
// The transfer is aborted, any debit that was already applied is
// undone, held locks are released and the error is propagated.
type Interleaver interface {
	Pause(ctx context.Context, point PausePoint, a *account.Account) error
}

type noopInterleaver struct{}

func (noopInterleaver) Pause(ctx context.Context, point PausePoint, a *account.Account) error {
	return nil
}

// NoopInterleaver is an Interleaver that returns immediately. It should
// be used outside of diagnostic scenarios.
var NoopInterleaver Interleaver = noopInterleaver{}

type sleepingInterleaver struct {
	clock    clock.Clock
	duration time.Duration
}

// NewSleepingInterleaver creates an Interleaver that sleeps for a fixed
// amount of time at every pause point. Sleeping can be interrupted by
// cancelling the Context.
//
// This Interleaver exists to reproduce race conditions and deadlocks
// in tests. Sleeping while holding locks must not be done elsewhere.
func NewSleepingInterleaver(clock clock.Clock, duration time.Duration) Interleaver {
	return &sleepingInterleaver{
		clock:    clock,
		duration: duration,
	}
}

func (i *sleepingInterleaver) Pause(ctx context.Context, point PausePoint, a *account.Account) error {
	timer, t := i.clock.NewTimer(i.duration)
	select {
	case <-t:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return util.StatusFromContext(ctx)
	}
}
