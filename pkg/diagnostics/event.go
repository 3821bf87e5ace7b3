package diagnostics

import (
	"context"
	"fmt"
)

// EventKind enumerates the observable steps of a transfer.
type EventKind int

const (
	// LockAcquired is recorded after the Guard of an Account has
	// been acquired.
	LockAcquired EventKind = iota
	// LockReleased is recorded right before the Guard of an Account
	// is released.
	LockReleased
	// GlobalLockAcquired is recorded after a lock that is not tied
	// to a single Account has been acquired, such as the lock used
	// by the global lock strategy, or the tie-break lock.
	GlobalLockAcquired
	// GlobalLockReleased is the counterpart of GlobalLockAcquired.
	GlobalLockReleased
	// Withdrew is recorded after an amount has been debited.
	Withdrew
	// Deposited is recorded after an amount has been credited.
	Deposited
	// InsufficientFunds is recorded when a transfer or payment is
	// declined, because the balance is lower than the amount.
	InsufficientFunds
	// RolledBack is recorded when a debit is undone, because the
	// transfer got interrupted before the credit took place.
	RolledBack
)

var eventKindNames = [...]string{
	LockAcquired:       "acquired lock",
	LockReleased:       "released lock",
	GlobalLockAcquired: "acquired global lock",
	GlobalLockReleased: "released global lock",
	Withdrew:           "withdrew from",
	Deposited:          "deposited to",
	InsufficientFunds:  "has insufficient funds on",
	RolledBack:         "rolled back withdrawal from",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a single record in the diagnostic trace of a transfer.
type Event struct {
	// Name of the worker (goroutine) that performed the step.
	Worker string
	Kind   EventKind
	// Name of the Account or lock involved.
	Account string
	// Balance of the Account, as observed right after the step
	// was performed. Zero for global lock events.
	Balance int64
}

// NewEvent creates an Event, using the worker name stored in the
// Context.
func NewEvent(ctx context.Context, kind EventKind, account string, balance int64) Event {
	return Event{
		Worker:  WorkerFromContext(ctx),
		Kind:    kind,
		Account: account,
		Balance: balance,
	}
}

func (e Event) String() string {
	switch e.Kind {
	case LockAcquired, LockReleased, GlobalLockAcquired, GlobalLockReleased:
		return fmt.Sprintf("%s %s %s", e.Worker, e.Kind, e.Account)
	default:
		return fmt.Sprintf("%s %s %s (%d$)", e.Worker, e.Kind, e.Account, e.Balance)
	}
}
