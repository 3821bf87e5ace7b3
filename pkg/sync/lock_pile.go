package sync

import (
	"context"
)

type lockHandle struct {
	guard        *Guard
	beforeUnlock func()
}

// LockPile is a list to keep track of Guards held by a goroutine.
// Locking a Guard that is already part of the pile has no effect. Every
// Guard is unlocked exactly once, when the pile is emptied.
//
// LockPile does not decide in which order Guards are acquired. It
// acquires them in the order in which Lock() is called, and releases
// them in exactly the reverse order. Callers that need to hold
// multiple Guards at once are responsible for calling Lock() along a
// total order that is shared with all other goroutines.
//
// Example usage, of a function that computes the sum of the values of
// two nodes atomically:
//
//	func GetSum(ctx context.Context, a, b *Node) (int, error) {
//	    lockPile := sync.LockPile{}
//	    defer lockPile.UnlockAll()
//	    first, second := a, b
//	    if first.id > second.id {
//	        first, second = second, first
//	    }
//	    if err := lockPile.Lock(ctx, first.guard, nil); err != nil {
//	        return 0, err
//	    }
//	    if err := lockPile.Lock(ctx, second.guard, nil); err != nil {
//	        return 0, err
//	    }
//	    return a.value + b.value, nil
//	}
type LockPile []lockHandle

// Lock a Guard, adding it to the LockPile. The beforeUnlock function,
// if provided, is called right before the Guard is released, while it
// is still held. If the Guard is already part of the LockPile, the
// beforeUnlock function provided originally is retained.
//
// If the Guard cannot be acquired because the Context is done, all
// Guards acquired previously remain held. They are released by the
// caller's deferred call to UnlockAll().
func (lp *LockPile) Lock(ctx context.Context, guard *Guard, beforeUnlock func()) error {
	for i := range *lp {
		if (*lp)[i].guard == guard {
			// Guard has already been acquired.
			return nil
		}
	}

	if err := guard.Lock(ctx); err != nil {
		return err
	}
	*lp = append(*lp, lockHandle{
		guard:        guard,
		beforeUnlock: beforeUnlock,
	})
	return nil
}

// Holds returns whether the Guard is part of the LockPile.
func (lp LockPile) Holds(guard *Guard) bool {
	for _, lh := range lp {
		if lh.guard == guard {
			return true
		}
	}
	return false
}

// UnlockAll unlocks all Guards associated with a LockPile, in reverse
// order of acquisition. Calling this function using 'defer' ensures
// that no Guards remain acquired after the calling function returns,
// regardless of whether it returns successfully, returns an error or
// panics.
func (lp *LockPile) UnlockAll() {
	// Release all Guards contained in the pile exactly once.
	for i := len(*lp) - 1; i >= 0; i-- {
		lh := (*lp)[i]
		if lh.beforeUnlock != nil {
			lh.beforeUnlock()
		}
		lh.guard.Unlock()
	}
	*lp = nil
}
