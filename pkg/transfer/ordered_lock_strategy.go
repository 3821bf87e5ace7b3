package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/sync"
)

// OrderingKeyFunc derives the key that is used to determine the order
// in which the Guards of two Accounts are acquired.
type OrderingKeyFunc func(a *account.Account) uint64

// IDOrderingKey uses the identity number of an Account as its ordering
// key. Keys of Accounts created by the same account.Allocator never
// collide.
func IDOrderingKey(a *account.Account) uint64 {
	return uint64(a.ID())
}

type orderedLockStrategy struct {
	operation
	lockWaiter    *LockWaiter
	orderingKey   OrderingKeyFunc
	tieBreakGuard *sync.Guard
}

// NewOrderedLockStrategy creates a Strategy that locks both Accounts
// involved in a transfer, in the order of their ordering keys. The
// roles of the Accounts (source or destination) have no influence on
// the order. All goroutines thus agree on the order in which the locks
// of a given pair of Accounts are acquired, meaning no cycle of
// goroutines waiting for each other can form.
//
// If the ordering keys of both Accounts are equal, there is no
// preferred order. In that case a tie-break lock is acquired first,
// ensuring that at most one goroutine acquires locks in an arbitrary
// order at any given time. The tie-break lock is owned by the Strategy.
// Transfers between Accounts with distinct keys never acquire it.
func NewOrderedLockStrategy(lockWaiter *LockWaiter, orderingKey OrderingKeyFunc, interleaver Interleaver, sink diagnostics.Sink) Strategy {
	return &orderedLockStrategy{
		operation: operation{
			ledger:      plainLedger,
			interleaver: interleaver,
			sink:        sink,
		},
		lockWaiter:    lockWaiter,
		orderingKey:   orderingKey,
		tieBreakGuard: sync.NewGuard("tie-break"),
	}
}

func (s *orderedLockStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	if err := validateTransfer(source, destination, amount); err != nil {
		return err
	}

	lockPile := sync.LockPile{}
	defer lockPile.UnlockAll()

	var first, second *account.Account
	switch sourceKey, destinationKey := s.orderingKey(source), s.orderingKey(destination); {
	case sourceKey < destinationKey:
		first, second = source, destination
	case sourceKey > destinationKey:
		first, second = destination, source
	default:
		// Keys collide. The tie-break lock is released last, as
		// it is the first lock in the pile.
		if err := s.lockWaiter.lockGlobal(ctx, &lockPile, s.tieBreakGuard, s.sink); err != nil {
			return err
		}
		first, second = source, destination
	}

	if err := s.lockWaiter.lockAccount(ctx, &lockPile, first, s.sink); err != nil {
		return err
	}
	if err := s.interleaver.Pause(ctx, PauseAfterFirstLock, first); err != nil {
		return newTransferInterruptedError(err, source, destination, amount)
	}
	if err := s.lockWaiter.lockAccount(ctx, &lockPile, second, s.sink); err != nil {
		return err
	}
	return s.transfer(ctx, source, destination, amount)
}

func (s *orderedLockStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
	if err := validatePayment(a, amount); err != nil {
		return err
	}

	lockPile := sync.LockPile{}
	defer lockPile.UnlockAll()
	if err := s.lockWaiter.lockAccount(ctx, &lockPile, a, s.sink); err != nil {
		return err
	}
	return s.pay(ctx, a, amount)
}

func (s *orderedLockStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	return balanceOfLocked(ctx, s.lockWaiter, a, s.sink)
}
