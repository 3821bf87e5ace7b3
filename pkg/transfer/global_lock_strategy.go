package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/sync"
)

type globalLockStrategy struct {
	operation
	lockWaiter *LockWaiter
	guard      *sync.Guard
}

// NewGlobalLockStrategy creates a Strategy that performs all transfers
// and payments while holding a single lock. The lock is owned by the
// Strategy, meaning that separately created instances do not exclude
// each other.
//
// This strategy cannot deadlock, as no goroutine ever holds more than
// one lock. It does not permit any parallelism, even between transfers
// involving disjoint pairs of Accounts.
func NewGlobalLockStrategy(lockWaiter *LockWaiter, interleaver Interleaver, sink diagnostics.Sink) Strategy {
	return &globalLockStrategy{
		operation: operation{
			ledger:      plainLedger,
			interleaver: interleaver,
			sink:        sink,
		},
		lockWaiter: lockWaiter,
		guard:      sync.NewGuard("global"),
	}
}

func (s *globalLockStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	if err := validateTransfer(source, destination, amount); err != nil {
		return err
	}

	lockPile := sync.LockPile{}
	defer lockPile.UnlockAll()
	if err := s.lockWaiter.lockGlobal(ctx, &lockPile, s.guard, s.sink); err != nil {
		return err
	}
	return s.transfer(ctx, source, destination, amount)
}

func (s *globalLockStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
	if err := validatePayment(a, amount); err != nil {
		return err
	}

	lockPile := sync.LockPile{}
	defer lockPile.UnlockAll()
	if err := s.lockWaiter.lockGlobal(ctx, &lockPile, s.guard, s.sink); err != nil {
		return err
	}
	return s.pay(ctx, a, amount)
}

func (s *globalLockStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	lockPile := sync.LockPile{}
	defer lockPile.UnlockAll()
	if err := s.lockWaiter.lockGlobal(ctx, &lockPile, s.guard, s.sink); err != nil {
		return 0, err
	}
	return a.Balance(), nil
}
