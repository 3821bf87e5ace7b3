package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/sync"
)

type nestedLockStrategy struct {
	operation
	lockWaiter *LockWaiter
}

// NewNestedLockStrategy creates a Strategy that locks the source
// Account, followed by the destination Account.
//
// THIS STRATEGY IS UNSAFE. Two transfers in opposite directions
// between the same pair of Accounts acquire the same locks in opposite
// order. If both acquire their first lock before either acquires its
// second, both wait for each other indefinitely. Configure the
// LockWaiter with a timeout to let them back out.
func NewNestedLockStrategy(lockWaiter *LockWaiter, interleaver Interleaver, sink diagnostics.Sink) Strategy {
	return &nestedLockStrategy{
		operation: operation{
			ledger:      plainLedger,
			interleaver: interleaver,
			sink:        sink,
		},
		lockWaiter: lockWaiter,
	}
}

func (s *nestedLockStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	if err := validateTransfer(source, destination, amount); err != nil {
		return err
	}

	lockPile := sync.LockPile{}
	defer lockPile.UnlockAll()
	if err := s.lockWaiter.lockAccount(ctx, &lockPile, source, s.sink); err != nil {
		return err
	}
	if err := s.interleaver.Pause(ctx, PauseAfterFirstLock, source); err != nil {
		return newTransferInterruptedError(err, source, destination, amount)
	}
	if err := s.lockWaiter.lockAccount(ctx, &lockPile, destination, s.sink); err != nil {
		return err
	}
	return s.transfer(ctx, source, destination, amount)
}

func (s *nestedLockStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
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

func (s *nestedLockStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	return balanceOfLocked(ctx, s.lockWaiter, a, s.sink)
}

// balanceOfLocked reads the balance of an Account while holding its
// Guard.
func balanceOfLocked(ctx context.Context, lockWaiter *LockWaiter, a *account.Account, sink diagnostics.Sink) (int64, error) {
	lockPile := sync.LockPile{}
	defer lockPile.UnlockAll()
	if err := lockWaiter.lockAccount(ctx, &lockPile, a, sink); err != nil {
		return 0, err
	}
	return a.Balance(), nil
}
