package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
)

type atomicBalanceStrategy struct {
	operation
}

// NewAtomicBalanceStrategy creates a Strategy that debits and credits
// Accounts using compare-and-swap loops. It never blocks.
//
// Individual debits and credits never get lost, and funds are
// conserved once all transfers have completed. A transfer as a whole
// is not atomic, though. Between the debit of the source and the
// credit of the destination, the amount is missing from both Accounts.
// The balance check of a transfer is also not indivisible with its
// debit, meaning that concurrent transfers may overdraw the source.
// Payments are not affected by this, as they check and debit in a
// single compare-and-swap loop.
func NewAtomicBalanceStrategy(interleaver Interleaver, sink diagnostics.Sink) Strategy {
	return &atomicBalanceStrategy{
		operation: operation{
			ledger:      atomicLedger,
			interleaver: interleaver,
			sink:        sink,
		},
	}
}

func (s *atomicBalanceStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	if err := validateTransfer(source, destination, amount); err != nil {
		return err
	}
	return s.transfer(ctx, source, destination, amount)
}

func (s *atomicBalanceStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
	if err := validatePayment(a, amount); err != nil {
		return err
	}
	balance, ok := a.Atomic().TryDebit(amount)
	if !ok {
		s.sink.Record(diagnostics.NewEvent(ctx, diagnostics.InsufficientFunds, a.Name(), balance))
		return newInsufficientFundsError(a, balance, amount)
	}
	s.sink.Record(diagnostics.NewEvent(ctx, diagnostics.Withdrew, a.Name(), balance))
	return nil
}

func (s *atomicBalanceStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	return a.Atomic().Balance(), nil
}
