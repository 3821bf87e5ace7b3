package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
)

type visibilityOnlyStrategy struct {
	operation
}

// NewVisibilityOnlyStrategy creates a Strategy that accesses balances
// using atomic loads and stores, but does not lock anything.
//
// THIS STRATEGY IS UNSAFE. Every read observes the latest store, so no
// stale values are returned. This does not make compound operations
// atomic. A payment that runs concurrently with a transfer into the
// same Account may still observe the balance from before the transfer
// and decline, even though sufficient funds are available by the time
// the transfer completes. Concurrent debits and credits against the
// same Account may still get lost, as the source Account is debited by
// storing the balance observed by the funds check, minus the amount.
func NewVisibilityOnlyStrategy(interleaver Interleaver, sink diagnostics.Sink) Strategy {
	return &visibilityOnlyStrategy{
		operation: operation{
			ledger:      visibleLedger,
			interleaver: interleaver,
			sink:        sink,

			debitFromCheckedBalance: true,
		},
	}
}

func (s *visibilityOnlyStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	if err := validateTransfer(source, destination, amount); err != nil {
		return err
	}
	return s.transfer(ctx, source, destination, amount)
}

func (s *visibilityOnlyStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
	if err := validatePayment(a, amount); err != nil {
		return err
	}
	return s.pay(ctx, a, amount)
}

func (s *visibilityOnlyStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	return a.Visible().Balance(), nil
}
