package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
)

type unsynchronizedStrategy struct {
	operation
}

// NewUnsynchronizedStrategy creates a Strategy that performs transfers
// without any form of synchronization.
//
// THIS STRATEGY IS UNSAFE. Concurrent transfers involving the same
// Account race with each other, causing updates to get lost and
// intermediate states to be observed. The source Account is debited by
// storing the balance observed by the funds check, minus the amount. It exists to reproduce these
// anomalies, and as a baseline to compare other strategies against.
func NewUnsynchronizedStrategy(interleaver Interleaver, sink diagnostics.Sink) Strategy {
	return &unsynchronizedStrategy{
		operation: operation{
			ledger:      plainLedger,
			interleaver: interleaver,
			sink:        sink,

			debitFromCheckedBalance: true,
		},
	}
}

func (s *unsynchronizedStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	if err := validateTransfer(source, destination, amount); err != nil {
		return err
	}
	return s.transfer(ctx, source, destination, amount)
}

func (s *unsynchronizedStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
	if err := validatePayment(a, amount); err != nil {
		return err
	}
	return s.pay(ctx, a, amount)
}

func (s *unsynchronizedStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	return a.Balance(), nil
}
