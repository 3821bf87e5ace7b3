package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
)

func plainLedger(a *account.Account) account.Ledger {
	return a
}

func visibleLedger(a *account.Account) account.Ledger {
	return a.Visible()
}

func atomicLedger(a *account.Account) account.Ledger {
	return a.Atomic()
}

// operation contains the business logic of transfers and payments
// that is shared by all Strategy implementations. It is executed as
// the critical section of whatever protection the Strategy provides.
type operation struct {
	ledger      func(a *account.Account) account.Ledger
	interleaver Interleaver
	sink        diagnostics.Sink

	// If set, debits are not performed as a read-modify-write of
	// the current balance. Instead, the balance observed by the
	// funds check is reduced by the amount and stored, with
	// PauseBeforeDebit in between. Any update made by another
	// goroutine in the meantime gets lost.
	debitFromCheckedBalance bool
}

func (o *operation) record(ctx context.Context, kind diagnostics.EventKind, a *account.Account, l account.Ledger) {
	o.sink.Record(diagnostics.NewEvent(ctx, kind, a.Name(), l.Balance()))
}

// debit subtracts an amount from an Account, whose balance was
// observed to be sufficient. No changes are made if an error is
// returned.
func (o *operation) debit(ctx context.Context, a *account.Account, l account.Ledger, checkedBalance, amount int64) error {
	if !o.debitFromCheckedBalance {
		l.Debit(amount)
		return nil
	}
	if err := o.interleaver.Pause(ctx, PauseBeforeDebit, a); err != nil {
		return err
	}
	l.SetBalance(checkedBalance - amount)
	return nil
}

// transfer checks whether the source Account has sufficient funds, and
// debits the source and credits the destination if so.
func (o *operation) transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	sourceLedger, destinationLedger := o.ledger(source), o.ledger(destination)
	balance := sourceLedger.Balance()
	if balance < amount {
		o.sink.Record(diagnostics.NewEvent(ctx, diagnostics.InsufficientFunds, source.Name(), balance))
		return newInsufficientFundsError(source, balance, amount)
	}

	if err := o.debit(ctx, source, sourceLedger, balance, amount); err != nil {
		return newTransferInterruptedError(err, source, destination, amount)
	}
	o.record(ctx, diagnostics.Withdrew, source, sourceLedger)
	if err := o.interleaver.Pause(ctx, PauseAfterDebit, source); err != nil {
		sourceLedger.Credit(amount)
		o.record(ctx, diagnostics.RolledBack, source, sourceLedger)
		return newTransferInterruptedError(err, source, destination, amount)
	}

	destinationLedger.Credit(amount)
	o.record(ctx, diagnostics.Deposited, destination, destinationLedger)
	return nil
}

// pay checks whether an Account has sufficient funds, and debits it if
// so. The check and the debit are two separate steps.
func (o *operation) pay(ctx context.Context, a *account.Account, amount int64) error {
	l := o.ledger(a)
	balance := l.Balance()
	if balance < amount {
		o.sink.Record(diagnostics.NewEvent(ctx, diagnostics.InsufficientFunds, a.Name(), balance))
		return newInsufficientFundsError(a, balance, amount)
	}
	if err := o.debit(ctx, a, l, balance, amount); err != nil {
		return newPaymentInterruptedError(err, a, amount)
	}
	o.record(ctx, diagnostics.Withdrew, a, l)
	return nil
}
