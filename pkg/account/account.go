package account

import (
	"github.com/buildbarn/bb-concurrent-transfer/pkg/sync"
)

// ID is a stable identity number of an Account. IDs are issued in
// increasing order by an Allocator, which makes them usable as a total
// order when multiple Accounts need to be locked at once.
type ID uint64

// Account is a named container of a balance. It is the shared mutable
// resource that transfers operate on.
//
// Account performs no synchronization of its own. The methods provided
// by Account itself are plain loads and stores, which are only safe to
// call while holding the Account's Guard, or when no other goroutine
// can access the Account. Alternative access disciplines are provided
// through Visible() and Atomic().
type Account struct {
	// Kept as the first field, so that it is 64-bit aligned on
	// 32-bit platforms. This is required by sync/atomic.
	balance int64

	id    ID
	name  string
	guard *sync.Guard
}

// ID returns the identity number of the Account.
func (a *Account) ID() ID {
	return a.id
}

// Name returns the label of the Account.
func (a *Account) Name() string {
	return a.name
}

// Guard returns the exclusive lock that is associated with the
// Account. Strategies that use locking acquire it before accessing the
// balance through the plain methods of Account.
func (a *Account) Guard() *sync.Guard {
	return a.guard
}

// Balance returns the current balance. The value is only guaranteed to
// be fresh if the caller holds the Guard of the Account, or has
// otherwise synchronized with the last goroutine that modified it.
func (a *Account) Balance() int64 {
	return a.balance
}

// SetBalance overwrites the balance.
func (a *Account) SetBalance(balance int64) {
	a.balance = balance
}

// Credit adds an amount to the balance.
func (a *Account) Credit(amount int64) {
	a.balance += amount
}

// Debit subtracts an amount from the balance. No bounds checking is
// performed. The balance may become negative.
func (a *Account) Debit(amount int64) {
	a.balance -= amount
}

// Visible returns a Ledger for the Account whose loads and stores are
// never stale. Credit and debit operations are still implemented as
// separate loads and stores, meaning concurrent updates may get lost.
func (a *Account) Visible() Ledger {
	return visibleLedger{account: a}
}

// Atomic returns a Ledger for the Account whose credit and debit
// operations are indivisible.
func (a *Account) Atomic() *AtomicLedger {
	return &AtomicLedger{account: a}
}
