package account

import (
	"sync/atomic"
)

// Ledger is the set of operations that can be performed against the
// balance of an Account. Implementations differ in the guarantees they
// provide when called concurrently.
type Ledger interface {
	Balance() int64
	SetBalance(balance int64)
	Credit(amount int64)
	Debit(amount int64)
}

var _ Ledger = (*Account)(nil)

type visibleLedger struct {
	account *Account
}

func (l visibleLedger) Balance() int64 {
	return atomic.LoadInt64(&l.account.balance)
}

func (l visibleLedger) SetBalance(balance int64) {
	atomic.StoreInt64(&l.account.balance, balance)
}

func (l visibleLedger) Credit(amount int64) {
	// Both the load and the store are fresh, but other goroutines
	// may update the balance in between.
	atomic.StoreInt64(&l.account.balance, atomic.LoadInt64(&l.account.balance)+amount)
}

func (l visibleLedger) Debit(amount int64) {
	atomic.StoreInt64(&l.account.balance, atomic.LoadInt64(&l.account.balance)-amount)
}

// AtomicLedger provides access to the balance of an Account using
// compare-and-swap loops. Every individual operation is indivisible
// with respect to other AtomicLedger operations on the same Account.
// A sequence of operations, such as a debit against one Account
// followed by a credit against another, is not.
type AtomicLedger struct {
	account *Account
}

var _ Ledger = (*AtomicLedger)(nil)

// Balance returns the current balance.
func (l *AtomicLedger) Balance() int64 {
	return atomic.LoadInt64(&l.account.balance)
}

// SetBalance overwrites the balance, discarding any concurrent updates.
func (l *AtomicLedger) SetBalance(balance int64) {
	atomic.StoreInt64(&l.account.balance, balance)
}

// Credit adds an amount to the balance.
func (l *AtomicLedger) Credit(amount int64) {
	l.update(func(oldBalance int64) (int64, bool) {
		return oldBalance + amount, true
	})
}

// Debit subtracts an amount from the balance, without bounds checking.
func (l *AtomicLedger) Debit(amount int64) {
	l.update(func(oldBalance int64) (int64, bool) {
		return oldBalance - amount, true
	})
}

// TryDebit subtracts an amount from the balance, only if the balance
// is sufficient. The check and the update are performed indivisibly.
// The resulting balance is returned on success. Otherwise, the
// balance that turned out to be insufficient is returned.
func (l *AtomicLedger) TryDebit(amount int64) (int64, bool) {
	return l.update(func(oldBalance int64) (int64, bool) {
		if oldBalance < amount {
			return oldBalance, false
		}
		return oldBalance - amount, true
	})
}

// update applies a function to the balance, retrying until no
// concurrent modification took place between the load and the store.
func (l *AtomicLedger) update(f func(oldBalance int64) (int64, bool)) (int64, bool) {
	for {
		oldBalance := atomic.LoadInt64(&l.account.balance)
		newBalance, ok := f(oldBalance)
		if !ok {
			return oldBalance, false
		}
		if atomic.CompareAndSwapInt64(&l.account.balance, oldBalance, newBalance) {
			return newBalance, true
		}
	}
}
