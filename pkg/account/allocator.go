package account

import (
	"sync/atomic"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/sync"
)

// Allocator creates Accounts, assigning them unique identity numbers
// in increasing order. IDs are only unique among Accounts created by
// the same Allocator.
type Allocator struct {
	lastID atomic.Uint64
}

// NewAllocator creates an Allocator that issues IDs starting at one.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewAccount creates an Account with an initial balance and a name.
// It is safe to call this function concurrently.
func (al *Allocator) NewAccount(initialBalance int64, name string) *Account {
	return &Account{
		balance: initialBalance,
		id:      ID(al.lastID.Add(1)),
		name:    name,
		guard:   sync.NewGuard(name),
	}
}
