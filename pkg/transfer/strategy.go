package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
)

// Strategy is the capability of moving funds between Accounts, while
// protecting the Accounts against concurrent access in a strategy
// specific way. Implementations differ in which anomalies they permit
// when called from multiple goroutines at once. Some implementations
// provided by this package are deliberately unsafe, so that their
// failure modes can be reproduced and compared against the safe ones.
type Strategy interface {
	// Transfer an amount from a source Account to a destination
	// Account. The source balance is checked before any funds are
	// moved. If it is insufficient, an error with code
	// FailedPrecondition is returned and neither Account is
	// modified.
	Transfer(ctx context.Context, source, destination *account.Account, amount int64) error

	// Pay an amount out of a single Account, if its balance is
	// sufficient. Declined payments return an error with code
	// FailedPrecondition.
	Pay(ctx context.Context, a *account.Account, amount int64) error

	// BalanceOf returns the balance of an Account, read in a way
	// that is consistent with how the strategy modifies it.
	BalanceOf(ctx context.Context, a *account.Account) (int64, error)
}
