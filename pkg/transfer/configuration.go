package transfer

import (
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StrategyNames contains the names of all Strategy implementations
// that can be created through NewStrategyFromName().
var StrategyNames = []string{
	"unsynchronized",
	"visibility_only",
	"atomic_balance",
	"global_lock",
	"nested_lock",
	"ordered_lock",
}

// NewStrategyFromName creates one of the Strategy implementations
// provided by this package, based on its name. The ordered lock
// strategy uses the identity numbers of Accounts as ordering keys.
func NewStrategyFromName(name string, lockWaiter *LockWaiter, interleaver Interleaver, sink diagnostics.Sink) (Strategy, error) {
	switch name {
	case "unsynchronized":
		return NewUnsynchronizedStrategy(interleaver, sink), nil
	case "visibility_only":
		return NewVisibilityOnlyStrategy(interleaver, sink), nil
	case "atomic_balance":
		return NewAtomicBalanceStrategy(interleaver, sink), nil
	case "global_lock":
		return NewGlobalLockStrategy(lockWaiter, interleaver, sink), nil
	case "nested_lock":
		return NewNestedLockStrategy(lockWaiter, interleaver, sink), nil
	case "ordered_lock":
		return NewOrderedLockStrategy(lockWaiter, IDOrderingKey, interleaver, sink), nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "Unknown strategy %#v, expected one of %v", name, StrategyNames)
	}
}
