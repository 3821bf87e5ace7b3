package transfer

import (
	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-storage/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func validateTransfer(source, destination *account.Account, amount int64) error {
	if source == nil || destination == nil {
		return status.Error(codes.InvalidArgument, "Both a source and a destination account must be provided")
	}
	if source == destination {
		return status.Errorf(codes.InvalidArgument, "Cannot transfer from account %#v to itself", source.Name())
	}
	if amount <= 0 {
		return status.Errorf(codes.InvalidArgument, "Transfer amount must be positive, while %d was requested", amount)
	}
	return nil
}

func validatePayment(a *account.Account, amount int64) error {
	if a == nil {
		return status.Error(codes.InvalidArgument, "No account provided")
	}
	if amount <= 0 {
		return status.Errorf(codes.InvalidArgument, "Payment amount must be positive, while %d was requested", amount)
	}
	return nil
}

func newInsufficientFundsError(a *account.Account, balance, amount int64) error {
	return status.Errorf(codes.FailedPrecondition, "Account %#v has a balance of %d, which is insufficient to withdraw %d", a.Name(), balance, amount)
}

func newTransferInterruptedError(err error, source, destination *account.Account, amount int64) error {
	return util.StatusWrapf(err, "Transfer of %d from account %#v to account %#v was interrupted", amount, source.Name(), destination.Name())
}

func newPaymentInterruptedError(err error, a *account.Account, amount int64) error {
	return util.StatusWrapf(err, "Payment of %d from account %#v was interrupted", amount, a.Name())
}

// IsInsufficientFunds returns whether an error returned by Strategy
// indicates that a transfer or payment was declined, because the
// balance of the Account was insufficient. Such errors are
// recoverable. No Account was modified.
func IsInsufficientFunds(err error) bool {
	return status.Code(err) == codes.FailedPrecondition
}

// IsLockAcquisitionTimeout returns whether an error returned by
// Strategy indicates that a lock could not be acquired in time, either
// because the LockWaiter's timeout expired, or because the deadline of
// the caller's Context was reached. Such errors are recoverable. The
// operation may be retried.
func IsLockAcquisitionTimeout(err error) bool {
	return status.Code(err) == codes.DeadlineExceeded
}
