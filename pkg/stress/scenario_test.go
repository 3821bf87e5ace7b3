package stress_test

import (
	"context"
	"testing"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/stress"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGetScenario(t *testing.T) {
	require.Equal(t, []string{"concurrent_withdrawals", "opposite_transfers", "payment_during_transfer"}, stress.ScenarioNames())

	_, err := stress.GetScenario("opposite_transfers")
	require.NoError(t, err)

	_, err = stress.GetScenario("nonexistent")
	testutil.RequireEqualStatus(
		t,
		status.Error(codes.InvalidArgument, "Unknown scenario \"nonexistent\", expected one of [concurrent_withdrawals opposite_transfers payment_during_transfer]"),
		err)
}

func TestScenarioOrderedLock(t *testing.T) {
	ctx := context.Background()
	strategy := transfer.NewOrderedLockStrategy(
		transfer.NewLockWaiter(clock.SystemClock, 10*time.Second),
		transfer.IDOrderingKey,
		transfer.NewSleepingInterleaver(clock.SystemClock, 10*time.Millisecond),
		diagnostics.DiscardingSink)

	t.Run("OppositeTransfers", func(t *testing.T) {
		report := stress.Scenarios["opposite_transfers"](ctx, strategy)
		require.Equal(t, []error{nil, nil}, report.Errors)
		require.Equal(t, int64(1100), report.Accounts[0].Balance())
		require.Equal(t, int64(400), report.Accounts[1].Balance())
	})

	t.Run("ConcurrentWithdrawals", func(t *testing.T) {
		report := stress.Scenarios["concurrent_withdrawals"](ctx, strategy)
		require.Equal(t, []error{nil, nil}, report.Errors)
		require.Equal(t, int64(500), report.Accounts[0].Balance())
		require.Equal(t, int64(1000), report.Accounts[1].Balance())
	})

	t.Run("PaymentDuringTransfer", func(t *testing.T) {
		// Depending on which goroutine acquires the lock on
		// Account 2 first, the payment is either declined or
		// performed. Funds must be accounted for in both cases.
		report := stress.Scenarios["payment_during_transfer"](ctx, strategy)
		require.NoError(t, report.Errors[0])
		require.Equal(t, int64(800), report.Accounts[0].Balance())
		if report.Errors[1] == nil {
			require.Equal(t, int64(100), report.Accounts[1].Balance())
		} else {
			require.True(t, transfer.IsInsufficientFunds(report.Errors[1]))
			require.Equal(t, int64(700), report.Accounts[1].Balance())
		}
	})
}

func TestScenarioNestedLockTimeout(t *testing.T) {
	// Pausing after the first lock makes a deadlock very likely.
	// The lock timeout should allow the scenario to terminate.
	strategy := transfer.NewNestedLockStrategy(
		transfer.NewLockWaiter(clock.SystemClock, 200*time.Millisecond),
		transfer.NewSleepingInterleaver(clock.SystemClock, 50*time.Millisecond),
		diagnostics.DiscardingSink)

	report := stress.Scenarios["opposite_transfers"](context.Background(), strategy)
	for _, err := range report.Errors {
		if err != nil {
			require.True(t, transfer.IsLockAcquisitionTimeout(err))
		}
	}
	require.Equal(t, int64(1500), report.Accounts[0].Balance()+report.Accounts[1].Balance())
}
