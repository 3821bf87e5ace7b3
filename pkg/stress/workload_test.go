package stress_test

import (
	"context"
	"testing"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/internal/mock"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/stress"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/random"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var defaultConfiguration = stress.Configuration{
	Accounts:           4,
	Workers:            8,
	TransfersPerWorker: 200,
	InitialBalance:     1000,
	MaxAmount:          300,
}

func TestRunInvalidConfiguration(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	strategy := mock.NewMockStrategy(ctrl)
	errorLogger := mock.NewMockErrorLogger(ctrl)

	configuration := defaultConfiguration
	configuration.Accounts = 1
	_, err := stress.Run(ctx, strategy, configuration, random.FastThreadSafeGenerator, errorLogger)
	testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "At least 2 accounts are needed to perform transfers, while 1 were requested"), err)

	configuration = defaultConfiguration
	configuration.MaxAmount = 0
	_, err = stress.Run(ctx, strategy, configuration, random.FastThreadSafeGenerator, errorLogger)
	testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Maximum transfer amount must be positive, while 0 was requested"), err)
}

func TestRunConserved(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	for _, name := range []string{"atomic_balance", "global_lock", "ordered_lock"} {
		t.Run(name, func(t *testing.T) {
			strategy, err := transfer.NewStrategyFromName(
				name,
				transfer.NewLockWaiter(clock.SystemClock, 10*time.Second),
				transfer.NoopInterleaver,
				diagnostics.DiscardingSink)
			require.NoError(t, err)

			report, err := stress.Run(ctx, strategy, defaultConfiguration, random.FastThreadSafeGenerator, mock.NewMockErrorLogger(ctrl))
			require.NoError(t, err)
			require.True(t, report.Conserved())
			require.Equal(t, int64(4000), report.InitialTotal)
			require.Equal(t, int64(4000), report.FinalTotal)
			require.Equal(t, int64(1600), report.Succeeded+report.Declined)
			require.Equal(t, int64(0), report.Failed)
		})
	}
}

func TestRunFailures(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	// Failures other than insufficient funds should be logged, and
	// should not stop the workload.
	strategy := mock.NewMockStrategy(ctrl)
	strategy.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(status.Error(codes.DeadlineExceeded, "Failed to acquire lock \"Account 1\" within 1s")).
		Times(10)
	strategy.EXPECT().BalanceOf(ctx, gomock.Any()).Return(int64(1000), nil).Times(2)
	errorLogger := mock.NewMockErrorLogger(ctrl)
	errorLogger.EXPECT().Log(gomock.Cond(func(x any) bool {
		return status.Code(x.(error)) == codes.DeadlineExceeded
	})).Times(10)

	report, err := stress.Run(ctx, strategy, stress.Configuration{
		Accounts:           2,
		Workers:            2,
		TransfersPerWorker: 5,
		InitialBalance:     1000,
		MaxAmount:          100,
	}, random.FastThreadSafeGenerator, errorLogger)
	require.NoError(t, err)
	require.Equal(t, &stress.Report{
		InitialTotal: 2000,
		FinalTotal:   2000,
		Failed:       10,
	}, report)
}

func TestRunDistinctAccounts(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	// Workers should never attempt to transfer funds from an
	// Account to itself. Each transfer should be tagged with the
	// name of the worker.
	strategy := mock.NewMockStrategy(ctrl)
	strategy.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, source, destination *account.Account, amount int64) error {
			require.NotEqual(t, source.Name(), destination.Name())
			require.True(t, amount >= 1 && amount <= 5)
			require.Equal(t, "Thread-0", diagnostics.WorkerFromContext(ctx))
			return nil
		}).
		Times(100)
	strategy.EXPECT().BalanceOf(ctx, gomock.Any()).Return(int64(10), nil).Times(3)

	report, err := stress.Run(ctx, strategy, stress.Configuration{
		Accounts:           3,
		Workers:            1,
		TransfersPerWorker: 100,
		InitialBalance:     10,
		MaxAmount:          5,
	}, random.FastThreadSafeGenerator, mock.NewMockErrorLogger(ctrl))
	require.NoError(t, err)
	require.Equal(t, int64(100), report.Succeeded)
}
