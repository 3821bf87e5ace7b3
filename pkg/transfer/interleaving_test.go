package transfer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/internal/mock"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"
	"github.com/stretchr/testify/require"

	"go.uber.org/mock/gomock"
)

func TestIntermediateStateObservability(t *testing.T) {
	// While a transfer is between its debit and its credit, let
	// another goroutine read the balances of both Accounts. Unless
	// the strategy locks, the funds in flight should be missing
	// from both Accounts.
	for name, expectedTotal := range map[string]int64{
		"unsynchronized":  1300,
		"visibility_only": 1300,
		"atomic_balance":  1300,
		"global_lock":     1500,
		"nested_lock":     1500,
		"ordered_lock":    1500,
	} {
		t.Run(name, func(t *testing.T) {
			ctrl, ctx := gomock.WithContext(context.Background(), t)

			allocator := account.NewAllocator()
			account1 := allocator.NewAccount(1000, "Account 1")
			account2 := allocator.NewAccount(500, "Account 2")
			interleaver := mock.NewMockInterleaver(ctrl)
			strategy := newStrategy(t, name, newDefaultLockWaiter(), interleaver, diagnostics.DiscardingSink)

			observedTotal := make(chan int64, 1)
			readerErrs := make(chan error, 1)
			interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseAfterFirstLock, gomock.Any()).AnyTimes()
			interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseBeforeDebit, gomock.Any()).AnyTimes()
			interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseAfterDebit, account1).
				DoAndReturn(func(ctx context.Context, point transfer.PausePoint, a *account.Account) error {
					go func() {
						balance1, err1 := strategy.BalanceOf(ctx, account1)
						balance2, err2 := strategy.BalanceOf(ctx, account2)
						readerErrs <- errors.Join(err1, err2)
						observedTotal <- balance1 + balance2
					}()
					// Strategies that lock cause the
					// reader to block until the
					// transfer completes.
					select {
					case total := <-observedTotal:
						observedTotal <- total
					case <-time.After(100 * time.Millisecond):
					}
					return nil
				})

			require.NoError(t, strategy.Transfer(ctx, account1, account2, 200))
			require.NoError(t, <-readerErrs)
			require.Equal(t, expectedTotal, <-observedTotal)
			require.Equal(t, int64(800), account1.Balance())
			require.Equal(t, int64(700), account2.Balance())
		})
	}
}

func TestAtomicBalanceStrategyFundsInFlight(t *testing.T) {
	// Two concurrent transfers of 200 and 300 out of the same
	// Account. Individual debits and credits are atomic, so the
	// end result is correct. Once both transfers have debited the
	// source, 500 is missing from both Accounts.
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	allocator := account.NewAllocator()
	account1 := allocator.NewAccount(1000, "Account 1")
	account2 := allocator.NewAccount(500, "Account 2")
	interleaver := mock.NewMockInterleaver(ctrl)
	strategy := transfer.NewAtomicBalanceStrategy(interleaver, diagnostics.DiscardingSink)

	var debited sync.WaitGroup
	debited.Add(2)
	proceed := make(chan struct{})
	interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseAfterDebit, account1).
		DoAndReturn(func(ctx context.Context, point transfer.PausePoint, a *account.Account) error {
			debited.Done()
			<-proceed
			return nil
		}).
		Times(2)

	errs := make(chan error, 2)
	go func() { errs <- strategy.Transfer(ctx, account1, account2, 200) }()
	go func() { errs <- strategy.Transfer(ctx, account1, account2, 300) }()

	debited.Wait()
	balance1, err := strategy.BalanceOf(ctx, account1)
	require.NoError(t, err)
	balance2, err := strategy.BalanceOf(ctx, account2)
	require.NoError(t, err)
	require.Equal(t, int64(500), balance1)
	require.Equal(t, int64(500), balance2)

	close(proceed)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	require.Equal(t, int64(500), account1.Atomic().Balance())
	require.Equal(t, int64(1000), account2.Atomic().Balance())
}

// runVisibilityScenario transfers 200 from Account 1 (1000) to
// Account 2 (500), while concurrently paying out 600 from Account 2.
// The payment is started after the transfer has debited Account 1. The
// transfer waits for the payment to make its decision, for at most a
// short amount of time.
func runVisibilityScenario(t *testing.T, name string) (paymentErr error, sink *diagnostics.InMemorySink, account1, account2 *account.Account) {
	ctrl := gomock.NewController(t)

	allocator := account.NewAllocator()
	account1 = allocator.NewAccount(1000, "Account 1")
	account2 = allocator.NewAccount(500, "Account 2")
	interleaver := mock.NewMockInterleaver(ctrl)
	sink = diagnostics.NewInMemorySink()
	strategy := newStrategy(t, name, newDefaultLockWaiter(), interleaver, sink)

	debited := make(chan struct{})
	decided := make(chan error, 1)
	interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseAfterFirstLock, gomock.Any()).AnyTimes()
	interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseBeforeDebit, gomock.Any()).AnyTimes()
	interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseAfterDebit, account1).
		DoAndReturn(func(ctx context.Context, point transfer.PausePoint, a *account.Account) error {
			close(debited)
			select {
			case err := <-decided:
				decided <- err
			case <-time.After(100 * time.Millisecond):
			}
			return nil
		})

	go func() {
		<-debited
		decided <- strategy.Pay(diagnostics.NewContextWithWorker(context.Background(), "Thread-1"), account2, 600)
	}()
	require.NoError(t, strategy.Transfer(diagnostics.NewContextWithWorker(context.Background(), "Thread-0"), account1, account2, 200))
	return <-decided, sink, account1, account2
}

func TestVisibilityOnlyStrategyStaleDecision(t *testing.T) {
	// Even though reads are never stale, the payment observes the
	// balance of Account 2 from before the transfer, and declines.
	// After the transfer completes, 700 is available.
	paymentErr, sink, account1, account2 := runVisibilityScenario(t, "visibility_only")
	require.True(t, transfer.IsInsufficientFunds(paymentErr))
	require.Equal(t, int64(800), account1.Balance())
	require.Equal(t, int64(700), account2.Balance())

	require.Equal(t, []diagnostics.Event{
		{Worker: "Thread-0", Kind: diagnostics.Withdrew, Account: "Account 1", Balance: 800},
		{Worker: "Thread-1", Kind: diagnostics.InsufficientFunds, Account: "Account 2", Balance: 500},
		{Worker: "Thread-0", Kind: diagnostics.Deposited, Account: "Account 2", Balance: 700},
	}, sink.Events())
}

func TestOrderedLockStrategyNoStaleDecision(t *testing.T) {
	// With locking, the payment cannot observe Account 2 while the
	// transfer is in progress. It waits for the transfer to
	// complete, and succeeds.
	paymentErr, _, account1, account2 := runVisibilityScenario(t, "ordered_lock")
	require.NoError(t, paymentErr)
	require.Equal(t, int64(800), account1.Balance())
	require.Equal(t, int64(100), account2.Balance())
}

// runConcurrentWithdrawals transfers 200 and 300 out of an Account
// containing 1000 concurrently. Both transfers are held back right
// before debiting the source, until both of them have checked the
// balance.
func runConcurrentWithdrawals(t *testing.T, name string) (account1, account2 *account.Account) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	allocator := account.NewAllocator()
	account1 = allocator.NewAccount(1000, "Account 1")
	account2 = allocator.NewAccount(500, "Account 2")
	interleaver := mock.NewMockInterleaver(ctrl)
	strategy := newStrategy(t, name, newDefaultLockWaiter(), interleaver, diagnostics.DiscardingSink)

	var checked sync.WaitGroup
	checked.Add(2)
	interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseBeforeDebit, account1).
		DoAndReturn(func(ctx context.Context, point transfer.PausePoint, a *account.Account) error {
			checked.Done()
			checked.Wait()
			return nil
		}).
		Times(2)
	interleaver.EXPECT().Pause(gomock.Any(), transfer.PauseAfterDebit, account1).Times(2)

	errs := make(chan error, 2)
	go func() { errs <- strategy.Transfer(ctx, account1, account2, 200) }()
	go func() { errs <- strategy.Transfer(ctx, account1, account2, 300) }()
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	return account1, account2
}

func TestVisibilityOnlyStrategyLostUpdate(t *testing.T) {
	// Both transfers derive the new balance of Account 1 from the
	// balance observed by their funds check. The debit stored last
	// overwrites the other one, even though all loads and stores
	// are atomic.
	account1, _ := runConcurrentWithdrawals(t, "visibility_only")
	require.Contains(t, []int64{700, 800}, account1.Visible().Balance())
}
