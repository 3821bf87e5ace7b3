package stress

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"
	"github.com/buildbarn/bb-storage/pkg/random"
	"github.com/buildbarn/bb-storage/pkg/util"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Configuration of a workload that performs random transfers between
// a set of Accounts.
type Configuration struct {
	Accounts           int
	Workers            int
	TransfersPerWorker int
	InitialBalance     int64
	MaxAmount          int64
}

func (c *Configuration) validate() error {
	if c.Accounts < 2 {
		return status.Errorf(codes.InvalidArgument, "At least 2 accounts are needed to perform transfers, while %d were requested", c.Accounts)
	}
	if c.Workers < 1 {
		return status.Errorf(codes.InvalidArgument, "At least 1 worker is needed, while %d were requested", c.Workers)
	}
	if c.TransfersPerWorker < 0 {
		return status.Errorf(codes.InvalidArgument, "Number of transfers per worker cannot be negative, while %d was requested", c.TransfersPerWorker)
	}
	if c.InitialBalance < 0 {
		return status.Errorf(codes.InvalidArgument, "Initial balance cannot be negative, while %d was requested", c.InitialBalance)
	}
	if c.MaxAmount < 1 {
		return status.Errorf(codes.InvalidArgument, "Maximum transfer amount must be positive, while %d was requested", c.MaxAmount)
	}
	return nil
}

// Report of the outcome of a workload.
type Report struct {
	InitialTotal int64
	FinalTotal   int64

	// Number of transfers that completed, were declined due to
	// insufficient funds, or failed for any other reason.
	Succeeded int64
	Declined  int64
	Failed    int64
}

// Conserved returns whether the total amount of funds across all
// Accounts was preserved by the workload.
func (r *Report) Conserved() bool {
	return r.InitialTotal == r.FinalTotal
}

// Run a workload against a Strategy. Every worker runs in a separate
// goroutine, and picks random pairs of distinct Accounts and random
// amounts. Errors other than insufficient funds are passed to the
// ErrorLogger, but do not stop the workload.
//
// Once all workers have completed, the balances of all Accounts are
// summed, so that the caller can check whether funds were conserved.
func Run(ctx context.Context, strategy transfer.Strategy, configuration Configuration, randomNumberGenerator random.ThreadSafeGenerator, errorLogger util.ErrorLogger) (*Report, error) {
	if err := configuration.validate(); err != nil {
		return nil, err
	}

	allocator := account.NewAllocator()
	accounts := make([]*account.Account, 0, configuration.Accounts)
	for i := 0; i < configuration.Accounts; i++ {
		accounts = append(accounts, allocator.NewAccount(configuration.InitialBalance, fmt.Sprintf("Account %d", i+1)))
	}

	var succeeded, declined, failed atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	for worker := 0; worker < configuration.Workers; worker++ {
		workerCtx := diagnostics.NewContextWithWorker(groupCtx, fmt.Sprintf("Thread-%d", worker))
		group.Go(func() error {
			for i := 0; i < configuration.TransfersPerWorker; i++ {
				if err := util.StatusFromContext(workerCtx); err != nil {
					return err
				}

				sourceIndex := randomNumberGenerator.IntN(len(accounts))
				destinationIndex := randomNumberGenerator.IntN(len(accounts) - 1)
				if destinationIndex >= sourceIndex {
					destinationIndex++
				}
				amount := randomNumberGenerator.Int64N(configuration.MaxAmount) + 1

				err := strategy.Transfer(workerCtx, accounts[sourceIndex], accounts[destinationIndex], amount)
				switch {
				case err == nil:
					succeeded.Add(1)
				case transfer.IsInsufficientFunds(err):
					declined.Add(1)
				default:
					failed.Add(1)
					errorLogger.Log(util.StatusWrapf(err, "Worker %#v", diagnostics.WorkerFromContext(workerCtx)))
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		InitialTotal: int64(configuration.Accounts) * configuration.InitialBalance,
		Succeeded:    succeeded.Load(),
		Declined:     declined.Load(),
		Failed:       failed.Load(),
	}
	for _, a := range accounts {
		balance, err := strategy.BalanceOf(ctx, a)
		if err != nil {
			return nil, util.StatusWrapf(err, "Failed to obtain balance of account %#v", a.Name())
		}
		report.FinalTotal += balance
	}
	return report, nil
}
