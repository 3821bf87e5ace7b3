package stress

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ScenarioReport contains the outcome of a Scenario: the Accounts it
// operated on, and the error returned to each of its workers.
type ScenarioReport struct {
	Accounts []*account.Account
	Errors   []error
}

// Scenario of two or more workers performing operations against a
// small number of Accounts concurrently. When combined with an
// Interleaver that widens race windows, scenarios can be used to
// demonstrate how strategies behave under contention.
type Scenario func(ctx context.Context, strategy transfer.Strategy) *ScenarioReport

type scenarioStep func(ctx context.Context, strategy transfer.Strategy) error

// runSteps runs each step in a separate goroutine, each having its own
// worker name. Errors returned by steps are captured in the report, as
// opposed to canceling the other steps.
func runSteps(ctx context.Context, strategy transfer.Strategy, accounts []*account.Account, steps ...scenarioStep) *ScenarioReport {
	report := &ScenarioReport{
		Accounts: accounts,
		Errors:   make([]error, len(steps)),
	}
	var wg sync.WaitGroup
	for i, step := range steps {
		workerCtx := diagnostics.NewContextWithWorker(ctx, fmt.Sprintf("Thread-%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Errors[i] = step(workerCtx, strategy)
		}()
	}
	wg.Wait()
	return report
}

func transferStep(source, destination *account.Account, amount int64) scenarioStep {
	return func(ctx context.Context, strategy transfer.Strategy) error {
		return strategy.Transfer(ctx, source, destination, amount)
	}
}

func payStep(a *account.Account, amount int64) scenarioStep {
	return func(ctx context.Context, strategy transfer.Strategy) error {
		return strategy.Pay(ctx, a, amount)
	}
}

// Scenarios that can be selected by name.
var Scenarios = map[string]Scenario{
	// Two transfers between the same pair of Accounts in opposite
	// directions. Strategies that acquire locks in the order in
	// which Accounts are provided may deadlock.
	"opposite_transfers": func(ctx context.Context, strategy transfer.Strategy) *ScenarioReport {
		allocator := account.NewAllocator()
		mariia := allocator.NewAccount(1000, "Mariia's account")
		ulises := allocator.NewAccount(500, "Ulises's account")
		return runSteps(
			ctx, strategy, []*account.Account{mariia, ulises},
			transferStep(mariia, ulises, 200),
			transferStep(ulises, mariia, 300))
	},
	// Two transfers out of the same Account. Without protection,
	// one of the debits may get lost.
	"concurrent_withdrawals": func(ctx context.Context, strategy transfer.Strategy) *ScenarioReport {
		allocator := account.NewAllocator()
		account1 := allocator.NewAccount(1000, "Account 1")
		account2 := allocator.NewAccount(500, "Account 2")
		return runSteps(
			ctx, strategy, []*account.Account{account1, account2},
			transferStep(account1, account2, 200),
			transferStep(account1, account2, 300))
	},
	// A transfer into an Account, while concurrently paying out an
	// amount that is only available after the transfer completes.
	"payment_during_transfer": func(ctx context.Context, strategy transfer.Strategy) *ScenarioReport {
		allocator := account.NewAllocator()
		account1 := allocator.NewAccount(1000, "Account 1")
		account2 := allocator.NewAccount(500, "Account 2")
		return runSteps(
			ctx, strategy, []*account.Account{account1, account2},
			transferStep(account1, account2, 200),
			payStep(account2, 600))
	},
}

// ScenarioNames returns the names of all Scenarios in sorted order.
func ScenarioNames() []string {
	names := make([]string, 0, len(Scenarios))
	for name := range Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetScenario looks up a Scenario by name.
func GetScenario(name string) (Scenario, error) {
	scenario, ok := Scenarios[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "Unknown scenario %#v, expected one of %v", name, ScenarioNames())
	}
	return scenario, nil
}
