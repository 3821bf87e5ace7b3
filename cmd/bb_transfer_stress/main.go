package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/diagnostics"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/stress"
	"github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/program"
	"github.com/buildbarn/bb-storage/pkg/random"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// This tool runs transfers between accounts concurrently, using one of
// the available strategies for keeping balances consistent. It either
// runs a randomized workload and checks whether funds were conserved,
// or runs one of the fixed scenarios and prints the resulting balances.
//
// Combining --interleave with --trace shows how goroutines interleave.
// Combining --strategy=nested_lock with --scenario=opposite_transfers
// and --lock-timeout=0 causes the program to deadlock.

func main() {
	strategyName := pflag.String("strategy", "ordered_lock", "Strategy used to keep balances consistent")
	scenarioName := pflag.String("scenario", "", "Run a fixed scenario instead of a randomized workload")
	accounts := pflag.Int("accounts", 10, "Number of accounts in the randomized workload")
	workers := pflag.Int("workers", 8, "Number of concurrent workers in the randomized workload")
	transfersPerWorker := pflag.Int("transfers-per-worker", 1000, "Number of transfers performed by every worker")
	initialBalance := pflag.Int64("initial-balance", 1000, "Initial balance of every account")
	maxAmount := pflag.Int64("max-amount", 100, "Maximum amount of a single transfer")
	lockTimeout := pflag.Duration("lock-timeout", 10*time.Second, "Maximum amount of time to wait for a single lock, or zero to wait indefinitely")
	interleave := pflag.Duration("interleave", 0, "Amount of time to sleep within transfers, widening race windows. Only permitted with --scenario")
	trace := pflag.Bool("trace", false, "Log every lock acquisition, withdrawal and deposit")
	metricsListenAddress := pflag.String("metrics-listen-address", "", "Address on which to expose Prometheus metrics")
	otlpEndpoint := pflag.String("otlp-endpoint", "", "Address of an OpenTelemetry collector to which trace spans are exported over gRPC")
	pflag.Parse()

	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		if len(pflag.Args()) != 0 {
			return status.Error(codes.InvalidArgument, "Usage: bb_transfer_stress [flags]")
		}

		// Web server for metrics.
		if *metricsListenAddress != "" {
			router := mux.NewRouter()
			router.Handle("/metrics", promhttp.Handler())
			server := &http.Server{
				Addr:    *metricsListenAddress,
				Handler: router,
			}
			dependenciesGroup.Go(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
				<-ctx.Done()
				return server.Close()
			})
			dependenciesGroup.Go(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
				if err := server.ListenAndServe(); err != http.ErrServerClosed {
					return util.StatusWrap(err, "Failed to serve metrics")
				}
				return nil
			})
		}

		interleaver, err := newInterleaver(*scenarioName, *interleave)
		if err != nil {
			return err
		}
		var sink diagnostics.Sink = diagnostics.DiscardingSink
		if *trace {
			sink = diagnostics.NewLoggingSink(log.Default())
		}
		strategy, err := transfer.NewStrategyFromName(
			*strategyName,
			transfer.NewLockWaiter(clock.SystemClock, *lockTimeout),
			interleaver,
			sink)
		if err != nil {
			return util.StatusWrap(err, "Failed to create strategy")
		}
		strategy = transfer.NewMetricsStrategy(strategy, clock.SystemClock, *strategyName)

		// Tracing of individual transfers.
		if *otlpEndpoint != "" {
			tracerProvider, err := newTracerProvider(ctx, *otlpEndpoint)
			if err != nil {
				return err
			}
			otel.SetTracerProvider(tracerProvider)
			dependenciesGroup.Go(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
				<-ctx.Done()
				if err := tracerProvider.Shutdown(context.Background()); err != nil {
					return util.StatusWrap(err, "Failed to shut down tracer provider")
				}
				return nil
			})
			strategy = transfer.NewTracingStrategy(strategy, tracerProvider, uuid.NewRandom)
		}

		if *scenarioName != "" {
			scenario, err := stress.GetScenario(*scenarioName)
			if err != nil {
				return err
			}
			report := scenario(ctx, strategy)
			for i, err := range report.Errors {
				if err != nil {
					log.Printf("Thread-%d failed: %s", i, err)
				}
			}
			for _, a := range report.Accounts {
				balance, err := strategy.BalanceOf(ctx, a)
				if err != nil {
					return util.StatusWrapf(err, "Failed to obtain balance of account %#v", a.Name())
				}
				log.Printf("Final balance of %s: %d", a.Name(), balance)
			}
			return nil
		}

		report, err := stress.Run(
			ctx,
			strategy,
			stress.Configuration{
				Accounts:           *accounts,
				Workers:            *workers,
				TransfersPerWorker: *transfersPerWorker,
				InitialBalance:     *initialBalance,
				MaxAmount:          *maxAmount,
			},
			random.FastThreadSafeGenerator,
			util.DefaultErrorLogger)
		if err != nil {
			return util.StatusWrap(err, "Failed to run workload")
		}
		log.Printf(
			"Transfers succeeded: %d, declined: %d, failed: %d",
			report.Succeeded,
			report.Declined,
			report.Failed)
		if !report.Conserved() {
			return status.Errorf(
				codes.DataLoss,
				"Funds were not conserved: accounts initially held %d in total, but hold %d after the workload completed",
				report.InitialTotal,
				report.FinalTotal)
		}
		log.Printf("Funds were conserved: accounts hold %d in total", report.FinalTotal)
		return nil
	})
}

// newInterleaver creates the Interleaver that is used by the strategy.
// Sleeping while holding locks is only permitted when running one of
// the fixed scenarios.
func newInterleaver(scenarioName string, interleave time.Duration) (transfer.Interleaver, error) {
	if interleave <= 0 {
		return transfer.NoopInterleaver, nil
	}
	if scenarioName == "" {
		return nil, status.Error(codes.InvalidArgument, "--interleave can only be used in combination with --scenario")
	}
	return transfer.NewSleepingInterleaver(clock.SystemClock, interleave), nil
}
