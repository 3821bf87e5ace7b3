package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/prometheus/client_golang/prometheus"

	"google.golang.org/grpc/status"
)

var (
	strategyPrometheusMetrics sync.Once

	strategyOperationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildbarn",
			Subsystem: "transfer",
			Name:      "strategy_operation_duration_seconds",
			Help:      "Amount of time spent per strategy operation, including time spent waiting for locks, in seconds.",
			Buckets:   util.DecimalExponentialBuckets(-6, 7, 2),
		},
		[]string{"strategy", "operation", "grpc_code"})
	strategyTransferredAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildbarn",
			Subsystem: "transfer",
			Name:      "strategy_transferred_amount_total",
			Help:      "Total amount of funds moved by successful transfers and payments.",
		},
		[]string{"strategy", "operation"})
)

type metricsStrategy struct {
	base  Strategy
	clock clock.Clock

	transferredAmount prometheus.Counter
	paidAmount        prometheus.Counter
	strategyName      string
}

// NewMetricsStrategy creates a decorator for Strategy that exposes
// Prometheus metrics on the duration and outcome of its operations.
func NewMetricsStrategy(base Strategy, clock clock.Clock, strategyName string) Strategy {
	strategyPrometheusMetrics.Do(func() {
		prometheus.MustRegister(strategyOperationDurationSeconds)
		prometheus.MustRegister(strategyTransferredAmount)
	})

	return &metricsStrategy{
		base:  base,
		clock: clock,

		transferredAmount: strategyTransferredAmount.WithLabelValues(strategyName, "Transfer"),
		paidAmount:        strategyTransferredAmount.WithLabelValues(strategyName, "Pay"),
		strategyName:      strategyName,
	}
}

func (s *metricsStrategy) observe(operation string, startTime time.Time, err error) {
	strategyOperationDurationSeconds.WithLabelValues(s.strategyName, operation, status.Code(err).String()).
		Observe(s.clock.Now().Sub(startTime).Seconds())
}

func (s *metricsStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	startTime := s.clock.Now()
	err := s.base.Transfer(ctx, source, destination, amount)
	s.observe("Transfer", startTime, err)
	if err == nil {
		s.transferredAmount.Add(float64(amount))
	}
	return err
}

func (s *metricsStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
	startTime := s.clock.Now()
	err := s.base.Pay(ctx, a, amount)
	s.observe("Pay", startTime, err)
	if err == nil {
		s.paidAmount.Add(float64(amount))
	}
	return err
}

func (s *metricsStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	startTime := s.clock.Now()
	balance, err := s.base.BalanceOf(ctx, a)
	s.observe("BalanceOf", startTime, err)
	return balance, err
}
