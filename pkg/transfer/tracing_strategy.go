package transfer

import (
	"context"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/account"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/google/uuid"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type tracingStrategy struct {
	base          Strategy
	tracer        trace.Tracer
	uuidGenerator util.UUIDGenerator
}

// NewTracingStrategy is a decorator for Strategy that creates an
// OpenTelemetry trace span for every operation. Every transfer and
// payment is assigned a unique identifier, so that it can be
// correlated with other diagnostic output.
func NewTracingStrategy(base Strategy, tracerProvider trace.TracerProvider, uuidGenerator util.UUIDGenerator) Strategy {
	return &tracingStrategy{
		base:          base,
		tracer:        tracerProvider.Tracer("github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"),
		uuidGenerator: uuidGenerator,
	}
}

func accountName(a *account.Account) string {
	if a == nil {
		return ""
	}
	return a.Name()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func (s *tracingStrategy) Transfer(ctx context.Context, source, destination *account.Account, amount int64) error {
	ctxWithTracing, span := s.tracer.Start(ctx, "Strategy.Transfer", trace.WithAttributes(
		attribute.String("transfer.id", uuid.Must(s.uuidGenerator()).String()),
		attribute.String("source", accountName(source)),
		attribute.String("destination", accountName(destination)),
		attribute.Int64("amount", amount),
	))
	err := s.base.Transfer(ctxWithTracing, source, destination, amount)
	endSpan(span, err)
	return err
}

func (s *tracingStrategy) Pay(ctx context.Context, a *account.Account, amount int64) error {
	ctxWithTracing, span := s.tracer.Start(ctx, "Strategy.Pay", trace.WithAttributes(
		attribute.String("transfer.id", uuid.Must(s.uuidGenerator()).String()),
		attribute.String("source", accountName(a)),
		attribute.Int64("amount", amount),
	))
	err := s.base.Pay(ctxWithTracing, a, amount)
	endSpan(span, err)
	return err
}

func (s *tracingStrategy) BalanceOf(ctx context.Context, a *account.Account) (int64, error) {
	ctxWithTracing, span := s.tracer.Start(ctx, "Strategy.BalanceOf", trace.WithAttributes(
		attribute.String("account", accountName(a)),
	))
	balance, err := s.base.BalanceOf(ctxWithTracing, a)
	if err == nil {
		span.SetAttributes(attribute.Int64("balance", balance))
	}
	endSpan(span, err)
	return balance, err
}
