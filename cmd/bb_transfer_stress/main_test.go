package main

import (
	"context"
	"testing"
	"time"

	"github.com/buildbarn/bb-concurrent-transfer/pkg/transfer"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestNewInterleaver(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		interleaver, err := newInterleaver("", 0)
		require.NoError(t, err)
		require.Equal(t, transfer.NoopInterleaver, interleaver)
	})

	t.Run("WorkloadRejected", func(t *testing.T) {
		// The randomized workload must never sleep while
		// holding locks.
		_, err := newInterleaver("", 10*time.Millisecond)
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "--interleave can only be used in combination with --scenario"),
			err)
	})

	t.Run("Scenario", func(t *testing.T) {
		interleaver, err := newInterleaver("opposite_transfers", 10*time.Millisecond)
		require.NoError(t, err)
		require.NotEqual(t, transfer.NoopInterleaver, interleaver)
	})
}

func TestNewTracerProvider(t *testing.T) {
	// Spans created through the TracerProvider must be recorded, so
	// that the tracing decorator of strategies has an effect. The
	// exporter connects lazily, so no collector needs to be running.
	tracerProvider, err := newTracerProvider(context.Background(), "localhost:4317")
	require.NoError(t, err)

	_, span := tracerProvider.Tracer("bb_transfer_stress").Start(context.Background(), "Strategy.Transfer")
	require.True(t, span.IsRecording())
	require.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	tracerProvider.Shutdown(ctx)
}
