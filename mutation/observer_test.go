package mutation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tessera-data/sdk/verify"
)

func TestObserver_NilIsSafe(t *testing.T) {
	var obs *Observer
	op := verify.OpContext{Operation: "add", EntityType: "record"}

	obs.writeExecuted(context.Background(), op, 1)
	obs.writeRejected(context.Background(), "add", "record", errors.New("denied"))
	obs.verificationDone(context.Background(), op, verify.NewResult(nil))
}

func TestNewObserver_Instruments(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	obs, err := NewObserver(logger, tp.Tracer("test"), noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, obs.metrics)

	op := verify.OpContext{Operation: "add", EntityType: "record", EntityID: "Tasks[1]"}
	obs.writeExecuted(context.Background(), op, 1)
	obs.verificationDone(context.Background(), op, verify.NewResult([]verify.Check{
		verify.NewCheck("field \"Name\" persisted", true),
	}))
	obs.verificationDone(context.Background(), op, verify.NewResult([]verify.Check{
		verify.NewCheck("field \"Name\" diverged", false),
	}))
	obs.writeRejected(context.Background(), "add", "record", errors.New("denied"))
}

func TestNewObserver_WithoutMeter(t *testing.T) {
	obs, err := NewObserver(nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, obs.metrics)

	obs.verificationDone(context.Background(), verify.OpContext{}, verify.NewResult(nil))
}

func TestObserver_LogsVerificationOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs, err := NewObserver(logger, nil, nil)
	require.NoError(t, err)

	op := verify.OpContext{Operation: "update", EntityType: "record", EntityID: "Tasks[7]"}

	obs.verificationDone(context.Background(), op, verify.NewResult([]verify.Check{
		verify.NewCheck("field \"Price\" diverged", false),
	}))
	out := buf.String()
	assert.Contains(t, out, "verification failed")
	assert.Contains(t, out, "Tasks[7]")

	buf.Reset()
	obs.verificationDone(context.Background(), op, verify.NewResult(nil))
	assert.Contains(t, buf.String(), "verification passed")
}
