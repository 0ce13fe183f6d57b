package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/darkroom/internal/adapters/telemetry"
	"go.trai.ch/darkroom/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer := telemetry.NewOTelTracerWithProvider(tp, "test")

	ctx, span := tracer.Start(context.Background(), "render")
	tracer.EmitPlan(ctx, []string{"in", "blur", "out"})
	span.SetAttribute("generation", uint64(3))
	span.SetAttribute("target", "out")
	span.RecordError(errors.New("kernel failed"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	got := ended[0]

	assert.Equal(t, "render", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Contains(t, got.Attributes(), attribute.Int64("generation", 3))
	assert.Contains(t, got.Attributes(), attribute.String("target", "out"))

	var names []string
	for _, ev := range got.Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "plan_emitted")
}

func TestOTelTracer_NilErrorKeepsStatus(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracerWithProvider(tp, "test").Start(context.Background(), "render")
	span.RecordError(nil)
	span.End()

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Unset, rec.Ended()[0].Status().Code)
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	tracer.EmitPlan(ctx, nil)
	span.End()
}
