package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)), recorder
}

func TestGetTraceID(t *testing.T) {
	t.Run("empty without a span", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("returns the active span's trace id", func(t *testing.T) {
		tp, _ := newRecordingTracer()
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()

		ctx, span := tp.Tracer(TracerName).Start(context.Background(), "op")
		defer span.End()

		traceID := GetTraceID(ctx)
		require.NotEmpty(t, traceID)
		assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	})
}

func TestSetAttribute(t *testing.T) {
	t.Run("records the attribute on the span", func(t *testing.T) {
		tp, recorder := newRecordingTracer()
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()

		_, span := tp.Tracer(TracerName).Start(context.Background(), "op")
		SetAttribute(span, "document_number", "BHPCIN26-3000")
		SetAttribute(span, "attempt", 2)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)

		attrs := make(map[string]any)
		for _, kv := range ended[0].Attributes() {
			attrs[string(kv.Key)] = kv.Value.AsInterface()
		}
		assert.Equal(t, "BHPCIN26-3000", attrs["document_number"])
		assert.Equal(t, int64(2), attrs["attempt"])
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		SetAttribute(nil, "ignored", "value")
	})
}
