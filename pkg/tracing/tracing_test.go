package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanWrapper(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	var traceID string

	err := SpanWrapper(context.Background(), "work", nil, func(ctx context.Context) error {
		traceID = GetTraceID(ctx)
		return errors.New("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.NotEmpty(t, traceID)

	spans := recorder.Ended()
	assert.Len(t, spans, 1)
	assert.Equal(t, "work", spans[0].Name())
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}
