package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/bookcircle/ledger/oteladapters"
)

func Test_TracingCollector_Records_Span_WithAttributes_And_Status(t *testing.T) {
	exporter, collector := givenTracingCollector()

	_, span := collector.StartSpan(context.Background(), "ledger.query", map[string]string{"operation": "query"})
	span.AddAttribute("item_id", "item-1")
	collector.FinishSpan(span, "success", map[string]string{"movement_count": "2"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "ledger.query", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "operation", "query")
	assertSpanHasAttribute(t, spans[0], "item_id", "item-1")
	assertSpanHasAttribute(t, spans[0], "movement_count", "2")
}

func Test_TracingCollector_Maps_Statuses(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
	}{
		{"error", codes.Error},
		{"rejected", codes.Error},
		{"conflict", codes.Error},
		{"canceled", codes.Error},
		{"idempotent", codes.Ok},
		{"something-else", codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			exporter, collector := givenTracingCollector()

			_, span := collector.StartSpan(context.Background(), "op", nil)
			collector.FinishSpan(span, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_Ignores_ForeignSpans(t *testing.T) {
	exporter, collector := givenTracingCollector()

	collector.FinishSpan(nil, "success", nil)

	assert.Empty(t, exporter.GetSpans())
}

func givenTracingCollector() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, expectedValue, attr.Value.AsString())
			return
		}
	}

	t.Errorf("span attribute %q not found", key)
}
