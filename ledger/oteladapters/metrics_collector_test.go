package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/bookcircle/ledger/oteladapters"
)

func Test_MetricsCollector_RecordDuration_InSeconds(t *testing.T) {
	reader, collector := givenMetricsCollector()

	collector.RecordDuration("ledger_query_duration_seconds", 150*time.Millisecond, map[string]string{
		"operation": "query",
		"status":    "success",
	})

	histogram := findHistogramMetric(t, collect(t, reader), "ledger_query_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expectedAttrs := attribute.NewSet(attribute.String("operation", "query"), attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter_Accumulates(t *testing.T) {
	reader, collector := givenMetricsCollector()
	labels := map[string]string{"operation": "append"}

	collector.IncrementCounter("ledger_database_errors_total", labels)
	collector.IncrementCounterContext(context.Background(), "ledger_database_errors_total", labels)

	counter := findCounterMetric(t, collect(t, reader), "ledger_database_errors_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(2), counter.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	reader, collector := givenMetricsCollector()

	collector.RecordValue("circulation_waitlist_length", 3, nil)
	collector.RecordValueContext(context.Background(), "circulation_waitlist_length", 5, nil)

	gauge := findGaugeMetric(t, collect(t, reader), "circulation_waitlist_length")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 5.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_IsSafe_ForConcurrentUse(t *testing.T) {
	reader, collector := givenMetricsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("circulation_commands_total", map[string]string{"command": "request_item"})
		}()
	}
	wg.Wait()

	counter := findCounterMetric(t, collect(t, reader), "circulation_commands_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(20), counter.DataPoints[0].Value)
}

func givenMetricsCollector() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Aggregation {
	t.Helper()

	for _, scopeMetrics := range rm.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return nil
}

func findHistogramMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Histogram[float64] {
	t.Helper()

	h, ok := findMetric(t, rm, name).(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is not a float64 histogram", name)

	return h
}

func findCounterMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Sum[int64] {
	t.Helper()

	s, ok := findMetric(t, rm, name).(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)

	return s
}

func findGaugeMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Gauge[float64] {
	t.Helper()

	g, ok := findMetric(t, rm, name).(metricdata.Gauge[float64])
	require.True(t, ok, "metric %s is not a float64 gauge", name)

	return g
}
