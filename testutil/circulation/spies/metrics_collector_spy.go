package spies

import (
	"sync"
	"time"
)

// MetricRecord is one captured metrics call.
type MetricRecord struct {
	Kind   string
	Metric string
	Value  float64
	Labels map[string]string
}

// Kinds of captured metrics calls.
const (
	KindDuration = "duration"
	KindCounter  = "counter"
	KindValue    = "value"
)

// MetricsCollectorSpy is a ledger.MetricsCollector that records every call.
type MetricsCollectorSpy struct {
	mu      sync.Mutex
	records []MetricRecord
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) add(kind, metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	labelsCopy := make(map[string]string, len(labels))
	for k, v := range labels {
		labelsCopy[k] = v
	}

	s.records = append(s.records, MetricRecord{Kind: kind, Metric: metric, Value: value, Labels: labelsCopy})
}

// RecordDuration implements ledger.MetricsCollector.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.add(KindDuration, metric, duration.Seconds(), labels)
}

// IncrementCounter implements ledger.MetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.add(KindCounter, metric, 1, labels)
}

// RecordValue implements ledger.MetricsCollector.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.add(KindValue, metric, value, labels)
}

// Records returns a copy of all captured calls.
func (s *MetricsCollectorSpy) Records() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]MetricRecord(nil), s.records...)
}

// Count returns how often the metric was recorded, regardless of kind.
func (s *MetricsCollectorSpy) Count(metric string) int {
	count := 0
	for _, r := range s.Records() {
		if r.Metric == metric {
			count++
		}
	}

	return count
}

// Has reports whether the metric was recorded with the given kind.
func (s *MetricsCollectorSpy) Has(kind, metric string) bool {
	for _, r := range s.Records() {
		if r.Kind == kind && r.Metric == metric {
			return true
		}
	}

	return false
}

// HasWithLabel reports whether the metric was recorded with label key set to value.
// An empty value matches any record of the metric.
func (s *MetricsCollectorSpy) HasWithLabel(metric, key, value string) bool {
	for _, r := range s.Records() {
		if r.Metric == metric && (value == "" || r.Labels[key] == value) {
			return true
		}
	}

	return false
}
