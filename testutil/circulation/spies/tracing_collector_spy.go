package spies

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/bookcircle/ledger"
)

// TracingCollectorSpy is a ledger.TracingCollector that records span names and finish statuses.
type TracingCollectorSpy struct {
	mu       sync.Mutex
	started  []string
	finished []string
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

type spanSpy struct{}

func (spanSpy) SetStatus(string)            {}
func (spanSpy) AddAttribute(string, string) {}

// StartSpan implements ledger.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, _ map[string]string) (context.Context, ledger.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, name)

	return ctx, spanSpy{}
}

// FinishSpan implements ledger.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(_ ledger.SpanContext, status string, _ map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, status)
}

// Started returns the names of all started spans in order.
func (s *TracingCollectorSpy) Started() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.started...)
}

// Finished returns the statuses of all finished spans in order.
func (s *TracingCollectorSpy) Finished() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.finished...)
}

var (
	_ ledger.TracingCollector = (*TracingCollectorSpy)(nil)
	_ ledger.MetricsCollector = (*MetricsCollectorSpy)(nil)
	_ ledger.Logger           = (*LoggerSpy)(nil)
)
