package shell

import (
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// The shell shares the observability contracts of the ledger, so one set of adapters serves both.
type (
	Logger                     = ledger.Logger
	ContextualLogger           = ledger.ContextualLogger
	MetricsCollector           = ledger.MetricsCollector
	ContextualMetricsCollector = ledger.ContextualMetricsCollector
	TracingCollector           = ledger.TracingCollector
	SpanContext                = ledger.SpanContext
)
