// Package observable wraps command and query handlers with metrics, tracing and logging,
// so that the handlers themselves contain only the circulation workflow.
//
// Wrappers are applied at wiring time:
//
//	core := requestitem.NewCommandHandler(runner, clock)
//	handler, err := observable.NewCommandWrapper[requestitem.Command](
//		core,
//		observable.WithCommandMetrics[requestitem.Command](metricsCollector),
//		observable.WithCommandTracing[requestitem.Command](tracingCollector),
//		observable.WithCommandContextualLogging[requestitem.Command](logger),
//	)
//
// Business rule rejections are recorded with status "rejected", separate from infrastructure errors.
package observable
