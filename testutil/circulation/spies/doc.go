// Package spies provides recording test doubles for the observability interfaces of the ledger
// and the circulation shell:
//   - MetricsCollectorSpy: captures duration, counter and value calls with their labels
//   - TracingCollectorSpy: captures started span names and finish statuses
//   - LoggerSpy: captures log messages per level
package spies
