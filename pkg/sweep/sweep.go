// Package sweep scans a directory tree for matching entries and classifies
// each one with a pluggable Processor on a bounded worker pool.
//
// A run has two strictly sequential phases. The Collector walks the tree and
// produces the complete work list; the worker pool then drains it, recording
// every Outcome in an Aggregator and a LogBuffer. Callers may persist the log
// once and may run ConfirmAndAct over the flagged items afterwards.
package sweep

import "context"

// Run is the main entry point for the library. Only setup failures (wrapping
// ErrConfigValidation) are returned as errors; per-item problems are reported
// in the Report.
func Run(ctx context.Context, opts Options) (Report, error) {
	engine, err := NewEngine(opts)
	if err != nil {
		return Report{}, err
	}
	return engine.Run(ctx)
}
