package sweep

import (
	"sync"
	"time"
)

// Counters tallies outcomes across a run. Success+Skipped+Failed == Total.
type Counters struct {
	Total   int `json:"total" yaml:"total"`
	Success int `json:"success" yaml:"success"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Aggregator collects outcomes from concurrent workers. Counters and the
// result list are updated together under one lock.
type Aggregator struct {
	mu       sync.Mutex
	counters Counters
	results  []ItemResult
}

// NewAggregator creates an empty aggregator sized for capacity results.
func NewAggregator(capacity int) *Aggregator {
	if capacity < 0 {
		capacity = 0
	}
	return &Aggregator{results: make([]ItemResult, 0, capacity)}
}

// Record counts one processed item and returns the stored result.
// Unsupported outcomes count as skipped; unknown kinds must be normalised by
// the caller before recording.
func (a *Aggregator) Record(item WorkItem, outcome Outcome, duration time.Duration) ItemResult {
	result := ItemResult{Item: item, Outcome: outcome, Duration: duration}

	a.mu.Lock()
	a.counters.Total++
	switch outcome.Kind {
	case KindSuccess:
		a.counters.Success++
	case KindSkipped, KindUnsupported:
		a.counters.Skipped++
	default:
		a.counters.Failed++
	}
	a.results = append(a.results, result)
	a.mu.Unlock()

	return result
}

// Counters returns a copy of the current tallies.
func (a *Aggregator) Counters() Counters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters
}

// Results returns a copy of every recorded result in recording order.
func (a *Aggregator) Results() []ItemResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ItemResult, len(a.results))
	copy(out, a.results)
	return out
}
