package sweep

import (
	"context"
	"log/slog"

	"github.com/go-git/go-billy/v5"
)

// Processor classifies one WorkItem. Implementations may perform file or
// subprocess I/O and MUST map every internal failure to a Failed outcome.
// Implementations MUST be safe for concurrent use: one instance is shared by
// every worker.
type Processor interface {
	Process(ctx context.Context, item WorkItem) Outcome
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(ctx context.Context, item WorkItem) Outcome

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, item WorkItem) Outcome { return f(ctx, item) }

// LineFormatter renders the log line for one processed item.
type LineFormatter func(item WorkItem, outcome Outcome) string

// Hooks defines callbacks for progress reporting during a run.
// Implementations MUST be thread-safe as OnItemProcessed is called concurrently
// from every worker. Errors returned by hooks are logged and otherwise ignored.
type Hooks interface {
	OnItemDiscovered(item WorkItem) error
	OnItemProcessed(result ItemResult, line string) error
	OnRunComplete(report Report) error
}

// CollectionHooks is an optional extension of Hooks. When EventHooks
// implements it, OnCollectionComplete is called once with the complete work
// list, before any worker starts.
type CollectionHooks interface {
	OnCollectionComplete(items []WorkItem) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnItemDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnItemDiscovered(item WorkItem) error { return nil }

// OnItemProcessed implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnItemProcessed(result ItemResult, line string) error { return nil }

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for a Run.
type Options struct {
	// --- Core ---
	Root        string `mapstructure:"path"`        // Directory to scan; defaults to the working directory
	Concurrency int    `mapstructure:"concurrency"` // Number of workers (0=auto)
	MaxDepth    int    `mapstructure:"max-depth"`   // Collector depth bound (0=DefaultMaxDepth)

	// --- Injected Dependencies ---
	Predicate  Predicate        `mapstructure:"-"` // Required: which entries become WorkItems
	Processor  Processor        `mapstructure:"-"` // Required: per-item classifier
	FormatLine LineFormatter    `mapstructure:"-"` // Optional: defaults to DefaultLineFormatter
	EventHooks Hooks            `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger     slog.Handler     `mapstructure:"-"` // Required: logging backend
	FS         billy.Filesystem `mapstructure:"-"` // Optional: filesystem rooted at Root (testing); defaults to osfs
}
