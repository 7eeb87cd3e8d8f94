package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// detectConcurrency reports the available parallelism. Replaced in tests.
var detectConcurrency = runtime.NumCPU

// Engine runs one collect-then-process pass over a directory tree.
type Engine struct {
	opts        Options
	logger      *slog.Logger
	collector   *Collector
	hooks       Hooks
	formatLine  LineFormatter
	concurrency int
}

// NewEngine validates opts and prepares an Engine. Only the errors returned
// here abort a run; everything after setup is reported per item.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	if opts.Processor == nil {
		return nil, fmt.Errorf("%w: Processor cannot be nil", ErrConfigValidation)
	}
	if opts.Predicate == nil {
		return nil, fmt.Errorf("%w: Predicate cannot be nil", ErrConfigValidation)
	}
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency cannot be negative (got %d)", ErrConfigValidation, opts.Concurrency)
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: max depth cannot be negative (got %d)", ErrConfigValidation, opts.MaxDepth)
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.FormatLine == nil {
		opts.FormatLine = DefaultLineFormatter
	}

	root, err := resolveRoot(opts.Root, opts.FS == nil)
	if err != nil {
		return nil, err
	}
	opts.Root = root

	concurrency := resolveConcurrency(opts.Concurrency)
	if opts.Concurrency <= 0 {
		logger.Debug("Concurrency auto-detected", slog.Int("count", concurrency))
	}

	return &Engine{
		opts:        opts,
		logger:      logger,
		collector:   NewCollector(opts.FS, root, opts.MaxDepth, opts.EventHooks, opts.Logger),
		hooks:       opts.EventHooks,
		formatLine:  opts.FormatLine,
		concurrency: concurrency,
	}, nil
}

// resolveRoot defaults an empty root to the working directory and, when the
// host filesystem is used, checks that it is an accessible directory.
func resolveRoot(root string, onHost bool) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: cannot determine working directory: %w", ErrConfigValidation, err)
		}
		root = wd
	}
	if !onHost {
		return root, nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve root path '%s': %w", ErrConfigValidation, root, err)
	}
	// The root itself may be a symlink; entries below it are never followed.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: cannot access root path '%s': %w", ErrConfigValidation, root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: cannot access root path '%s': %w", ErrConfigValidation, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: root path '%s' is not a directory", ErrConfigValidation, root)
	}
	return resolved, nil
}

// resolveConcurrency returns requested when positive, otherwise the detected
// parallelism with a floor of one worker.
func resolveConcurrency(requested int) int {
	if requested > 0 {
		return requested
	}
	n := detectConcurrency()
	if n < 1 {
		return 1
	}
	return n
}

// Concurrency returns the number of workers Run will start.
func (e *Engine) Concurrency() int { return e.concurrency }

// Run collects every matching item, then drains the queue with the worker
// pool. ctx is forwarded to the Processor; queued items are never abandoned.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	e.logger.Info("Starting run", slog.String("root", e.opts.Root), slog.Int("concurrency", e.concurrency))

	collected := make(chan []WorkItem, 1)
	go func() {
		collected <- e.collector.Collect(e.opts.Predicate)
	}()
	items := <-collected
	e.logger.Debug("Collection phase finished", slog.Int("items", len(items)))
	if ch, ok := e.hooks.(CollectionHooks); ok {
		if hookErr := ch.OnCollectionComplete(items); hookErr != nil {
			e.logger.Warn("OnCollectionComplete hook returned an error", slog.String("error", hookErr.Error()))
		}
	}

	queue := NewWorkQueue(items)
	aggregator := NewAggregator(len(items))
	logBuf := NewLogBuffer(len(items))

	var wg sync.WaitGroup
	e.startWorkers(ctx, &wg, queue, aggregator, logBuf)
	wg.Wait()

	report := Report{
		Summary:       aggregator.Counters(),
		Results:       aggregator.Results(),
		Root:          e.opts.Root,
		Concurrency:   e.concurrency,
		Duration:      time.Since(startTime),
		Timestamp:     time.Now().UTC(),
		SchemaVersion: ReportSchemaVersion,
		Log:           logBuf,
	}

	e.logger.Info("Run finished",
		slog.Duration("duration", report.Duration),
		slog.Int("total", report.Summary.Total),
		slog.Int("success", report.Summary.Success),
		slog.Int("skipped", report.Summary.Skipped),
		slog.Int("failed", report.Summary.Failed),
	)

	if hookErr := e.hooks.OnRunComplete(report); hookErr != nil {
		e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
	return report, nil
}

// startWorkers launches the worker goroutines.
func (e *Engine) startWorkers(ctx context.Context, wg *sync.WaitGroup, queue *WorkQueue, agg *Aggregator, logBuf *LogBuffer) {
	e.logger.Debug("Starting worker pool", slog.Int("count", e.concurrency))
	for i := 0; i < e.concurrency; i++ {
		wg.Add(1)
		go e.processItemsWorker(ctx, wg, i, queue, agg, logBuf)
	}
}

// processItemsWorker pops items until the queue is empty.
func (e *Engine) processItemsWorker(ctx context.Context, wg *sync.WaitGroup, workerID int, queue *WorkQueue, agg *Aggregator, logBuf *LogBuffer) {
	defer wg.Done()

	wLogger := e.logger.With(slog.Int("workerID", workerID))
	wLogger.Debug("Worker started")

	for {
		item, ok := queue.Pop()
		if !ok {
			wLogger.Debug("Worker shutting down (queue empty)")
			return
		}

		began := time.Now()
		outcome := e.process(ctx, wLogger, item)
		result := agg.Record(item, outcome, time.Since(began))

		line := e.formatLine(item, outcome)
		logBuf.Append(line)

		if hookErr := e.hooks.OnItemProcessed(result, line); hookErr != nil {
			wLogger.Warn("OnItemProcessed hook returned an error", slog.String("path", item.RelPath), slog.String("error", hookErr.Error()))
		}
	}
}

// process invokes the Processor for one item. A panic or an outcome with an
// unknown kind becomes a Failed outcome.
func (e *Engine) process(ctx context.Context, logger *slog.Logger, item WorkItem) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", ErrItemProcessing, r)
			logger.Error("Panic recovered in processor", slog.String("path", item.RelPath), slog.String("error", err.Error()))
			outcome = Failedf("panic: %v", r)
		}
	}()

	outcome = e.opts.Processor.Process(ctx, item)
	if !outcome.Kind.Valid() {
		logger.Warn("Processor returned unknown outcome kind", slog.String("path", item.RelPath), slog.String("kind", string(outcome.Kind)))
		return Failedf("unknown outcome kind %q", outcome.Kind)
	}
	return outcome
}
