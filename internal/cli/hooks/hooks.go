package hooks

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stackvity/tree-sweep/pkg/sweep"
)

// --- TUI Message Structs ---

// ItemDiscoveredMsg signals that the collector matched an item.
type ItemDiscoveredMsg struct{ Item sweep.WorkItem }

// ItemProcessedMsg carries a finished item and its log line.
type ItemProcessedMsg struct {
	Result sweep.ItemResult
	Line   string
}

// NoticeMsg carries a status line that is not tied to one item.
type NoticeMsg struct{ Line string }

// RunCompleteMsg signals the completion of the entire run.
type RunCompleteMsg struct{ Report sweep.Report }

// --- Hook Implementation ---

// TUIProgram defines the interface needed to interact with the Bubble Tea program.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// LineRenderer decorates a result line for the terminal.
type LineRenderer func(result sweep.ItemResult, line string) string

// CLIHooks implements the sweep.Hooks interface, bridging engine events
// to the CLI's output: the live TUI when one runs, plain lines otherwise.
type CLIHooks struct {
	logger     *slog.Logger
	out        io.Writer
	render     LineRenderer
	tuiProgram TUIProgram
	collected  func(count int) string
	mu         sync.Mutex // Serializes writes to out and guards tuiProgram
}

// NewCLIHooks creates a new CLIHooks instance. Pass nil for tuiProg to print
// result lines to out; render may be nil for undecorated lines.
func NewCLIHooks(logger *slog.Logger, out io.Writer, render LineRenderer, tuiProg TUIProgram) *CLIHooks {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if out == nil {
		out = io.Discard
	}
	if render == nil {
		render = func(_ sweep.ItemResult, line string) string { return line }
	}
	return &CLIHooks{
		logger:     logger.With(slog.String("component", "cliHooks")),
		out:        out,
		render:     render,
		tuiProgram: tuiProg,
	}
}

// WithCollectedLine sets the line printed once the work list is complete.
// format may return "" to print nothing.
func (h *CLIHooks) WithCollectedLine(format func(count int) string) *CLIHooks {
	h.collected = format
	return h
}

// Detach stops forwarding events to the TUI; later lines are printed to out.
// It is called once the program has exited or is about to.
func (h *CLIHooks) Detach() {
	h.mu.Lock()
	h.tuiProgram = nil
	h.mu.Unlock()
}

func (h *CLIHooks) program() TUIProgram {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tuiProgram
}

// OnItemDiscovered handles the event when the collector matches an item.
func (h *CLIHooks) OnItemDiscovered(item sweep.WorkItem) error {
	if p := h.program(); p != nil {
		p.Send(ItemDiscoveredMsg{Item: item})
		return nil
	}
	h.logger.Debug("Item discovered", slog.String("path", item.RelPath))
	return nil
}

// OnCollectionComplete prints the collected line, if one is configured.
func (h *CLIHooks) OnCollectionComplete(items []sweep.WorkItem) error {
	if h.collected == nil {
		return nil
	}
	line := h.collected(len(items))
	if line == "" {
		return nil
	}
	if p := h.program(); p != nil {
		p.Send(NoticeMsg{Line: line})
		return nil
	}
	return h.println(line)
}

// OnItemProcessed prints the line of a finished item.
// This method MUST be thread-safe.
func (h *CLIHooks) OnItemProcessed(result sweep.ItemResult, line string) error {
	attrs := []any{
		slog.String("path", result.Item.RelPath),
		slog.String("kind", string(result.Outcome.Kind)),
		slog.Duration("duration", result.Duration),
	}
	if result.Outcome.Kind == sweep.KindFailed {
		attrs = append(attrs, slog.String("error", result.Outcome.Message))
	}
	h.logger.Debug("Item processed", attrs...)

	if p := h.program(); p != nil {
		p.Send(ItemProcessedMsg{Result: result, Line: line})
		return nil
	}
	return h.println(h.render(result, line))
}

func (h *CLIHooks) println(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := fmt.Fprintln(h.out, line); err != nil {
		return fmt.Errorf("writing result line: %w", err)
	}
	return nil
}

// OnRunComplete hands the final report to the TUI so it can shut down.
func (h *CLIHooks) OnRunComplete(report sweep.Report) error {
	if p := h.program(); p != nil {
		p.Send(RunCompleteMsg{Report: report})
	}
	h.logger.Debug("Run complete",
		slog.Int("total", report.Summary.Total),
		slog.Int("failed", report.Summary.Failed),
	)
	return nil
}
