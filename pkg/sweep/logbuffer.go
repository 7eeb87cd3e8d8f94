package sweep

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// LogBuffer is an append-only, thread-safe collection of result lines.
// It is complete (one line per processed item) once the worker pool joins
// and may then be persisted once.
type LogBuffer struct {
	mu      sync.Mutex
	lines   []string
	flushed bool
	// flushMu serializes Flush so the check, write and mark happen as one step.
	flushMu sync.Mutex
}

// NewLogBuffer creates an empty buffer sized for capacity lines.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &LogBuffer{lines: make([]string, 0, capacity)}
}

// Append adds one line. Trailing newlines are trimmed; Flush adds its own.
func (b *LogBuffer) Append(line string) {
	line = strings.TrimRight(line, "\r\n")
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()
}

// Lines returns a copy of the buffered lines.
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of buffered lines.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Content concatenates the buffered lines followed by trailer, one per line.
func (b *LogBuffer) Content(trailer []string) string {
	var sb strings.Builder
	for _, line := range b.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, line := range trailer {
		sb.WriteString(strings.TrimRight(line, "\r\n"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Flush writes the buffered lines and trailer to path, replacing any existing
// file. Only the first successful Flush writes; later calls return
// ErrLogAlreadyFlushed. A write failure leaves the buffer untouched.
func (b *LogBuffer) Flush(path string, trailer []string) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	already := b.flushed
	b.mu.Unlock()
	if already {
		return fmt.Errorf("%w: %s", ErrLogAlreadyFlushed, path)
	}

	if err := os.WriteFile(path, []byte(b.Content(trailer)), 0o644); err != nil {
		return fmt.Errorf("%w: write '%s': %w", ErrLogPersist, path, err)
	}

	b.mu.Lock()
	b.flushed = true
	b.mu.Unlock()
	return nil
}

// Flushed reports whether the buffer has been persisted.
func (b *LogBuffer) Flushed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushed
}
