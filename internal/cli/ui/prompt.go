package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/stackvity/tree-sweep/pkg/sweep"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// LinePrompt returns a PromptFunc that writes the question to out and reads
// one line from in. End of input counts as "no".
func LinePrompt(in io.Reader, out io.Writer) sweep.PromptFunc {
	reader := bufio.NewReader(in)
	return func(question string) (bool, error) {
		if _, err := io.WriteString(out, question); err != nil {
			return false, fmt.Errorf("writing prompt: %w", err)
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("reading answer: %w", err)
		}
		return sweep.ParseConfirmation(line), nil
	}
}

// NewPrompt returns the interactive prompt when in and out are both
// terminals, and a LinePrompt otherwise.
func NewPrompt(in, out *os.File) sweep.PromptFunc {
	if IsTerminal(in) && IsTerminal(out) {
		return func(question string) (bool, error) {
			return Confirm(question, in, out)
		}
	}
	return LinePrompt(in, out)
}
