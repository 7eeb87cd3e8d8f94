package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
)

// Styles holds the lipgloss styles for terminal output. Colors degrade to
// plain text when stdout is not a terminal.
type Styles struct {
	Success   lipgloss.Style
	Unchanged lipgloss.Style // successes that changed nothing, e.g. an up to date repository
	Skipped   lipgloss.Style
	Failed    lipgloss.Style
	Summary   lipgloss.Style
	Prompt    lipgloss.Style
	Status    lipgloss.Style
}

// DefaultStyles returns the standard palette: green, blue, yellow and red
// result lines.
func DefaultStyles() Styles {
	return Styles{
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Unchanged: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Skipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Summary:   lipgloss.NewStyle().Bold(true),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// StyleFor picks the style of an outcome.
func (s Styles) StyleFor(o sweep.Outcome) lipgloss.Style {
	switch o.Kind {
	case sweep.KindSuccess:
		if o.Note == repo.NoteUpToDate {
			return s.Unchanged
		}
		return s.Success
	case sweep.KindSkipped, sweep.KindUnsupported:
		return s.Skipped
	default:
		return s.Failed
	}
}

// RenderLine styles a result line. It satisfies hooks.LineRenderer.
func (s Styles) RenderLine(result sweep.ItemResult, line string) string {
	return s.StyleFor(result.Outcome).Render(line)
}
