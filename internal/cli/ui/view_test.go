package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stackvity/tree-sweep/internal/cli/hooks"
	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
	"github.com/stretchr/testify/assert"
)

func TestModel_View(t *testing.T) {
	m := NewModel(DefaultStyles(), nil)
	assert.Contains(t, m.View(), "Scanning... 0/0")

	m.Update(hooks.ItemDiscoveredMsg{})
	m.Update(hooks.ItemDiscoveredMsg{})
	m.Update(processedMsg("a", sweep.Success(), "[SUCCESS] a"))
	assert.Contains(t, m.View(), "Processing... 1/2")

	m.Update(hooks.RunCompleteMsg{})
	assert.Empty(t, m.View(), "the status line is cleared when the run ends")
}

func TestModel_ViewAfterQuit(t *testing.T) {
	m := NewModel(DefaultStyles(), nil)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Empty(t, m.View())
}

func TestStyles_StyleFor(t *testing.T) {
	s := DefaultStyles()
	tests := []struct {
		name    string
		outcome sweep.Outcome
		want    string
	}{
		{"success", sweep.Success(), s.Success.Render("x")},
		{"updated", sweep.SuccessWith(repo.NoteUpdated), s.Success.Render("x")},
		{"up to date", sweep.SuccessWith(repo.NoteUpToDate), s.Unchanged.Render("x")},
		{"skipped", sweep.Skipped(sweep.ReasonAuthRequired), s.Skipped.Render("x")},
		{"unsupported", sweep.Unsupported(), s.Skipped.Render("x")},
		{"failed", sweep.Failed("boom"), s.Failed.Render("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.StyleFor(tt.outcome).Render("x"))
		})
	}
}

func TestStyles_RenderLineKeepsText(t *testing.T) {
	line := "❌ [CORRUPTED] nested/bad.zip - zip: checksum error"
	got := DefaultStyles().RenderLine(sweep.ItemResult{Outcome: sweep.Failed("zip: checksum error")}, line)
	assert.Contains(t, got, line)
}
