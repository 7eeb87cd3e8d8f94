package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stackvity/tree-sweep/internal/cli/hooks"
)

// Phases shown next to the spinner.
const (
	PhaseScanning   = "Scanning..."
	PhaseProcessing = "Processing..."
	PhaseComplete   = "Complete"
)

// lineFlushedMsg follows each printed line. Once it arrives the line has
// been handed to the renderer.
type lineFlushedMsg struct{ id int }

// Model is the live progress view of a run. Result lines are printed above a
// single status line holding a spinner and the processed/discovered counts.
// The program quits once the run is complete and every line is flushed.
type Model struct {
	// spinner indicates background activity.
	spinner spinner.Model
	styles  Styles

	phase      string
	discovered int
	processed  int
	// pending counts printed lines whose lineFlushedMsg has not arrived.
	pending int
	// unflushed holds those lines by id, plus lines received after an
	// interrupt, so the caller can print them once the program exits.
	unflushed map[int]string
	nextID    int
	done      bool
	// quitting is set when the user interrupts with 'q' or Ctrl+C.
	quitting    bool
	onInterrupt func()
}

// NewModel creates the progress model. onInterrupt, if set, runs when the
// user quits before the run finishes.
func NewModel(styles Styles, onInterrupt func()) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Status
	return &Model{
		spinner:     s,
		styles:      styles,
		phase:       PhaseScanning,
		onInterrupt: onInterrupt,
		unflushed:   make(map[int]string),
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles key presses, spinner ticks and engine events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done && m.onInterrupt != nil {
				m.onInterrupt()
			}
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done || m.quitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hooks.ItemDiscoveredMsg:
		m.discovered++

	case hooks.ItemProcessedMsg:
		m.processed++
		m.phase = PhaseProcessing
		return m, m.print(m.styles.RenderLine(msg.Result, msg.Line))

	case hooks.NoticeMsg:
		return m, m.print(msg.Line)

	case lineFlushedMsg:
		if _, ok := m.unflushed[msg.id]; ok {
			delete(m.unflushed, msg.id)
			m.pending--
		}
		return m, m.quitIfFinished()

	case hooks.RunCompleteMsg:
		m.done = true
		m.phase = PhaseComplete
		return m, m.quitIfFinished()
	}
	return m, nil
}

// print queues line above the status line. After an interrupt the line is
// only recorded.
func (m *Model) print(line string) tea.Cmd {
	id := m.nextID
	m.nextID++
	m.unflushed[id] = line
	if m.quitting {
		return nil
	}
	m.pending++
	return tea.Sequence(tea.Println(line), func() tea.Msg { return lineFlushedMsg{id: id} })
}

// Unprinted returns, in arrival order, the lines that never reached the
// terminal because the program quit first.
func (m *Model) Unprinted() []string {
	ids := make([]int, 0, len(m.unflushed))
	for id := range m.unflushed {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, m.unflushed[id])
	}
	return lines
}

func (m *Model) quitIfFinished() tea.Cmd {
	if m.done && m.pending <= 0 {
		return tea.Quit
	}
	return nil
}

// View renders the status line. Nothing is left behind once the run ends.
func (m *Model) View() string {
	if m.done || m.quitting {
		return ""
	}
	status := fmt.Sprintf("%s %d/%d", m.phase, m.processed, m.discovered)
	return m.spinner.View() + " " + m.styles.Status.Render(status) + "\n"
}

// Interrupted reports whether the user quit before the run completed.
func (m *Model) Interrupted() bool {
	return m.quitting && !m.done
}
