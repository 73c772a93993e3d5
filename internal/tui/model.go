package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"cogniflow/internal/config"
	"cogniflow/internal/export"
	"cogniflow/internal/workflow"
)

// Focus identifies which pane receives key input
type Focus int

const (
	FocusInput   Focus = iota // Instruction editor
	FocusHistory              // Workflow history list
)

// Model represents the application state
type Model struct {
	session *workflow.Session
	poller  *workflow.Poller

	// Latest engine snapshot and cached record list
	state   workflow.State
	records []workflow.Record

	// UI components
	input           textarea.Model
	historyList     list.Model
	historyDelegate *recordDelegate

	focus      Focus
	styles     Styles
	theme      string // Theme the current styles were built from
	statusNote string // Transient note (export path etc.)

	// UI dimensions
	width  int
	height int
}

// NewModel creates a new Model over an existing session and poller.
func NewModel(session *workflow.Session, poller *workflow.Poller) Model {
	theme := config.Global().Theme
	styles := NewStyles(theme)

	input := textarea.New()
	input.Placeholder = "Describe your workflow or ask the AI to analyze the current context..."
	input.SetHeight(4)
	input.ShowLineNumbers = false
	input.Focus()

	delegate := newRecordDelegate(styles)
	history := list.New([]list.Item{}, delegate, 0, 0)
	history.SetShowTitle(false)
	history.SetShowHelp(false)
	history.SetShowStatusBar(false)
	history.SetFilteringEnabled(false)
	history.DisableQuitKeybindings()

	return Model{
		session:         session,
		poller:          poller,
		state:           session.Snapshot(),
		input:           input,
		historyList:     history,
		historyDelegate: delegate,
		focus:           FocusInput,
		styles:          styles,
		theme:           theme,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		m.waitPollCmd(),
		textarea.Blink,
	)
}

// ConfigReloadedMsg announces that the config file was reloaded, so the
// model can pick up a changed theme. Sent from outside the program by
// the config watcher.
type ConfigReloadedMsg struct{}

// Message types
type (
	actionDoneMsg struct{ err error }    // A session operation finished
	pollUpdateMsg struct{}               // The poller completed a tick
	exportDoneMsg struct {
		path string
		err  error
	}
)

// refreshCmd reloads the workflow list
func (m Model) refreshCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return actionDoneMsg{session.RefreshWorkflows(context.Background())}
	}
}

// executeCmd submits the pending instruction to the AI backend
func (m Model) executeCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		_, err := session.Execute(context.Background())
		return actionDoneMsg{err}
	}
}

// replayCmd re-runs a recorded workflow by id
func (m Model) replayCmd(id int64) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		_, err := session.Replay(context.Background(), id)
		return actionDoneMsg{err}
	}
}

// deleteCmd removes one recorded workflow
func (m Model) deleteCmd(id int64) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return actionDoneMsg{session.DeleteOne(context.Background(), id)}
	}
}

// clearCmd removes the entire workflow history
func (m Model) clearCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return actionDoneMsg{session.DeleteAll(context.Background())}
	}
}

// waitPollCmd waits for the next completed poll tick
func (m Model) waitPollCmd() tea.Cmd {
	updates := m.poller.Updates
	return func() tea.Msg {
		<-updates
		return pollUpdateMsg{}
	}
}

// exportCmd writes the last result to a file in the configured directory
func (m Model) exportCmd(format export.Format) tea.Cmd {
	snapshot := m.state
	return func() tea.Msg {
		if snapshot.LastResult == "" {
			return exportDoneMsg{err: errors.New("nothing to export yet")}
		}
		dir := config.Global().ExportDir
		path, err := export.Write(dir, snapshot.LastText, snapshot.LastResult, snapshot.Mode, format, time.Now())
		return exportDoneMsg{path: path, err: err}
	}
}

// syncFromSession pulls the current engine state and record list
func (m Model) syncFromSession() Model {
	m.state = m.session.Snapshot()
	m.records = m.session.Store().Records()

	items := make([]list.Item, len(m.records))
	for i, record := range m.records {
		items[i] = recordItem{record: record}
	}
	m.historyList.SetItems(items)
	return m
}

// selectedRecord returns the highlighted history entry, if any
func (m Model) selectedRecord() (workflow.Record, bool) {
	item, ok := m.historyList.SelectedItem().(recordItem)
	if !ok {
		return workflow.Record{}, false
	}
	return item.record, true
}

// updateSizes recomputes pane dimensions from the terminal size
func (m Model) updateSizes() Model {
	// Reserve space for header (2), status line (2), help (2)
	contentHeight := m.height - 6
	if contentHeight < 8 {
		contentHeight = 8
	}

	leftWidth := m.width * 2 / 3
	if leftWidth < 30 {
		leftWidth = 30
	}
	rightWidth := m.width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
	}

	m.input.SetWidth(leftWidth - 4)
	m.historyDelegate.SetWidth(rightWidth)
	m.historyList.SetSize(rightWidth, contentHeight-2)

	return m
}
