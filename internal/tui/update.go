package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"cogniflow/internal/config"
	"cogniflow/internal/export"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.updateSizes(), nil

	case pollUpdateMsg:
		m.state = m.session.Snapshot()
		return m, m.waitPollCmd()

	case actionDoneMsg:
		// Success and failure both land in the snapshot (LastResult or
		// LastError); busy is always released by the engine.
		return m.syncFromSession(), nil

	case ConfigReloadedMsg:
		if theme := config.Global().Theme; theme != m.theme {
			m.theme = theme
			m.styles = NewStyles(theme)
			m.historyDelegate.styles = m.styles
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.statusNote = "export failed: " + msg.err.Error()
		} else {
			m.statusNote = "exported to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

// handleKey routes key presses to global shortcuts or the focused pane
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.poller.Stop()
		return m, tea.Quit

	case "tab":
		if m.focus == FocusInput {
			m.focus = FocusHistory
			m.input.Blur()
		} else {
			m.focus = FocusInput
			m.input.Focus()
		}
		return m, nil

	case "ctrl+e":
		m.session.SetInput(m.input.Value())
		m.statusNote = ""
		m.state = m.session.Snapshot()
		return m, m.executeCmd()

	case "ctrl+r":
		// Recording toggles are local and allowed while busy
		m.session.ToggleRecording()
		m.state = m.session.Snapshot()
		return m, nil

	case "ctrl+g":
		m.session.CycleMode()
		m.state = m.session.Snapshot()
		return m, nil

	case "ctrl+n":
		m.session.Reset()
		m.input.Reset()
		m.statusNote = ""
		m.state = m.session.Snapshot()
		return m, nil

	case "ctrl+l":
		return m, m.refreshCmd()

	case "ctrl+x":
		return m, m.exportCmd(export.FormatText)

	case "ctrl+p":
		return m, m.exportCmd(export.FormatPDF)
	}

	if m.focus == FocusHistory {
		switch msg.String() {
		case "esc":
			m.focus = FocusInput
			m.input.Focus()
			return m, nil

		case "enter":
			if record, ok := m.selectedRecord(); ok {
				m.statusNote = ""
				return m, m.replayCmd(record.ID)
			}
			return m, nil

		case "d", "backspace":
			if record, ok := m.selectedRecord(); ok {
				return m, m.deleteCmd(record.ID)
			}
			return m, nil

		case "D":
			return m, m.clearCmd()
		}

		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	}

	// Input focused: the textarea consumes the key and the session
	// mirrors the pending text (a local mutation, allowed while busy).
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetInput(m.input.Value())
	return m, cmd
}

// updateFocused forwards non-key messages (cursor blinks etc.) to the
// focused component
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == FocusInput {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}
