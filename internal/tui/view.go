package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI based on the model state
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n\n")

	left := m.renderWorkspace()
	right := m.renderHistory()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the title bar with the observed host context
func (m Model) renderHeader() string {
	title := m.styles.Title.Render("CogniFlow")

	var reach string
	if m.state.BackendReachable {
		reach = m.styles.Reachable.Render("●")
	} else {
		reach = m.styles.Unreachable.Render("● offline")
	}

	context := "detecting context..."
	if m.state.Context.Title != "" {
		context = fmt.Sprintf("%s · %s", m.state.Context.AppName, m.state.Context.Title)
	}
	status := m.styles.Status.Render(context)

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(status) - lipgloss.Width(reach) - 4
	if spacing < 1 {
		spacing = 1
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacing),
		status,
		"  ",
		reach,
	)
}

// renderStatusLine renders mode, recording and busy indicators plus any
// pending error or note
func (m Model) renderStatusLine() string {
	parts := []string{
		m.styles.Mode(m.state.Mode).Render(strings.ToUpper(string(m.state.Mode))),
	}

	if m.state.Recording {
		parts = append(parts, m.styles.RecordingOn.Render("REC"))
	} else {
		parts = append(parts, m.styles.RecordingOff.Render("rec off"))
	}

	if m.state.Busy {
		parts = append(parts, m.styles.Busy.Render("working..."))
	}

	if m.state.LastError != "" {
		parts = append(parts, m.styles.Error.Render(m.state.LastError))
	} else if m.statusNote != "" {
		parts = append(parts, m.styles.Note.Render(m.statusNote))
	}

	return " " + strings.Join(parts, "  ")
}

// renderWorkspace renders the instruction editor and the response pane
func (m Model) renderWorkspace() string {
	var b strings.Builder

	b.WriteString(m.styles.PanelTitle.Render("Instruction"))
	b.WriteString("\n")
	b.WriteString(m.styles.Panel.Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(m.styles.PanelTitle.Render("AI Response"))
	b.WriteString("\n")
	b.WriteString(m.styles.Panel.Render(m.renderResponse()))

	return b.String()
}

// renderResponse renders the last result, annotated when it was not
// persisted as a workflow record
func (m Model) renderResponse() string {
	width := m.width*2/3 - 6
	if width < 24 {
		width = 24
	}

	if m.state.LastResult == "" {
		return m.styles.Muted.Width(width).Render("Waiting for input...")
	}

	body := m.styles.Normal.Width(width).Render(m.state.LastResult)
	if m.state.LastRecorded {
		return body
	}
	note := "(not saved: recording was off)"
	if m.state.LastReplayed {
		note = "(replay result: not saved)"
	}
	return body + "\n" + m.styles.Muted.Render(note)
}

// renderHistory renders the workflow history panel
func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render(fmt.Sprintf("Workflows (%d)", len(m.records))))
	b.WriteString("\n")
	if len(m.records) == 0 {
		b.WriteString(m.styles.Muted.Render("No history yet."))
	} else {
		b.WriteString(m.historyList.View())
	}
	return b.String()
}

// renderHelp renders the help footer for the focused pane
func (m Model) renderHelp() string {
	var help []string

	switch m.focus {
	case FocusInput:
		help = []string{
			"ctrl+e:execute",
			"ctrl+r:record",
			"ctrl+g:mode",
			"ctrl+n:new",
			"tab:history",
			"ctrl+x/p:export txt/pdf",
			"ctrl+c:quit",
		}
	case FocusHistory:
		help = []string{
			"j/k:navigate",
			"enter:replay",
			"d:delete",
			"D:delete all",
			"ctrl+l:refresh",
			"tab/esc:input",
			"ctrl+c:quit",
		}
	}

	return m.styles.Help.Render(strings.Join(help, " | "))
}
