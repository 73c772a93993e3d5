package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"cogniflow/internal/workflow"
)

// recordItem wraps a workflow record for the list component
type recordItem struct {
	record workflow.Record
}

func (i recordItem) FilterValue() string { return i.record.Text }

// recordDelegate renders workflow records in the history list
type recordDelegate struct {
	width  int
	styles Styles
}

func newRecordDelegate(styles Styles) *recordDelegate {
	return &recordDelegate{width: 40, styles: styles}
}

// SetWidth updates the rendering width
func (d *recordDelegate) SetWidth(w int) {
	d.width = w
}

func (d *recordDelegate) Height() int                             { return 2 }
func (d *recordDelegate) Spacing() int                            { return 1 }
func (d *recordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d *recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(recordItem)
	if !ok {
		return
	}

	badge := d.styles.Mode(i.record.Mode).Render(strings.ToUpper(string(i.record.Mode)))
	when := d.styles.Timestamp.Render(formatTimeAgo(i.record.Timestamp))

	textStyle := d.styles.Normal
	if index == m.Index() {
		textStyle = d.styles.Selected
	}

	text := truncate(i.record.Text, d.width-4)

	fmt.Fprintf(w, "%s %s\n  %s", badge, when, textStyle.Render(text))
}

// truncate shortens text to at most max runes, appending an ellipsis
// when something was cut. Counts runes, not bytes, so multibyte text is
// never split mid-character.
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}

// formatTimeAgo renders a compact relative timestamp
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}
