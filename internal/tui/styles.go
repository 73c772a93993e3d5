package tui

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"cogniflow/internal/workflow"
)

// Styles bundles the lipgloss styles for one catppuccin flavour.
type Styles struct {
	Title       lipgloss.Style
	Status      lipgloss.Style
	Reachable   lipgloss.Style
	Unreachable lipgloss.Style

	RecordingOn  lipgloss.Style
	RecordingOff lipgloss.Style
	Busy         lipgloss.Style

	ModeAnalyze  lipgloss.Style
	ModeCreate   lipgloss.Style
	ModeAutomate lipgloss.Style

	PanelTitle lipgloss.Style
	Panel      lipgloss.Style

	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Timestamp lipgloss.Style

	Error lipgloss.Style
	Note  lipgloss.Style
	Help  lipgloss.Style
}

// NewStyles builds the style set for the named theme, defaulting to
// mocha for unknown names.
func NewStyles(theme string) Styles {
	fl := flavour(theme)

	text := lipgloss.Color(fl.Text().Hex)
	muted := lipgloss.Color(fl.Overlay1().Hex)
	surface := lipgloss.Color(fl.Surface0().Hex)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fl.Mauve().Hex)),

		Status: lipgloss.NewStyle().
			Foreground(muted),

		Reachable: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Green().Hex)).
			Bold(true),

		Unreachable: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Red().Hex)).
			Bold(true),

		RecordingOn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Red().Hex)).
			Bold(true),

		RecordingOff: lipgloss.NewStyle().
			Foreground(muted),

		Busy: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Yellow().Hex)).
			Bold(true),

		ModeAnalyze: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Blue().Hex)).
			Bold(true),

		ModeCreate: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Green().Hex)).
			Bold(true),

		ModeAutomate: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Peach().Hex)).
			Bold(true),

		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fl.Lavender().Hex)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(surface).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(surface).
			Foreground(text).
			Bold(true),

		Normal: lipgloss.NewStyle().
			Foreground(text),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Timestamp: lipgloss.NewStyle().
			Foreground(muted),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Red().Hex)).
			Bold(true),

		Note: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fl.Teal().Hex)),

		Help: lipgloss.NewStyle().
			Foreground(muted),
	}
}

// Mode returns the badge style for a processing mode.
func (s Styles) Mode(mode workflow.Mode) lipgloss.Style {
	switch mode {
	case workflow.ModeCreate:
		return s.ModeCreate
	case workflow.ModeAutomate:
		return s.ModeAutomate
	default:
		return s.ModeAnalyze
	}
}

// flavour maps a theme name to its catppuccin flavour.
func flavour(name string) catppuccin.Flavour {
	switch strings.ToLower(name) {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}
