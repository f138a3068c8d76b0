// Package tui is the terminal console: the login form, the banner and the
// stakeholders page with its verification dialog.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	Primary     = lipgloss.Color("#101F38")
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#8a94a6")
	Destructive = lipgloss.Color("#e53935")
	Info        = lipgloss.Color("#2196F3")
)

type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Link     lipgloss.Style
	Banner   lipgloss.Style
	Dialog   lipgloss.Style
	Selected lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Accent).MarginBottom(1),
		Label:    lipgloss.NewStyle().Foreground(Muted),
		Focused:  lipgloss.NewStyle().Foreground(Accent).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(Destructive),
		Help:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Link:     lipgloss.NewStyle().Foreground(Info).Underline(true),
		Banner:   lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#ffffff")).Background(Primary),
		Dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Accent).Padding(1, 2),
		Selected: lipgloss.NewStyle().Foreground(Accent),
	}
}
