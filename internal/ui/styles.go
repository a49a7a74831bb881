package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.AdaptiveColor{Light: "#B20710", Dark: "#E50914"}
	subtle    = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	warning   = lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#FFD700"}
	danger    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

// Styles holds every style the views render with.
type Styles struct {
	App       lipgloss.Style
	Box       lipgloss.Style
	Header    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Muted     lipgloss.Style
	Rating    lipgloss.Style
	ErrorText lipgloss.Style
	Notice    lipgloss.Style
	Spinner   lipgloss.Style
	Help      lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	State       lipgloss.Style
	Placeholder lipgloss.Style
	Legend      lipgloss.Style
}

func DefaultStyles() Styles {
	s := Styles{}
	s.App = lipgloss.NewStyle().Padding(1, 2)
	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(subtle)
	s.Header = lipgloss.NewStyle().Bold(true).Foreground(accent)
	s.Title = lipgloss.NewStyle().Bold(true)
	s.Subtitle = lipgloss.NewStyle().Italic(true).Foreground(subtle)
	s.Label = lipgloss.NewStyle().Foreground(subtle).Width(14)
	s.Muted = lipgloss.NewStyle().Foreground(subtle)
	s.Rating = lipgloss.NewStyle().Foreground(warning)
	s.ErrorText = lipgloss.NewStyle().Foreground(danger)
	s.Notice = lipgloss.NewStyle().Foreground(highlight)
	s.Spinner = lipgloss.NewStyle().Foreground(accent)
	s.Help = lipgloss.NewStyle().Foreground(subtle)

	s.InactiveTab = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(highlight).
		Padding(0, 1)
	s.ActiveTab = s.InactiveTab.Bold(true).Foreground(accent)

	s.State = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Placeholder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(subtle).
		Padding(1, 4).
		Align(lipgloss.Center)
	s.Legend = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(subtle)
	return s
}
