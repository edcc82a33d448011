package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#F5A623")
	errorColor   = lipgloss.Color("#FF4D4F")
	mutedColor   = lipgloss.Color("#808080")
	barColor     = lipgloss.Color("#4E9BE6")
)

// Styles groups every style the dashboard renders with.
type Styles struct {
	Title    lipgloss.Style
	Panel    lipgloss.Style
	KPILabel lipgloss.Style
	KPIValue lipgloss.Style
	Header   lipgloss.Style
	Row      lipgloss.Style
	Overdue  lipgloss.Style
	Selected lipgloss.Style
	Bar      lipgloss.Style
	Legend   lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Blurred  lipgloss.Style
	Modal    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultStyles returns the dashboard's colour scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1),
		KPILabel: lipgloss.NewStyle().Foreground(mutedColor),
		KPIValue: lipgloss.NewStyle().Bold(true),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Row:      lipgloss.NewStyle(),
		Overdue:  lipgloss.NewStyle().Foreground(errorColor),
		Selected: lipgloss.NewStyle().Reverse(true),
		Bar:      lipgloss.NewStyle().Foreground(barColor),
		Legend:   lipgloss.NewStyle().Foreground(mutedColor),
		Label:    lipgloss.NewStyle().Foreground(mutedColor),
		Focused:  lipgloss.NewStyle().Foreground(primaryColor).Bold(true),
		Blurred:  lipgloss.NewStyle().Foreground(mutedColor),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(warningColor).
			Padding(1, 2),
		Status: lipgloss.NewStyle().Foreground(successColor),
		Error:  lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(mutedColor),
	}
}
