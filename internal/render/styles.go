package render

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the text views
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Badge   lipgloss.Style
	Header  lipgloss.Style
	Unread  lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // Blue
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")), // Light gray
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Badge: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Blue
		Unread: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208")), // Orange
	}
}

// statusStyle maps an appointment or prescription status to a style.
func (s Styles) statusStyle(status string) lipgloss.Style {
	switch status {
	case "confirmed", "active", "sent", "completed":
		return s.Success
	case "pending":
		return s.Warning
	case "cancelled", "expired":
		return s.Error
	default:
		return s.Muted
	}
}
