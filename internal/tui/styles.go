package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	spoken  lipgloss.Style
	current lipgloss.Style
	pending lipgloss.Style
	status  lipgloss.Style
	failure lipgloss.Style
	footer  lipgloss.Style
	panel   lipgloss.Style
}

func newStyles(dark bool) styles {
	if dark {
		return styles{
			title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A")),
			spoken:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
			current: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true),
			pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
			status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")),
			failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
			footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
			panel: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#4A4A4A")).
				Padding(0, 1),
		}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AD6800")),
		spoken:  lipgloss.NewStyle().Foreground(lipgloss.Color("#262626")),
		current: lipgloss.NewStyle().Foreground(lipgloss.Color("#AD6800")).Underline(true),
		pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#595959")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#CF1322")),
		footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BFBFBF")).
			Padding(0, 1),
	}
}
