// Package tui is the terminal front end: the questionnaire wizard and the
// history cards.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"lunalog/internal/model"
)

var (
	Accent  = lipgloss.Color("#8E7CC3") // moonlight violet
	Muted   = lipgloss.Color("#7A7F8C")
	Danger  = lipgloss.Color("#E53935")
	Success = lipgloss.Color("#8BC34A")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	progressStyle = lipgloss.NewStyle().Foreground(Muted)
	promptStyle   = lipgloss.NewStyle().Bold(true)
	subStyle      = lipgloss.NewStyle().Italic(true).Foreground(Muted)
	helpStyle     = lipgloss.NewStyle().Foreground(Muted)
	errorStyle    = lipgloss.NewStyle().Foreground(Danger)
	okStyle       = lipgloss.NewStyle().Foreground(Success).Bold(true)
	moonOn        = lipgloss.NewStyle().Foreground(Accent)
	moonOff       = lipgloss.NewStyle().Foreground(Muted)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1).
			Width(60)
	dateStyle = lipgloss.NewStyle().Foreground(Muted)
)

var bandColors = map[model.MoodBand]lipgloss.Color{
	model.MoodLow:      lipgloss.Color("#E57373"),
	model.MoodModerate: lipgloss.Color("#FFD54F"),
	model.MoodGood:     lipgloss.Color("#4DB6AC"),
	model.MoodGreat:    lipgloss.Color("#8BC34A"),
}

func badgeStyle(band model.MoodBand) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#101F38")).
		Background(bandColors[band])
}
