package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lunalog/internal/view"
)

// RenderCard draws one history card
func RenderCard(c view.Card) string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(c.Title),
		"  ",
		badgeStyle(c.Band).Render(fmt.Sprintf("%d", c.Badge)),
	)
	lines := []string{header}
	if c.Date != "" {
		lines = append(lines, dateStyle.Render(c.Date))
	}
	lines = append(lines,
		c.Summary,
		progressStyle.Render(fmt.Sprintf("mood %.2f (%s)", c.MoodScore, c.Band)),
	)
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// RenderCards draws a listing, newest last
func RenderCards(cards []view.Card) string {
	if len(cards) == 0 {
		return helpStyle.Render("No journal entries yet.")
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = RenderCard(c)
	}
	return strings.Join(rendered, "\n")
}

// RenderOverview draws the summary of the latest entry shown after a submit
func RenderOverview(o view.Overview) string {
	lines := []string{titleStyle.Render("Your overview")}
	if o.Date != "" {
		lines = append(lines, dateStyle.Render(o.Date))
	}
	lines = append(lines, section("Insights", o.Insights)...)
	lines = append(lines, section("Recommendations", o.Recommendations)...)
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func section(title string, items []string) []string {
	lines := []string{"", promptStyle.Render(title)}
	if len(items) == 0 {
		return append(lines, helpStyle.Render("None yet."))
	}
	for _, it := range items {
		lines = append(lines, "• "+it)
	}
	return lines
}
