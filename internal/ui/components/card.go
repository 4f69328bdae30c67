package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/ui/theme"
)

const (
	maxContentWidth = 60
	minContentWidth = 20
)

// ContentWidth is the inner width shared by every card on a screen, so
// stacked cards line up. The frame border and padding take 6 columns.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// Frame draws the outer double border and centers content inside it.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card is a rounded panel for a form or a message.
func Card(content string, cw int) string {
	return cardStyle(theme.Border, cw).Render(content)
}

// ScoreCard is a Card with the accent border, used once a quiz is done.
func ScoreCard(content string, cw int) string {
	return cardStyle(theme.Accent, cw).Render(content)
}

func cardStyle(border color.Color, cw int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2)
}
