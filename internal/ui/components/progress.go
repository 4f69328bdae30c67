package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/ui/theme"
)

// ProgressBar shows how far through the quiz the learner is.
type ProgressBar struct {
	Current int // 1-based
	Total   int
	Width   int
}

// NewProgressBar creates a progress bar for question current of total.
func NewProgressBar(current, total, width int) ProgressBar {
	return ProgressBar{Current: current, Total: total, Width: width}
}

// Label returns the "Question N of M" caption.
func (p ProgressBar) Label() string {
	return fmt.Sprintf("Question %d of %d", p.Current, p.Total)
}

// View renders the caption followed by the bar.
func (p ProgressBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label()) + "  "

	barWidth := p.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if p.Total > 0 {
		filled = barWidth * p.Current / p.Total
	}
	filled = max(0, min(filled, barWidth))

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
}
