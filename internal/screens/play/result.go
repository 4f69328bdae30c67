package play

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/quiz"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/router"
	"github.com/abhisek/quizbook/internal/screen"
	"github.com/abhisek/quizbook/internal/screens/history"
	"github.com/abhisek/quizbook/internal/ui/components"
	"github.com/abhisek/quizbook/internal/ui/layout"
	"github.com/abhisek/quizbook/internal/ui/theme"
)

// ResultScreen thanks the learner and shows the score.
type ResultScreen struct {
	message string
	menu    components.Menu
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// NewResult creates the result screen for a completed session.
func NewResult(s *quiz.Session, rs *results.Store) *ResultScreen {
	return &ResultScreen{
		message: Message(s),
		menu: components.NewButtonRow([]components.MenuItem{
			{Label: "View result", Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: history.New(rs)}
				}
			}},
			{Label: "Home", Action: func() tea.Cmd {
				return func() tea.Msg { return router.PopToRootMsg{} }
			}},
		}),
	}
}

// Message formats the closing line for a completed session.
func Message(s *quiz.Session) string {
	rec, ok := s.Record()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Thank you, %s! You scored %d out of %d.", rec.Name, rec.Score, s.Total())
}

func (r *ResultScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultScreen) Title() string {
	return "Result"
}

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	r.menu, cmd = r.menu.Update(msg)
	return r, cmd
}

func (r *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	body := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(r.message),
		"",
		r.menu.View(),
	}, "\n")

	return components.Frame(components.ScoreCard(body, cw), width, height)
}
