package play

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/quiz"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/router"
	"github.com/abhisek/quizbook/internal/screen"
	"github.com/abhisek/quizbook/internal/ui/components"
	"github.com/abhisek/quizbook/internal/ui/layout"
	"github.com/abhisek/quizbook/internal/ui/theme"
)

// SelectFirstWarning is shown when Enter is pressed with nothing selected.
const SelectFirstWarning = "Please select an option before proceeding!"

// QuestionScreen shows the current question of an in-progress session.
type QuestionScreen struct {
	session *quiz.Session
	results *results.Store
	view    quiz.QuestionView
	choices components.ChoiceList
	warning string
	errMsg  string
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionScreen)(nil)

// NewQuestion creates the question screen for a started session.
func NewQuestion(s *quiz.Session, rs *results.Store) *QuestionScreen {
	q := &QuestionScreen{session: s, results: rs}
	q.refresh()
	return q
}

// refresh pulls a freshly shuffled view of the current question.
func (q *QuestionScreen) refresh() {
	view, err := q.session.CurrentQuestionView()
	if err != nil {
		q.errMsg = err.Error()
		return
	}
	q.view = view
	q.choices = components.NewChoiceList(view.Choices, view.SelectedIndex)
	q.choices.Tag = view.Number
	q.warning = ""
}

func (q *QuestionScreen) Init() tea.Cmd {
	return nil
}

func (q *QuestionScreen) Title() string {
	return q.session.Title()
}

func (q *QuestionScreen) KeyHints() []layout.KeyHint {
	next := "Next"
	if q.view.IsLast {
		next = "Submit"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Select"},
		{Key: "Enter", Description: next},
		{Key: "←/p", Description: "Previous"},
		{Key: "→/n", Description: "Skip"},
		{Key: "Esc", Description: "Home"},
	}
}

func (q *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ChoicePickedMsg:
		// A pick that arrives after navigation belongs to another question.
		if msg.Tag != q.view.Number {
			return q, nil
		}
		if err := q.session.SelectAnswer(msg.Text); err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		q.choices.Chosen = msg.Index
		q.warning = ""
		return q, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if q.choices.Chosen < 0 {
				q.warning = SelectFirstWarning
				return q, nil
			}
			return q, q.advance()
		case "right", "n":
			return q, q.advance()
		case "left", "p":
			return q, q.retreat()
		}
	}

	var cmd tea.Cmd
	q.choices, cmd = q.choices.Update(msg)
	return q, cmd
}

func (q *QuestionScreen) advance() tea.Cmd {
	phase, err := q.session.Advance(context.Background())
	if err != nil {
		config.WithContext(config.WithSession(context.Background(), q.session.ID())).
			WithError(err).Warn("advance failed")
		q.errMsg = "Could not save your result: " + err.Error()
		return nil
	}
	if phase == quiz.PhaseCompleted {
		next := NewResult(q.session, q.results)
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
	q.errMsg = ""
	q.refresh()
	return nil
}

func (q *QuestionScreen) retreat() tea.Cmd {
	if q.session.Retreat() == quiz.PhaseIntake {
		next := NewIntake(q.session, q.results)
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
	q.errMsg = ""
	q.refresh()
	return nil
}

func (q *QuestionScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	lines = append(lines, components.NewProgressBar(q.view.Number, q.view.Total, cw-6).View(), "")
	lines = append(lines, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(cw-6).
		Render(q.view.Prompt))
	if q.view.Image != "" {
		lines = append(lines, theme.Hint.Render("[image: "+q.view.Image+"]"))
	}
	lines = append(lines, "", q.choices.View())

	if q.warning != "" {
		lines = append(lines, theme.Warning.Render(q.warning))
	}
	if q.errMsg != "" {
		lines = append(lines, theme.Warning.Render(q.errMsg))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
