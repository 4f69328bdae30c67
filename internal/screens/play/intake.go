// Package play holds the screens of one quiz attempt: the intake form, the
// question pages and the result message. They share a single quiz.Session
// and hand it to each other with router.ReplaceScreenMsg.
package play

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/quiz"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/router"
	"github.com/abhisek/quizbook/internal/screen"
	"github.com/abhisek/quizbook/internal/ui/components"
	"github.com/abhisek/quizbook/internal/ui/layout"
	"github.com/abhisek/quizbook/internal/ui/theme"
)

const (
	fieldName = iota
	fieldGender
)

// IntakeScreen collects the learner's name and gender.
type IntakeScreen struct {
	session *quiz.Session
	results *results.Store
	name    components.TextInput
	genders []quiz.Gender
	gender  int
	focus   int
	errMsg  string
}

var _ screen.Screen = (*IntakeScreen)(nil)
var _ screen.KeyHintProvider = (*IntakeScreen)(nil)

// NewIntake creates the intake form for s.
func NewIntake(s *quiz.Session, rs *results.Store) *IntakeScreen {
	return &IntakeScreen{
		session: s,
		results: rs,
		name:    components.NewTextInput("Your name", 40),
		genders: quiz.Genders(),
	}
}

func (i *IntakeScreen) Init() tea.Cmd {
	return i.name.Init()
}

func (i *IntakeScreen) Title() string {
	return i.session.Title()
}

func (i *IntakeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Gender"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (i *IntakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		i.name, cmd = i.name.Update(msg)
		return i, cmd
	}

	switch kmsg.String() {
	case "enter":
		return i, i.start()
	case "tab", "shift+tab", "down", "up":
		i.toggleFocus()
		return i, nil
	}

	if i.focus == fieldGender {
		switch kmsg.String() {
		case "left", "h":
			i.gender = (i.gender + len(i.genders) - 1) % len(i.genders)
		case "right", "l", "space", " ":
			i.gender = (i.gender + 1) % len(i.genders)
		}
		return i, nil
	}

	i.errMsg = ""
	var cmd tea.Cmd
	i.name, cmd = i.name.Update(msg)
	return i, cmd
}

func (i *IntakeScreen) toggleFocus() {
	if i.focus == fieldName {
		i.focus = fieldGender
		i.name.Model.Blur()
		return
	}
	i.focus = fieldName
	i.name.Model.Focus()
}

func (i *IntakeScreen) start() tea.Cmd {
	err := i.session.Start(quiz.Profile{
		Name:   i.name.Value(),
		Gender: i.genders[i.gender],
	})

	var verr *quiz.ValidationError
	switch {
	case errors.As(err, &verr):
		i.name.SetError(verr.Message)
		if i.focus != fieldName {
			i.toggleFocus()
		}
		return nil
	case err != nil:
		i.errMsg = "This quiz cannot be started: " + err.Error()
		return nil
	}

	next := NewQuestion(i.session, i.results)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (i *IntakeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	focused := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)

	nameLabel, genderLabel := label, label
	if i.focus == fieldName {
		nameLabel = focused
	} else {
		genderLabel = focused
	}

	var genders []string
	for n, g := range i.genders {
		if n == i.gender {
			genders = append(genders, theme.Chosen.Render("(•) "+string(g)))
		} else {
			genders = append(genders, theme.Unselected.Render("( ) "+string(g)))
		}
	}

	lines := []string{
		theme.Title.Render(i.session.Title()),
		theme.Subtitle.Render(i.session.Grade()),
		"",
		nameLabel.Render("Name"),
		i.name.View(),
		"",
		genderLabel.Render("Gender"),
		strings.Join(genders, "   "),
	}
	if i.errMsg != "" {
		lines = append(lines, "", theme.Warning.Render(i.errMsg))
	}

	card := components.Card(strings.Join(lines, "\n"), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
