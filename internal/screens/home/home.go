package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/digest"
	"github.com/abhisek/quizbook/internal/quiz"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/router"
	"github.com/abhisek/quizbook/internal/screen"
	"github.com/abhisek/quizbook/internal/screens/history"
	"github.com/abhisek/quizbook/internal/screens/play"
	"github.com/abhisek/quizbook/internal/ui/components"
	"github.com/abhisek/quizbook/internal/ui/layout"
)

// Options wires the home screen to the rest of the app.
type Options struct {
	Catalog  *bank.Catalog
	Digester digest.Digester
	Results  *results.Store
	Events   quiz.EventRecorder
	// Grade overrides the grade label of every quiz started from here.
	Grade string
	// Autostart opens the intake form for this bank id on first Init.
	Autostart string
}

type countLoadedMsg struct {
	Count int
	Err   error
}

type loadFailedMsg struct {
	Err error
}

// HomeScreen lists the available quizzes plus history and quit.
type HomeScreen struct {
	opts       Options
	menu       components.Menu
	menuLabels []string
	bankCount  int
	saved      int
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts}

	var items []components.MenuItem
	for _, info := range opts.Catalog.List() {
		info := info
		items = append(items, components.MenuItem{
			Label:  info.Title,
			Hint:   bankHint(info, opts.Grade),
			Action: func() tea.Cmd { return h.startQuiz(info.ID) },
		})
	}
	h.bankCount = len(items)

	items = append(items,
		components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(opts.Results)}
			}
		}},
		components.MenuItem{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	h.menu = components.NewMenu(items)
	for _, item := range items {
		h.menuLabels = append(h.menuLabels, item.Text())
	}
	return h
}

func bankHint(info bank.Info, override string) string {
	grade := override
	if grade == "" {
		grade = info.Grade
	}
	if grade == "" {
		grade = bank.DetectGrade(info.ID)
	}
	return fmt.Sprintf("%s · %d Qs", grade, info.QuestionCount)
}

// startQuiz loads the bank, builds a fresh session and opens the intake form.
func (h *HomeScreen) startQuiz(id string) tea.Cmd {
	opts := h.opts
	return func() tea.Msg {
		ctx := config.WithBank(context.Background(), id)
		b, err := opts.Catalog.Load(ctx, id, opts.Digester)
		if err != nil {
			config.WithContext(ctx).WithError(err).Warn("load bank")
			return loadFailedMsg{Err: err}
		}

		qopts := quiz.Options{
			Grade:  bank.ResolveGrade(opts.Grade, b),
			Events: opts.Events,
		}
		if opts.Results != nil {
			qopts.Recorder = opts.Results
		}
		s, err := quiz.NewSession(b, opts.Digester, qopts)
		if err != nil {
			return loadFailedMsg{Err: err}
		}
		return router.PushScreenMsg{Screen: play.NewIntake(s, opts.Results)}
	}
}

// Init refreshes the saved result count; it runs again whenever the app
// returns home.
func (h *HomeScreen) Init() tea.Cmd {
	var cmds []tea.Cmd
	if rs := h.opts.Results; rs != nil {
		cmds = append(cmds, func() tea.Msg {
			n, err := rs.Count(context.Background())
			return countLoadedMsg{Count: n, Err: err}
		})
	}
	if id := h.opts.Autostart; id != "" {
		h.opts.Autostart = ""
		cmds = append(cmds, h.startQuiz(id))
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case countLoadedMsg:
		if msg.Err == nil {
			h.saved = msg.Count
		}
		return h, nil
	case loadFailedMsg:
		h.errMsg = msg.Err.Error()
		return h, nil
	case tea.KeyPressMsg:
		h.errMsg = ""
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.bankCount, h.saved, cw),
	}
	if h.errMsg != "" {
		sections = append(sections, renderError(h.errMsg, cw))
	}
	if compact || len(h.menuLabels) > 5 {
		sections = append(sections, renderArcadeMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
