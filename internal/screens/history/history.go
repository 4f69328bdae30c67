package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/screen"
	"github.com/abhisek/quizbook/internal/ui/layout"
	"github.com/abhisek/quizbook/internal/ui/theme"
)

type historyLoadedMsg struct {
	Rows []results.Row
	Err  error
}

type rowDeletedMsg struct {
	Index   int
	Deleted bool
	Err     error
}

// HistoryScreen shows saved quiz results. F4 reveals the delete column.
type HistoryScreen struct {
	results  *results.Store
	rows     []results.Row
	selected int
	admin    bool
	confirm  bool
	loaded   bool
	errMsg   string
	status   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(rs *results.Store) *HistoryScreen {
	return &HistoryScreen{results: rs}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	rs := s.results
	return func() tea.Msg {
		if rs == nil {
			return historyLoadedMsg{}
		}
		rows, err := rs.View(context.Background())
		return historyLoadedMsg{Rows: rows, Err: err}
	}
}

func (s *HistoryScreen) deleteSelected() tea.Cmd {
	rs := s.results
	index := s.rows[s.selected].Index
	return func() tea.Msg {
		ok, err := rs.DeleteAt(context.Background(), index)
		return rowDeletedMsg{Index: index, Deleted: ok, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "F4", Description: "Admin"},
	}
	if s.admin {
		hints = append(hints, layout.KeyHint{Key: "d", Description: "Delete"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Admin reports whether the delete column is visible.
func (s *HistoryScreen) Admin() bool {
	return s.admin
}

// Rows returns the rows currently displayed.
func (s *HistoryScreen) Rows() []results.Row {
	return s.rows
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.rows = msg.Rows
		if s.selected >= len(s.rows) {
			s.selected = max(len(s.rows)-1, 0)
		}
		return s, nil

	case rowDeletedMsg:
		switch {
		case msg.Err != nil:
			s.errMsg = msg.Err.Error()
		case msg.Deleted:
			s.status = fmt.Sprintf("Deleted result #%d", msg.Index+1)
		}
		return s, s.load()

	case tea.KeyPressMsg:
		if s.confirm {
			s.confirm = false
			if msg.String() == "y" || msg.String() == "Y" {
				return s, s.deleteSelected()
			}
			s.status = ""
			return s, nil
		}

		switch msg.String() {
		case "f4":
			s.admin = !s.admin
			s.status = ""
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
		case "d", "delete":
			if s.admin && len(s.rows) > 0 {
				s.confirm = true
				s.status = fmt.Sprintf("Delete result #%d? (y/n)", s.rows[s.selected].Index+1)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	if s.errMsg != "" {
		return center(lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading results...")
	}
	if len(s.rows) == 0 {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"\n\n  No results yet. Take a quiz!")
	}

	headers := []string{"#", "Name", "Gender", "Grade", "Score"}
	if s.admin {
		headers = append(headers, "Delete")
	}

	var rows [][]string
	for i, r := range s.rows {
		row := []string{strconv.Itoa(r.Index + 1), r.Name, r.Gender, r.Grade, r.Score}
		if s.admin {
			mark := "[ ]"
			if i == s.selected {
				mark = "[d]"
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.TableHeader
			case row == s.selected:
				return theme.TableCell.Foreground(theme.Primary).Bold(true)
			default:
				return theme.TableCell
			}
		})

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, t.String()))
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent), s.status))
	}
	return b.String()
}
