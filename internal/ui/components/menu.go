package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Hint is shown dimmed after the label.
type MenuItem struct {
	Label  string
	Hint   string
	Action func() tea.Cmd
}

// Text returns the label with its hint, as shown in a vertical menu.
func (i MenuItem) Text() string {
	if i.Hint == "" {
		return i.Label
	}
	return i.Label + " · " + i.Hint
}

// Menu is a list of actions. The selection wraps at both ends. A horizontal
// menu is drawn as a row of buttons and moves with left/right and tab.
type Menu struct {
	Items      []MenuItem
	Selected   int
	Horizontal bool
}

// NewMenu creates a vertical menu.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// NewButtonRow creates a horizontal menu.
func NewButtonRow(items []MenuItem) Menu {
	return Menu{Items: items, Horizontal: true}
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// Update moves the selection and runs the selected action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	prev, next := "up", "down"
	if m.Horizontal {
		prev, next = "left", "right"
	}

	switch key := kmsg.String(); key {
	case prev, "k", "h", "shift+tab":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case next, "j", "l", "tab":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "enter":
		if a := m.Items[m.Selected].Action; a != nil {
			return m, a()
		}
	}
	return m, nil
}

// View renders the menu as lines or, when horizontal, as buttons.
func (m Menu) View() string {
	if m.Horizontal {
		buttons := make([]string, len(m.Items))
		for i, item := range m.Items {
			buttons[i] = button(item.Label, i == m.Selected)
		}
		return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
	}

	var b strings.Builder
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("▸ " + item.Label))
		} else {
			b.WriteString(theme.Unselected.Render("  " + item.Label))
		}
		if item.Hint != "" {
			b.WriteString(theme.Hint.Render("  " + item.Hint))
		}
		b.WriteString("\n")
	}
	return b.String()
}

const buttonWidth = 18

func button(label string, selected bool) string {
	style := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
}
