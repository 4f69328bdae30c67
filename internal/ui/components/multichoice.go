package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/ui/theme"
)

// ChoicePickedMsg is emitted when the user picks an option. Tag is copied
// from the list that produced it.
type ChoicePickedMsg struct {
	Tag   int
	Index int
	Text  string
}

// ChoiceList is a radio-style option list. It only reports picks; the owner
// decides what a pick means and tells the list which option is chosen.
type ChoiceList struct {
	Options []string
	Cursor  int
	Chosen  int // -1 when nothing is chosen
	Tag     int // lets the owner drop picks from a list it has replaced
}

// NewChoiceList creates a list with the cursor on the chosen option, or on
// the first one when chosen is -1.
func NewChoiceList(options []string, chosen int) ChoiceList {
	cursor := chosen
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	return ChoiceList{Options: options, Cursor: cursor, Chosen: chosen}
}

// Init returns nil.
func (c ChoiceList) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and emits ChoicePickedMsg on space or a digit key.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.Options) == 0 {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
		return c, nil
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
		return c, nil
	case "space", " ":
		return c, c.pick(c.Cursor)
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(c.Options) {
		c.Cursor = n - 1
		return c, c.pick(n - 1)
	}
	return c, nil
}

func (c ChoiceList) pick(i int) tea.Cmd {
	text, tag := c.Options[i], c.Tag
	return func() tea.Msg {
		return ChoicePickedMsg{Tag: tag, Index: i, Text: text}
	}
}

// View renders the options with radio markers.
func (c ChoiceList) View() string {
	var s string
	for i, opt := range c.Options {
		cursor := "  "
		if i == c.Cursor {
			cursor = "▸ "
		}
		radio := "( )"
		if i == c.Chosen {
			radio = "(•)"
		}
		line := fmt.Sprintf("%s%d. %s %s", cursor, i+1, radio, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == c.Chosen:
			style = theme.Chosen
		case i == c.Cursor:
			style = theme.Selected
		}
		s += style.Render(line) + "\n"
	}
	return s
}
