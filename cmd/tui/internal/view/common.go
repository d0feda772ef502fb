package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen is a view the menu can switch to.
type Screen interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel tracks the terminal size for the embedding view.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) resize(msg tea.WindowSizeMsg) {
	c.Width, c.Height = msg.Width, msg.Height
}

// BackMsg returns control to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Background(lipgloss.Color("57")).
	Padding(0, 1)

// Frame renders s under its title bar.
func Frame(s Screen) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingLeft(1).Render(titleStyle.Render(s.Title())),
		s.View(),
	)
}
