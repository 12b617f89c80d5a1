package detail

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hosteldesk/hosteldesk/internal/model"
	"github.com/hosteldesk/hosteldesk/internal/theme"
)

// BackMsg is sent when the user leaves the detail view.
type BackMsg struct{}

// Model is the full-notification detail view.
type Model struct {
	notification model.Notification
	width        int
	height       int
}

// New creates a new detail view model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetNotification sets the notification shown in the view.
func (m *Model) SetNotification(n model.Notification) {
	m.notification = n
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

// View renders the notification in full.
func (m Model) View() string {
	n := m.notification

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	badges := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.PriorityStyle(n.Priority).Padding(0, 1).Render(string(n.Priority)),
		theme.TypeStyle(n.Type).Render(theme.TypeLabel(n.Type)),
	)

	meta := theme.HelpStyle.Render(n.CreatedAt.Format("Mon, 02 Jan 2006 15:04"))

	body := lipgloss.NewStyle().
		Width(m.width - 8).
		Render(n.Message)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(n.Title),
		badges,
		meta,
		"",
		body,
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
