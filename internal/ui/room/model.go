package room

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hosteldesk/hosteldesk/internal/api"
	"github.com/hosteldesk/hosteldesk/internal/model"
	"github.com/hosteldesk/hosteldesk/internal/theme"
	"github.com/hosteldesk/hosteldesk/internal/ui"
)

// CloseMsg is sent when the user leaves the room view.
type CloseMsg struct{}

// loadedMsg carries the fetched room detail.
type loadedMsg struct {
	Room *model.Room
	Err  error
}

// Model is the read-only room detail view.
type Model struct {
	svc     api.RoomService
	room    model.Room
	loaded  bool
	loading bool
	width   int
	height  int
}

// New creates a new room view model.
func New(svc api.RoomService, width, height int) Model {
	return Model{svc: svc, width: width, height: height}
}

// Init fetches the room detail from the backend.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		r, err := svc.GetMyRoom(context.Background())
		return loadedMsg{Room: r, Err: err}
	}
}

// Update handles messages for the room view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, tea.Batch(
				ui.Notice("Could not load room details"),
				func() tea.Msg { return CloseMsg{} },
			)
		}
		m.room = *msg.Room
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }
		case "r":
			m.loading = true
			return m, m.load()
		}
	}

	return m, nil
}

// View renders the room detail panel.
func (m Model) View() string {
	if !m.loaded || m.loading {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(theme.ColorGray).
			Render("Loading room details...")
	}

	r := m.room

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	labelStyle := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Width(12)

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			labelStyle.Render(label),
			value,
		)
	}

	var occupants []string
	for _, o := range r.Occupants {
		occupants = append(occupants, fmt.Sprintf("• %s (%s)", o.Name, o.Email))
	}
	occupantBlock := "none"
	if len(occupants) > 0 {
		occupantBlock = strings.Join(occupants, "\n")
	}

	amenities := "none listed"
	if len(r.Amenities) > 0 {
		amenities = strings.Join(r.Amenities, ", ")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Room "+r.Number),
		"",
		row("Block", r.Block),
		row("Floor", fmt.Sprintf("%d", r.Floor)),
		row("Capacity", fmt.Sprintf("%d beds (%d occupied)", r.Capacity, len(r.Occupants))),
		row("Fee", fmt.Sprintf("%.2f / month", r.MonthlyFee)),
		row("Amenities", amenities),
		"",
		titleStyle.Render("Occupants"),
		occupantBlock,
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
