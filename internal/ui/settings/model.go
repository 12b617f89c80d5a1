package settings

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hosteldesk/hosteldesk/internal/api"
	"github.com/hosteldesk/hosteldesk/internal/model"
	"github.com/hosteldesk/hosteldesk/internal/theme"
	"github.com/hosteldesk/hosteldesk/internal/ui"
)

// CloseMsg is sent when the user leaves the settings view.
type CloseMsg struct{}

// loadedMsg carries the fetched settings.
type loadedMsg struct {
	Settings *model.Settings
	Err      error
}

// savedMsg reports the outcome of a settings update.
type savedMsg struct {
	Err error
}

// actionDoneMsg reports the outcome of a backup or reset request.
type actionDoneMsg struct {
	action string
	Err    error
}

type mode int

const (
	modeLoading mode = iota
	modeEdit
	modeConfirm
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	hostelName       string
	contactEmail     string
	allowRoomChanges bool
	maintenanceMode  bool
	feeDueDay        int

	confirmApproved bool
	confirmAction   string
}

// Model is the administrative settings view: edit form plus the
// backup and reset maintenance actions, both behind confirmations.
type Model struct {
	svc      api.SettingsService
	mode     mode
	form     *huh.Form
	fb       *formBindings
	settings model.Settings
	width    int
	height   int
}

// New creates a new settings view model.
func New(svc api.SettingsService, width, height int) Model {
	return Model{
		svc:    svc,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init fetches the settings from the backend.
func (m Model) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		s, err := svc.GetSettings(context.Background())
		return loadedMsg{Settings: s, Err: err}
	}
}

// Update handles messages for the settings view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			return m, tea.Batch(
				ui.Notice("Could not load settings"),
				func() tea.Msg { return CloseMsg{} },
			)
		}
		m.settings = *msg.Settings
		m.mode = modeEdit
		m.fb.hostelName = m.settings.HostelName
		m.fb.contactEmail = m.settings.ContactEmail
		m.fb.allowRoomChanges = m.settings.AllowRoomChangeRequests
		m.fb.maintenanceMode = m.settings.MaintenanceMode
		m.fb.feeDueDay = m.settings.FeeDueDay
		m.form = m.buildEditForm()
		return m, m.form.Init()

	case savedMsg:
		if msg.Err != nil {
			m.form = m.buildEditForm()
			return m, tea.Batch(ui.Notice("Could not save settings"), m.form.Init())
		}
		return m, func() tea.Msg { return CloseMsg{} }

	case actionDoneMsg:
		m.mode = modeEdit
		m.form = m.buildEditForm()
		cmds := []tea.Cmd{m.form.Init()}
		switch {
		case msg.Err != nil:
			cmds = append(cmds, ui.Notice(fmt.Sprintf("Could not %s", msg.action)))
		case msg.action == "reset settings":
			// Defaults were restored server-side; reload them.
			m.mode = modeLoading
			m.form = nil
			return m, m.Init()
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.mode == modeEdit {
			switch msg.String() {
			case "ctrl+b":
				return m.openConfirm("back up data")
			case "ctrl+r":
				return m.openConfirm("reset settings")
			}
		}
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		if m.mode == modeConfirm {
			m.mode = modeEdit
			m.form = m.buildEditForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, cmd
}

// openConfirm swaps the edit form for a confirmation prompt guarding a
// destructive maintenance action.
func (m Model) openConfirm(action string) (Model, tea.Cmd) {
	m.mode = modeConfirm
	m.fb.confirmApproved = false
	m.fb.confirmAction = action
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Really %s?", action)).
			Affirmative("Yes").
			Negative("Cancel").
			Value(&m.fb.confirmApproved),
	)).WithWidth(m.formWidth())
	return m, m.form.Init()
}

func (m Model) handleSubmit() (Model, tea.Cmd) {
	svc := m.svc

	if m.mode == modeConfirm {
		approved := m.fb.confirmApproved
		action := m.fb.confirmAction
		if !approved {
			m.mode = modeEdit
			m.form = m.buildEditForm()
			return m, m.form.Init()
		}
		m.form = nil
		return m, func() tea.Msg {
			var err error
			if action == "back up data" {
				err = svc.BackupData(context.Background())
			} else {
				err = svc.ResetSettings(context.Background())
			}
			return actionDoneMsg{action: action, Err: err}
		}
	}

	updated := m.settings
	updated.HostelName = strings.TrimSpace(m.fb.hostelName)
	updated.ContactEmail = strings.TrimSpace(m.fb.contactEmail)
	updated.AllowRoomChangeRequests = m.fb.allowRoomChanges
	updated.MaintenanceMode = m.fb.maintenanceMode
	updated.FeeDueDay = m.fb.feeDueDay

	m.form = nil
	return m, func() tea.Msg {
		return savedMsg{Err: svc.UpdateSettings(context.Background(), updated)}
	}
}

// View renders the settings view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	switch m.mode {
	case modeLoading:
		return lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(theme.ColorGray).
			Render("Loading settings...")

	case modeConfirm:
		return theme.DangerPanelStyle.
			Width(m.width - 4).
			Render(m.form.View())

	default:
		header := titleStyle.Render("Hostel Settings")
		hint := theme.HelpStyle.Render("ctrl+b backup data · ctrl+r reset to defaults")
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, header, hint, "", m.form.View()))
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildEditForm() *huh.Form {
	dayOpts := make([]huh.Option[int], 0, 28)
	for day := 1; day <= 28; day++ {
		dayOpts = append(dayOpts, huh.NewOption(fmt.Sprintf("%d", day), day))
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Hostel name").
			Value(&m.fb.hostelName).
			Validate(validateRequired("Hostel name")),
		huh.NewInput().
			Title("Contact email").
			Value(&m.fb.contactEmail),
		huh.NewConfirm().
			Title("Allow room change requests").
			Affirmative("Yes").
			Negative("No").
			Value(&m.fb.allowRoomChanges),
		huh.NewConfirm().
			Title("Maintenance mode").
			Affirmative("On").
			Negative("Off").
			Value(&m.fb.maintenanceMode),
		huh.NewSelect[int]().
			Title("Fee due day").
			Options(dayOpts...).
			Value(&m.fb.feeDueDay),
	)).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
