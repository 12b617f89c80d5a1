package profile

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

// CloseMsg is sent when the user leaves the profile view.
type CloseMsg struct{}

// loadedMsg carries the fetched profile.
type loadedMsg struct {
	Profile *model.Profile
	Err     error
}

// savedMsg reports the outcome of a profile update.
type savedMsg struct {
	Err error
}

// passwordChangedMsg reports the outcome of a password change.
type passwordChangedMsg struct {
	Err error
}

type mode int

const (
	modeLoading mode = iota
	modeEdit
	modePassword
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name             string
	email            string
	phone            string
	emergencyContact string
	address          string

	currentPassword string
	newPassword     string
	confirmPassword string
}

// Model is the profile edit view: fetch, edit via form, save.
type Model struct {
	svc     api.ProfileService
	mode    mode
	form    *huh.Form
	fb      *formBindings
	profile model.Profile
	width   int
	height  int
}

// New creates a new profile view model.
func New(svc api.ProfileService, width, height int) Model {
	return Model{
		svc:    svc,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init fetches the profile from the backend.
func (m Model) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		p, err := svc.GetProfile(context.Background())
		return loadedMsg{Profile: p, Err: err}
	}
}

// StartPasswordChange switches to the password change form.
func (m *Model) StartPasswordChange() tea.Cmd {
	m.mode = modePassword
	m.fb.currentPassword = ""
	m.fb.newPassword = ""
	m.fb.confirmPassword = ""
	m.form = m.buildPasswordForm()
	return m.form.Init()
}

// Update handles messages for the profile view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			return m, tea.Batch(
				ui.Notice("Could not load profile"),
				func() tea.Msg { return CloseMsg{} },
			)
		}
		m.profile = *msg.Profile
		m.mode = modeEdit
		m.fb.name = m.profile.Name
		m.fb.email = m.profile.Email
		m.fb.phone = m.profile.Phone
		m.fb.emergencyContact = m.profile.EmergencyContact
		m.fb.address = m.profile.Address
		m.form = m.buildEditForm()
		return m, m.form.Init()

	case savedMsg:
		if msg.Err != nil {
			// The form is gone by now; reopen it with the attempted
			// values so the user can retry.
			m.form = m.buildEditForm()
			return m, tea.Batch(ui.Notice("Could not save profile"), m.form.Init())
		}
		return m, func() tea.Msg { return CloseMsg{} }

	case passwordChangedMsg:
		if msg.Err != nil {
			m.form = m.buildPasswordForm()
			return m, tea.Batch(ui.Notice("Could not change password"), m.form.Init())
		}
		return m, func() tea.Msg { return CloseMsg{} }
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, cmd
}

// View renders the profile view.
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
			Render("Loading profile...")

	case modePassword:
		content := titleStyle.Render("Change Password") + "\n" + m.form.View()
		return lipgloss.NewStyle().Padding(1, 2).Render(content)

	default:
		header := titleStyle.Render("My Profile")
		room := theme.HelpStyle.Render("Room: " + displayRoom(m.profile.RoomNumber))
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, header, room, "", m.form.View()))
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildEditForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Value(&m.fb.name).
			Validate(validateRequired("Name")),
		huh.NewInput().
			Title("Email").
			Value(&m.fb.email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Phone").
			Value(&m.fb.phone),
		huh.NewInput().
			Title("Emergency contact").
			Value(&m.fb.emergencyContact),
		huh.NewText().
			Title("Address").
			Value(&m.fb.address),
	)).WithWidth(m.formWidth())
}

func (m *Model) buildPasswordForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Current password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.currentPassword).
			Validate(validateRequired("Current password")),
		huh.NewInput().
			Title("New password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.newPassword).
			Validate(validatePassword),
		huh.NewInput().
			Title("Confirm new password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.confirmPassword).
			Validate(func(s string) error {
				if s != m.fb.newPassword {
					return fmt.Errorf("passwords do not match")
				}
				return nil
			}),
	)).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	svc := m.svc

	if m.mode == modePassword {
		change := model.PasswordChange{
			CurrentPassword: m.fb.currentPassword,
			NewPassword:     m.fb.newPassword,
		}
		return func() tea.Msg {
			return passwordChangedMsg{Err: svc.ChangePassword(context.Background(), change)}
		}
	}

	updated := m.profile
	updated.Name = strings.TrimSpace(m.fb.name)
	updated.Email = strings.TrimSpace(m.fb.email)
	updated.Phone = strings.TrimSpace(m.fb.phone)
	updated.EmergencyContact = strings.TrimSpace(m.fb.emergencyContact)
	updated.Address = strings.TrimSpace(m.fb.address)

	return func() tea.Msg {
		return savedMsg{Err: svc.UpdateProfile(context.Background(), updated)}
	}
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

func displayRoom(room string) string {
	if room == "" {
		return "not allocated"
	}
	return room
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
