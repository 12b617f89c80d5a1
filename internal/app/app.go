package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hosteldesk/hosteldesk/internal/api"
	"github.com/hosteldesk/hosteldesk/internal/keys"
	"github.com/hosteldesk/hosteldesk/internal/model"
	"github.com/hosteldesk/hosteldesk/internal/poll"
	"github.com/hosteldesk/hosteldesk/internal/ui"
	"github.com/hosteldesk/hosteldesk/internal/ui/command"
	"github.com/hosteldesk/hosteldesk/internal/ui/detail"
	helpview "github.com/hosteldesk/hosteldesk/internal/ui/help"
	"github.com/hosteldesk/hosteldesk/internal/ui/notifcenter"
	profileview "github.com/hosteldesk/hosteldesk/internal/ui/profile"
	roomview "github.com/hosteldesk/hosteldesk/internal/ui/room"
	settingsview "github.com/hosteldesk/hosteldesk/internal/ui/settings"
)

// noticeExpiredMsg clears a transient status bar notice. The seq field
// ties it to the notice that scheduled it so a newer notice is not
// dismissed by an older timer.
type noticeExpiredMsg struct {
	seq int
}

// noticeDuration is how long a transient notice stays on screen.
const noticeDuration = 4 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewNotifications ViewState = iota
	ViewDetail
	ViewProfile
	ViewRoom
	ViewSettings
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing, the
// shared layout, and the background unread-count poller.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	client       *api.Client
	keys         *keys.KeyMap
	logger       *zap.Logger

	notifCenter  notifcenter.Model
	detailView   detail.Model
	profileView  profileview.Model
	roomView     roomview.Model
	settingsView settingsview.Model
	helpView     helpview.Model
	commandView  command.Model

	poller      *poll.Poller
	ready       bool
	unreadCount int

	notice    string
	noticeSeq int
}

// New creates a new root application model backed by the given client.
func New(client *api.Client, cfg *model.AppConfig, logger *zap.Logger) Model {
	k := keys.DefaultKeyMap()

	pageSize := cfg.Notifications.PageSize
	debounce := time.Duration(cfg.Notifications.DebounceMs) * time.Millisecond
	pollInterval := time.Duration(cfg.Notifications.PollIntervalSec) * time.Second

	return Model{
		currentView:  ViewNotifications,
		client:       client,
		keys:         k,
		logger:       logger,
		notifCenter:  notifcenter.New(client, k, pageSize, debounce, 80, 24),
		detailView:   detail.New(80, 24),
		profileView:  profileview.New(client, 80, 24),
		roomView:     roomview.New(client, 80, 24),
		settingsView: settingsview.New(client, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		poller:       poll.New(client, pollInterval, logger),
	}
}

// Init kicks off the first notification fetch and the unread poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.notifCenter.Init(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.notifCenter.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.profileView.SetSize(contentWidth, contentHeight)
		m.roomView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case poll.UnreadCountMsg:
		if msg.Err == nil {
			m.unreadCount = msg.Count
		}
		return m, m.poller.WaitForNextResult()

	case ui.NoticeMsg:
		m.notice = msg.Text
		m.noticeSeq++
		seq := m.noticeSeq
		return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
			return noticeExpiredMsg{seq: seq}
		})

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case notifcenter.OpenNotificationMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetNotification(msg.Notification)
		// Opening a notification marks it read on the server; the list
		// updates its local copy when the call comes back.
		if msg.Notification.IsRead {
			return m, nil
		}
		return m, m.notifCenter.MarkRead(msg.Notification.ID)

	case notifcenter.MarkedReadMsg:
		// Delivered here when the detail view is active; the list still
		// owns the read-state bookkeeping.
		var cmd tea.Cmd
		m.notifCenter, cmd = m.notifCenter.Update(msg)
		if msg.Err == nil {
			m.poller.Refresh()
		}
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewNotifications
		return m, nil

	case profileview.CloseMsg:
		m.currentView = ViewNotifications
		return m, nil

	case roomview.CloseMsg:
		m.currentView = ViewNotifications
		return m, nil

	case settingsview.CloseMsg:
		m.currentView = ViewNotifications
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the active
// view. It reports false when the key should fall through, so views
// with focused text inputs keep their keystrokes.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// Never steal keys from focused forms or inputs.
	typing := m.currentView == ViewCommand ||
		m.currentView == ViewProfile ||
		m.currentView == ViewSettings

	switch msg.String() {
	case "ctrl+c":
		m.teardown()
		return tea.Quit, true

	case "q":
		if m.currentView == ViewNotifications {
			m.teardown()
			return tea.Quit, true
		}

	case "?":
		if typing {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case ":":
		if typing {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case "P":
		if m.currentView == ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewProfile
			return m.profileView.Init(), true
		}

	case "R":
		if m.currentView == ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewRoom
			return m.roomView.Init(), true
		}

	case "S":
		if m.currentView == ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewSettings
			return m.settingsView.Init(), true
		}
	}

	return nil, false
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "all":
		return m.notifCenter.SetFilter(model.FilterAll)
	case "unread":
		return m.notifCenter.SetFilter(model.FilterUnread)
	case "read":
		return m.notifCenter.SetFilter(model.FilterRead)
	case "clear", "clear filters":
		return m.notifCenter.ClearFilters()
	case "refresh", "reload":
		m.poller.Refresh()
		return m.notifCenter.Refresh()
	case "stats":
		m.notifCenter.ToggleStats()
		return nil
	case "profile":
		m.previousView = m.currentView
		m.currentView = ViewProfile
		return m.profileView.Init()
	case "password", "change password":
		m.previousView = m.currentView
		m.currentView = ViewProfile
		return m.profileView.StartPasswordChange()
	case "room":
		m.previousView = m.currentView
		m.currentView = ViewRoom
		return m.roomView.Init()
	case "settings":
		m.previousView = m.currentView
		m.currentView = ViewSettings
		return m.settingsView.Init()
	case "quit", "q":
		m.teardown()
		return tea.Quit
	default:
		return ui.Notice(fmt.Sprintf("Unknown command: %s", cmd))
	}
}

// teardown stops the background poller and cancels in-flight fetches.
func (m *Model) teardown() {
	m.poller.Stop()
	m.notifCenter.Teardown()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewNotifications:
		m.notifCenter, cmd = m.notifCenter.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewRoom:
		m.roomView, cmd = m.roomView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "HostelDesk · Notifications"
	status := "all read"
	if m.unreadCount > 0 {
		status = fmt.Sprintf("%d unread", m.unreadCount)
	}

	header := m.layout.RenderHeader(headerTitle, status)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notice)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewNotifications:
		return m.notifCenter.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewRoom:
		return m.roomView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close palette | enter execute | esc back"
	case ViewDetail:
		return "esc back | j/k scroll"
	case ViewProfile:
		return "enter next field | esc cancel"
	case ViewRoom:
		return "r reload | esc back"
	case ViewSettings:
		return "ctrl+b backup | ctrl+r reset | esc cancel"
	default:
		if summary := m.notifCenter.FilterSummary(); summary != "" {
			return summary + " | c clear"
		}
		return "q quit | ? help | / search | 1/2/3 filter | m mark read | d delete | s stats"
	}
}
