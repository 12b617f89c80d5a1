// Package notifcenter implements the notification center view: a
// server-paginated notification list with read-state filters, debounced
// free-text search, per-item and bulk mutations, and an on-demand
// statistics panel derived from the loaded page.
package notifcenter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hosteldesk/hosteldesk/internal/api"
	"github.com/hosteldesk/hosteldesk/internal/keys"
	"github.com/hosteldesk/hosteldesk/internal/model"
	"github.com/hosteldesk/hosteldesk/internal/stats"
	"github.com/hosteldesk/hosteldesk/internal/theme"
	"github.com/hosteldesk/hosteldesk/internal/ui"
)

// OpenNotificationMsg is sent when the user selects a notification to
// view in full.
type OpenNotificationMsg struct {
	Notification model.Notification
}

// MarkedReadMsg reports the outcome of a mark-as-read call. It is
// exported so the root model can route it back here after opening the
// detail view.
type MarkedReadMsg struct {
	ID  string
	Err error
}

// FetchRequestMsg asks the view to fetch the current page. The initial
// fetch goes through this message so the fetch bookkeeping mutates the
// model instance the runtime actually keeps.
type FetchRequestMsg struct{}

// listLoadedMsg carries one page of notifications back from the API.
// Seq ties the response to the fetch that produced it; responses from
// superseded fetches are discarded.
type listLoadedMsg struct {
	Seq    int
	Result *api.ListResult
	Err    error
}

// searchDebounceMsg fires when the search quiet period elapses.
type searchDebounceMsg struct {
	seq int
}

// markedAllReadMsg reports the outcome of the bulk mark-read call.
type markedAllReadMsg struct {
	Err error
}

// deletedMsg reports the outcome of a delete call.
type deletedMsg struct {
	ID  string
	Err error
}

// confirmState holds the delete confirmation binding on the heap so
// huh's Value pointer stays valid across Bubble Tea model copies.
type confirmState struct {
	approved bool
	target   model.Notification
}

// Model is the notification center view component.
type Model struct {
	svc  api.NotificationService
	keys *keys.KeyMap

	list          list.Model
	notifications []model.Notification

	query      model.Query
	pagination model.Pagination

	searchMode  bool
	searchInput textinput.Model
	searchSeq   int
	debounce    time.Duration

	fetchSeq    int
	cancelFetch context.CancelFunc
	loading     bool
	spinner     spinner.Model

	showStats bool
	stats     stats.Stats

	confirm   *huh.Form
	confirmCS *confirmState

	width  int
	height int
}

// New creates a new notification center model.
func New(svc api.NotificationService, k *keys.KeyMap, perPage int, debounce time.Duration, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-3)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search notifications..."
	si.Prompt = "/ "
	si.Width = width - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	q := model.NewQuery(perPage)

	return Model{
		svc:         svc,
		keys:        k,
		list:        l,
		query:       q,
		pagination:  model.Pagination{CurrentPage: 1, TotalPages: 1, ItemsPerPage: q.PerPage},
		searchInput: si,
		debounce:    debounce,
		spinner:     sp,
		width:       width,
		height:      height,
	}
}

// Init requests the initial fetch: page 1, all notifications, no search.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return FetchRequestMsg{} }
}

// Update handles messages for the notification center.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FetchRequestMsg:
		cmd := (&m).startFetch()
		return m, cmd

	case listLoadedMsg:
		return m.handleListLoaded(msg)

	case searchDebounceMsg:
		// A newer keystroke superseded this timer; drop it.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		term := strings.TrimSpace(m.searchInput.Value())
		if term == m.query.Search {
			return m, nil
		}
		m.query.Search = term
		m.query.Page = 1
		cmd := (&m).startFetch()
		return m, cmd

	case MarkedReadMsg:
		if msg.Err != nil {
			return m, ui.Notice("Could not mark notification as read")
		}
		for i := range m.notifications {
			if m.notifications[i].ID == msg.ID {
				m.notifications[i].IsRead = true
			}
		}
		(&m).refreshItems()
		return m, nil

	case markedAllReadMsg:
		if msg.Err != nil {
			return m, ui.Notice("Could not mark all notifications as read")
		}
		for i := range m.notifications {
			m.notifications[i].IsRead = true
		}
		(&m).refreshItems()
		return m, nil

	case deletedMsg:
		if msg.Err != nil {
			return m, ui.Notice("Could not delete notification")
		}
		(&m).removeLocal(msg.ID)
		// If the delete emptied a page past the first, step back one
		// page; otherwise refetch the same page so the next item
		// backfills and the totals stay correct.
		if len(m.notifications) == 0 && m.query.Page > 1 {
			m.query.Page--
		}
		cmd := (&m).startFetch()
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.handleConfirmMsg(msg)
		}
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.confirm != nil {
		return m.handleConfirmMsg(msg)
	}

	// Delegate to the list model for other messages.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleListLoaded reconciles a fetch result into view state.
func (m Model) handleListLoaded(msg listLoadedMsg) (Model, tea.Cmd) {
	if msg.Seq != m.fetchSeq {
		// A newer fetch is in flight; this response is stale and must
		// not overwrite its state. The loading flag belongs to the
		// newer fetch, so it stays set.
		return m, nil
	}
	m.loading = false

	if msg.Err != nil {
		// Fall back to an empty, well-formed state. The page size is
		// preserved so a retry keeps the same pagination geometry.
		m.notifications = []model.Notification{}
		m.query.Page = 1
		m.pagination = model.Pagination{
			CurrentPage:  1,
			TotalPages:   1,
			TotalItems:   0,
			ItemsPerPage: m.pagination.ItemsPerPage,
		}
		(&m).refreshItems()
		return m, ui.Notice("Could not load notifications")
	}

	m.notifications = msg.Result.Notifications
	m.pagination = msg.Result.Pagination
	m.query.Page = m.pagination.CurrentPage
	(&m).refreshItems()
	m.list.ResetSelected()
	return m, nil
}

// handleSearchKeys processes key input while the search bar is focused.
// Every content change restarts the debounce timer; only the timer for
// the most recent change survives to trigger a fetch.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchSeq++
		term := strings.TrimSpace(m.searchInput.Value())
		if term == m.query.Search {
			return m, nil
		}
		m.query.Search = term
		m.query.Page = 1
		cmd := (&m).startFetch()
		return m, cmd

	case "esc":
		m.searchMode = false
		m.searchSeq++
		m.searchInput.Reset()
		if m.query.Search == "" {
			return m, nil
		}
		m.query.Search = ""
		m.query.Page = 1
		cmd := (&m).startFetch()
		return m, cmd
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	return m, tea.Batch(cmd, m.debounceSearch())
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		n, ok := m.SelectedNotification()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return OpenNotificationMsg{Notification: n}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query.Search)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterAll):
		cmd := (&m).SetFilter(model.FilterAll)
		return m, cmd

	case key.Matches(msg, m.keys.FilterUnread):
		cmd := (&m).SetFilter(model.FilterUnread)
		return m, cmd

	case key.Matches(msg, m.keys.FilterRead):
		cmd := (&m).SetFilter(model.FilterRead)
		return m, cmd

	case key.Matches(msg, m.keys.ClearFilters):
		cmd := (&m).ClearFilters()
		return m, cmd

	case key.Matches(msg, m.keys.PrevPage):
		if m.pagination.CurrentPage <= 1 {
			return m, nil
		}
		m.query.Page = m.pagination.CurrentPage - 1
		cmd := (&m).startFetch()
		return m, cmd

	case key.Matches(msg, m.keys.NextPage):
		if m.pagination.CurrentPage >= m.pagination.TotalPages {
			return m, nil
		}
		m.query.Page = m.pagination.CurrentPage + 1
		cmd := (&m).startFetch()
		return m, cmd

	case key.Matches(msg, m.keys.MarkRead):
		n, ok := m.SelectedNotification()
		if !ok {
			return m, nil
		}
		return m, m.MarkRead(n.ID)

	case key.Matches(msg, m.keys.MarkAllRead):
		svc := m.svc
		return m, func() tea.Msg {
			return markedAllReadMsg{Err: svc.MarkAllNotificationsRead(context.Background())}
		}

	case key.Matches(msg, m.keys.Delete):
		n, ok := m.SelectedNotification()
		if !ok {
			return m, nil
		}
		return m.openDeleteConfirm(n)

	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
		if m.showStats {
			m.stats = stats.Compute(m.notifications)
		}
		(&m).resizeList()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmd := (&m).startFetch()
		return m, cmd
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn).
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// openDeleteConfirm shows the blocking confirmation prompt before any
// delete request is issued. Declining performs no request at all.
func (m Model) openDeleteConfirm(n model.Notification) (Model, tea.Cmd) {
	cs := &confirmState{target: n}
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", n.Title)).
			Description("This permanently removes the notification from the server.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&cs.approved),
	)).WithWidth(m.confirmWidth())

	m.confirm = form
	m.confirmCS = cs
	return m, form.Init()
}

// handleConfirmMsg drives the delete confirmation form.
func (m Model) handleConfirmMsg(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		approved := m.confirmCS.approved
		target := m.confirmCS.target
		m.confirm = nil
		m.confirmCS = nil
		if !approved {
			return m, nil
		}
		svc := m.svc
		return m, func() tea.Msg {
			return deletedMsg{
				ID:  target.ID,
				Err: svc.DeleteNotification(context.Background(), target.ID),
			}
		}

	case huh.StateAborted:
		m.confirm = nil
		m.confirmCS = nil
		return m, nil
	}

	return m, cmd
}

// startFetch begins a new list fetch for the current query. Any fetch
// already in flight is cancelled and its eventual response discarded
// via the sequence check, so an old slow response can never overwrite
// newer state.
func (m *Model) startFetch() tea.Cmd {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	m.fetchSeq++
	m.loading = true

	seq := m.fetchSeq
	q := m.query
	svc := m.svc

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := svc.ListNotifications(ctx, q)
		return listLoadedMsg{Seq: seq, Result: result, Err: err}
	})
}

// debounceSearch schedules the quiet-period timer for the current
// keystroke. The captured sequence number invalidates the timer if a
// newer keystroke arrives before it fires.
func (m Model) debounceSearch() tea.Cmd {
	seq := m.searchSeq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

// MarkRead returns a command that marks the given notification read.
// The local copy is only updated once the server accepts the call.
func (m Model) MarkRead(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	svc := m.svc
	return func() tea.Msg {
		return MarkedReadMsg{
			ID:  id,
			Err: svc.MarkNotificationRead(context.Background(), id),
		}
	}
}

// SetFilter switches the read-state filter, resets to page 1, and
// refetches immediately (filters are discrete choices, no debounce).
func (m *Model) SetFilter(f model.Filter) tea.Cmd {
	if m.query.Filter == f {
		return nil
	}
	m.query.Filter = f
	m.query.Page = 1
	return m.startFetch()
}

// ClearFilters resets filter, search, and page, then fetches once.
func (m *Model) ClearFilters() tea.Cmd {
	m.searchSeq++
	m.searchInput.Reset()
	m.searchMode = false
	m.query.Filter = model.FilterAll
	m.query.Search = ""
	m.query.Page = 1
	return m.startFetch()
}

// Refresh refetches the current page with the current query.
func (m *Model) Refresh() tea.Cmd {
	return m.startFetch()
}

// ToggleStats flips the statistics panel on or off.
func (m *Model) ToggleStats() {
	m.showStats = !m.showStats
	if m.showStats {
		m.stats = stats.Compute(m.notifications)
	}
	m.resizeList()
}

// Teardown cancels any in-flight fetch. Called when the program exits.
func (m *Model) Teardown() {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
}

// SelectedNotification returns the notification under the cursor.
func (m Model) SelectedNotification() (model.Notification, bool) {
	item, ok := m.list.SelectedItem().(notifItem)
	if !ok {
		return model.Notification{}, false
	}
	return item.Notification, true
}

// FilterSummary describes the active filter and search for the status
// bar; empty when both are at their defaults.
func (m Model) FilterSummary() string {
	var parts []string
	if m.query.Filter != model.FilterAll {
		parts = append(parts, "filter: "+string(m.query.Filter))
	}
	if m.query.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.query.Search))
	}
	return strings.Join(parts, " · ")
}

// refreshItems pushes the loaded notifications into the list model and
// recomputes the statistics when the panel is visible.
func (m *Model) refreshItems() {
	items := make([]list.Item, len(m.notifications))
	for i, n := range m.notifications {
		items[i] = notifItem{Notification: n}
	}
	m.list.SetItems(items)

	if m.showStats {
		m.stats = stats.Compute(m.notifications)
	}
}

// removeLocal drops the notification with the given ID from the held page.
func (m *Model) removeLocal(id string) {
	kept := m.notifications[:0]
	for _, n := range m.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	m.notifications = kept
	m.refreshItems()
}

// View renders the notification center.
func (m Model) View() string {
	if m.confirm != nil {
		return theme.DangerPanelStyle.
			Width(m.width - 4).
			Render(m.confirm.View())
	}

	var sections []string

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		sections = append(sections, searchBar)
	}

	if len(m.list.Items()) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.list.View())
	}

	sections = append(sections, m.renderFooter())

	if m.showStats {
		sections = append(sections, m.renderStats())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFooter shows pagination position and loading state.
func (m Model) renderFooter() string {
	pageInfo := fmt.Sprintf(
		"page %d/%d · %d notifications",
		m.pagination.CurrentPage,
		m.pagination.TotalPages,
		m.pagination.TotalItems,
	)
	if summary := m.FilterSummary(); summary != "" {
		pageInfo += " · " + summary
	}
	if m.loading {
		pageInfo = m.spinner.View() + " loading · " + pageInfo
	}

	return theme.HelpStyle.Padding(0, 1).Render(pageInfo)
}

// renderStats draws the statistics panel for the loaded page.
func (m Model) renderStats() string {
	s := m.stats

	overview := fmt.Sprintf(
		"This page: %d total · %d unread · %d read",
		s.Overview.Total, s.Overview.Unread, s.Overview.Read,
	)
	priorities := fmt.Sprintf(
		"Priority: %s %d · %s %d · %s %d · %s %d",
		theme.PriorityStyle(model.PriorityUrgent).Render("urgent"), s.Priority.Urgent,
		theme.PriorityStyle(model.PriorityHigh).Render("high"), s.Priority.High,
		theme.PriorityStyle(model.PriorityMedium).Render("medium"), s.Priority.Medium,
		theme.PriorityStyle(model.PriorityLow).Render("low"), s.Priority.Low,
	)

	var types []string
	for _, tc := range s.ByType {
		types = append(types, fmt.Sprintf("%s ×%d", theme.TypeLabel(tc.Type), tc.Count))
	}
	typeLine := "Types: -"
	if len(types) > 0 {
		typeLine = "Types: " + strings.Join(types, " · ")
	}

	return theme.StatsPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, overview, priorities, typeLine))
}

// renderEmptyState shows guidance text when no notifications are loaded.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.list.Height()).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return style.Render(m.spinner.View() + " Loading notifications...")
	}

	if m.FilterSummary() != "" {
		return style.Render("No matching notifications.\nPress c to clear filters.")
	}

	return style.Render("No notifications yet.")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
	m.resizeList()
	if m.confirm != nil {
		m.confirm = m.confirm.WithWidth(m.confirmWidth())
	}
}

// resizeList recomputes the list height from the chrome around it.
func (m *Model) resizeList() {
	reserved := 1 // footer
	if m.searchMode {
		reserved++
	}
	if m.showStats {
		reserved += 5
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width, h)
}

func (m Model) confirmWidth() int {
	w := m.width - 8
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
