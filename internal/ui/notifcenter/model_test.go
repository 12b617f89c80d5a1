package notifcenter

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk/internal/api"
	"github.com/hosteldesk/hosteldesk/internal/keys"
	"github.com/hosteldesk/hosteldesk/internal/model"
	"github.com/hosteldesk/hosteldesk/internal/ui"
)

// fakeService records every call so tests can assert on the exact
// queries the view issues.
type fakeService struct {
	queries   []model.Query
	result    *api.ListResult
	err       error
	markedIDs []string
	markedAll int
	deletedID string
	deleteErr error
}

func (f *fakeService) ListNotifications(_ context.Context, q model.Query) (*api.ListResult, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &api.ListResult{
		Notifications: []model.Notification{},
		Pagination: model.Pagination{
			CurrentPage:  q.Page,
			TotalPages:   1,
			TotalItems:   0,
			ItemsPerPage: q.PerPage,
		},
	}, nil
}

func (f *fakeService) MarkNotificationRead(_ context.Context, id string) error {
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

func (f *fakeService) MarkAllNotificationsRead(context.Context) error {
	f.markedAll++
	return nil
}

func (f *fakeService) DeleteNotification(_ context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

func newTestModel(svc api.NotificationService) Model {
	return New(svc, keys.DefaultKeyMap(), 12, 500*time.Millisecond, 80, 24)
}

// collectMsgs executes a command tree synchronously and returns every
// message it produces.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, collectMsgs(sub)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// pump executes a command and feeds any listLoadedMsg back into Update,
// returning the settled model.
func pump(m Model, cmd tea.Cmd) Model {
	for _, msg := range collectMsgs(cmd) {
		if loaded, ok := msg.(listLoadedMsg); ok {
			m, _ = m.Update(loaded)
		}
	}
	return m
}

func page(ids []string, p model.Pagination) *api.ListResult {
	items := make([]model.Notification, len(ids))
	for i, id := range ids {
		items[i] = model.Notification{ID: id, Title: "n " + id}
	}
	return &api.ListResult{Notifications: items, Pagination: p}
}

func TestInitialFetchLoadsFirstPage(t *testing.T) {
	svc := &fakeService{
		result: page([]string{"a", "b"}, model.Pagination{
			CurrentPage: 1, TotalPages: 3, TotalItems: 30, ItemsPerPage: 12,
		}),
	}
	m := newTestModel(svc)

	m, cmd := m.Update(FetchRequestMsg{})
	m = pump(m, cmd)

	require.Len(t, svc.queries, 1)
	assert.Equal(t, 1, svc.queries[0].Page)
	assert.Equal(t, 12, svc.queries[0].PerPage)
	assert.Equal(t, model.FilterAll, svc.queries[0].Filter)
	assert.Len(t, m.notifications, 2)
	assert.False(t, m.loading)
	assert.Equal(t, 3, m.pagination.TotalPages)
}

func TestFetchRequestMutatesReturnedModel(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)

	m, cmd := m.Update(FetchRequestMsg{})

	// The fetch bookkeeping must land on the model the runtime keeps,
	// or the response sequence check would discard the first load.
	assert.True(t, m.loading)
	assert.Equal(t, 1, m.fetchSeq)
	for _, msg := range collectMsgs(cmd) {
		if loaded, ok := msg.(listLoadedMsg); ok {
			assert.Equal(t, m.fetchSeq, loaded.Seq)
		}
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.query.Page = 3
	m.pagination.CurrentPage = 3

	cmd := (&m).SetFilter(model.FilterUnread)
	m = pump(m, cmd)

	require.Len(t, svc.queries, 1)
	assert.Equal(t, 1, svc.queries[0].Page)
	assert.Equal(t, model.FilterUnread, svc.queries[0].Filter)
}

func TestSameFilterIsNoop(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)

	cmd := (&m).SetFilter(model.FilterAll)

	assert.Nil(t, cmd)
	assert.Empty(t, svc.queries)
}

func TestDebounceDropsSupersededTimers(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.searchInput.SetValue("abc")
	m.searchSeq = 3

	// Timers from earlier keystrokes fire but must not fetch.
	m, cmd := m.Update(searchDebounceMsg{seq: 1})
	assert.Nil(t, cmd)
	m, cmd = m.Update(searchDebounceMsg{seq: 2})
	assert.Nil(t, cmd)

	// Only the timer for the final keystroke triggers the fetch.
	m, cmd = m.Update(searchDebounceMsg{seq: 3})
	m = pump(m, cmd)

	require.Len(t, svc.queries, 1)
	assert.Equal(t, "abc", svc.queries[0].Search)
	assert.Equal(t, 1, svc.queries[0].Page)
}

func TestDebounceSkipsUnchangedTerm(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.query.Search = "abc"
	m.searchInput.SetValue("abc")
	m.searchSeq = 1

	_, cmd := m.Update(searchDebounceMsg{seq: 1})

	assert.Nil(t, cmd)
	assert.Empty(t, svc.queries)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.fetchSeq = 2
	m.loading = true
	m.notifications = []model.Notification{{ID: "keep"}}

	m, cmd := m.Update(listLoadedMsg{
		Seq:    1,
		Result: page([]string{"stale"}, model.Pagination{CurrentPage: 1, TotalPages: 1}),
	})

	assert.Nil(t, cmd)
	assert.True(t, m.loading, "loading belongs to the newer fetch")
	require.Len(t, m.notifications, 1)
	assert.Equal(t, "keep", m.notifications[0].ID)
}

func TestFetchErrorFallsBackToEmptyState(t *testing.T) {
	svc := &fakeService{err: errors.New("boom")}
	m := newTestModel(svc)
	m.pagination = model.Pagination{CurrentPage: 4, TotalPages: 9, TotalItems: 99, ItemsPerPage: 25}
	m.notifications = []model.Notification{{ID: "old"}}

	cmd := (&m).Refresh()
	var noticed bool
	for _, msg := range collectMsgs(cmd) {
		if loaded, ok := msg.(listLoadedMsg); ok {
			var inner tea.Cmd
			m, inner = m.Update(loaded)
			for _, n := range collectMsgs(inner) {
				if _, ok := n.(ui.NoticeMsg); ok {
					noticed = true
				}
			}
		}
	}

	assert.True(t, noticed, "a failed load surfaces a notice")
	assert.Empty(t, m.notifications)
	assert.Equal(t, model.Pagination{
		CurrentPage:  1,
		TotalPages:   1,
		TotalItems:   0,
		ItemsPerPage: 25,
	}, m.pagination, "page size survives the reset")
	assert.False(t, m.loading)
}

func TestServerPageWinsOverRequested(t *testing.T) {
	svc := &fakeService{
		result: page([]string{"a"}, model.Pagination{
			CurrentPage: 2, TotalPages: 2, TotalItems: 13, ItemsPerPage: 12,
		}),
	}
	m := newTestModel(svc)
	m.query.Page = 5

	cmd := (&m).Refresh()
	m = pump(m, cmd)

	assert.Equal(t, 2, m.query.Page, "query realigns to the server's page")
}

func TestMarkReadUpdatesLocalCopy(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.notifications = []model.Notification{
		{ID: "a", IsRead: false},
		{ID: "b", IsRead: false},
	}

	m, _ = m.Update(MarkedReadMsg{ID: "a"})

	assert.True(t, m.notifications[0].IsRead)
	assert.False(t, m.notifications[1].IsRead)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.notifications = []model.Notification{
		{ID: "a", IsRead: false},
		{ID: "b", IsRead: false},
	}

	first, cmd := m.Update(MarkedReadMsg{ID: "a"})
	require.Nil(t, cmd)

	second, cmd := first.Update(MarkedReadMsg{ID: "a"})

	assert.Nil(t, cmd, "repeat acknowledgement emits no notice")
	assert.Equal(t, first.notifications, second.notifications)
	assert.True(t, second.notifications[0].IsRead)
	assert.False(t, second.notifications[1].IsRead)
}

func TestMarkReadFailureLeavesStateAlone(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.notifications = []model.Notification{{ID: "a", IsRead: false}}

	m, cmd := m.Update(MarkedReadMsg{ID: "a", Err: errors.New("nope")})

	assert.False(t, m.notifications[0].IsRead)
	msgs := collectMsgs(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, ui.NoticeMsg{}, msgs[0])
}

func TestMarkAllReadFlipsEveryLocalCopy(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.notifications = []model.Notification{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}

	m, _ = m.Update(markedAllReadMsg{})

	for _, n := range m.notifications {
		assert.True(t, n.IsRead)
	}
	assert.Empty(t, svc.queries, "no refetch needed for a bulk flip")
}

func TestDeleteLastItemOnLaterPageStepsBack(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.query.Page = 2
	m.pagination.CurrentPage = 2
	m.notifications = []model.Notification{{ID: "only"}}

	m, cmd := m.Update(deletedMsg{ID: "only"})
	m = pump(m, cmd)

	require.Len(t, svc.queries, 1)
	assert.Equal(t, 1, svc.queries[0].Page)
}

func TestDeleteOnPopulatedPageRefetchesSamePage(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.query.Page = 2
	m.pagination.CurrentPage = 2
	m.notifications = []model.Notification{{ID: "a"}, {ID: "b"}}

	m, cmd := m.Update(deletedMsg{ID: "a"})
	m = pump(m, cmd)

	require.Len(t, svc.queries, 1)
	assert.Equal(t, 2, svc.queries[0].Page, "next item backfills the same page")
}

func TestDeleteLastItemOnFirstPageStaysOnFirst(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.notifications = []model.Notification{{ID: "only"}}

	m, cmd := m.Update(deletedMsg{ID: "only"})
	m = pump(m, cmd)

	require.Len(t, svc.queries, 1)
	assert.Equal(t, 1, svc.queries[0].Page)
}

func TestDeleteErrorSkipsRemovalAndRefetch(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.notifications = []model.Notification{{ID: "a"}}

	m, cmd := m.Update(deletedMsg{ID: "a", Err: errors.New("gone wrong")})

	require.Len(t, m.notifications, 1)
	assert.Empty(t, svc.queries)
	msgs := collectMsgs(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, ui.NoticeMsg{}, msgs[0])
}

func TestClearFiltersResetsEverything(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m.query.Filter = model.FilterUnread
	m.query.Search = "fee"
	m.query.Page = 4

	cmd := (&m).ClearFilters()
	m = pump(m, cmd)

	require.Len(t, svc.queries, 1)
	q := svc.queries[0]
	assert.Equal(t, model.FilterAll, q.Filter)
	assert.Empty(t, q.Search)
	assert.Equal(t, 1, q.Page)
}

func TestNewFetchSupersedesInFlightOne(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)

	// First fetch goes out but its response has not arrived yet.
	first := (&m).startFetch()
	firstSeq := m.fetchSeq

	// A second fetch supersedes it.
	second := (&m).startFetch()
	m = pump(m, second)

	// The late first response must not overwrite the newer state.
	before := m.notifications
	for _, msg := range collectMsgs(first) {
		if loaded, ok := msg.(listLoadedMsg); ok {
			assert.Equal(t, firstSeq, loaded.Seq)
			m, _ = m.Update(loaded)
		}
	}

	assert.Equal(t, before, m.notifications)
	assert.False(t, m.loading)
}
