package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 5*time.Second, nil), srv
}

func TestListNotificationsNotificationsKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"notifications": [
				{"_id": "n1", "title": "Fee due", "isRead": false, "priority": "high"},
				{"_id": "n2", "title": "Room change", "isRead": true, "priority": "low"}
			],
			"pagination": {"currentPage": 2, "totalPages": 5, "totalItems": 55, "itemsPerPage": 12}
		}`))
	})

	q := model.NewQuery(12)
	q.Page = 2
	result, err := client.ListNotifications(context.Background(), q)
	require.NoError(t, err)

	require.Len(t, result.Notifications, 2)
	assert.Equal(t, "n1", result.Notifications[0].ID)
	assert.Equal(t, model.Pagination{
		CurrentPage:  2,
		TotalPages:   5,
		TotalItems:   55,
		ItemsPerPage: 12,
	}, result.Pagination)
}

func TestListNotificationsDataKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"_id": "n1", "title": "Maintenance notice"}],
			"pagination": {"currentPage": 1, "totalPages": 1, "totalItems": 1, "itemsPerPage": 12}
		}`))
	})

	result, err := client.ListNotifications(context.Background(), model.NewQuery(12))
	require.NoError(t, err)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, "Maintenance notice", result.Notifications[0].Title)
}

func TestListNotificationsNoItemsKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pagination": {"currentPage": 1, "totalPages": 1, "totalItems": 0, "itemsPerPage": 12}}`))
	})

	result, err := client.ListNotifications(context.Background(), model.NewQuery(12))
	require.NoError(t, err)
	require.NotNil(t, result.Notifications)
	assert.Empty(t, result.Notifications)
}

func TestListNotificationsAbsentPagination(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"notifications": [
				{"_id": "n1"}, {"_id": "n2"}, {"_id": "n3"},
				{"_id": "n4"}, {"_id": "n5"}
			]
		}`))
	})

	q := model.NewQuery(4)
	q.Page = 3
	result, err := client.ListNotifications(context.Background(), q)
	require.NoError(t, err)

	// ceil(5/4) = 2 pages synthesized from the loaded count.
	assert.Equal(t, model.Pagination{
		CurrentPage:  3,
		TotalPages:   2,
		TotalItems:   5,
		ItemsPerPage: 4,
	}, result.Pagination)
}

func TestListNotificationsPartialPagination(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"notifications": [{"_id": "n1"}, {"_id": "n2"}],
			"pagination": {"totalItems": 40}
		}`))
	})

	q := model.NewQuery(12)
	q.Page = 2
	result, err := client.ListNotifications(context.Background(), q)
	require.NoError(t, err)

	// Present fields win; missing ones fall back to the request.
	assert.Equal(t, model.Pagination{
		CurrentPage:  2,
		TotalPages:   1,
		TotalItems:   40,
		ItemsPerPage: 12,
	}, result.Pagination)
}

func TestListNotificationsQueryParams(t *testing.T) {
	var got url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications": []}`))
	})

	q := model.NewQuery(12)
	q.Page = 3
	q.Search = "  fee reminder  "
	q.Filter = model.FilterUnread

	_, err := client.ListNotifications(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "3", got.Get("page"))
	assert.Equal(t, "12", got.Get("limit"))
	assert.Equal(t, "createdAt", got.Get("sortBy"))
	assert.Equal(t, "desc", got.Get("sortOrder"))
	assert.Equal(t, "fee reminder", got.Get("search"))
	assert.Equal(t, "false", got.Get("isRead"))
}

func TestListNotificationsOmitsEmptyParams(t *testing.T) {
	var got url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications": []}`))
	})

	q := model.NewQuery(12)
	q.Search = "   "
	q.Filter = model.FilterAll

	_, err := client.ListNotifications(context.Background(), q)
	require.NoError(t, err)

	assert.False(t, got.Has("search"), "whitespace-only search must be omitted")
	assert.False(t, got.Has("isRead"), "all filter must omit isRead")
}

func TestListNotificationsReadFilter(t *testing.T) {
	var got url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications": []}`))
	})

	q := model.NewQuery(12)
	q.Filter = model.FilterRead
	_, err := client.ListNotifications(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "true", got.Get("isRead"))
}

func TestListNotificationsServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "bad page"}`))
	})

	_, err := client.ListNotifications(context.Background(), model.NewQuery(12))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad page")
}

func TestListNotificationsAuthError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListNotifications(context.Background(), model.NewQuery(12))
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestMarkNotificationRead(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.MarkNotificationRead(context.Background(), "n42")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/notifications/n42/read", gotPath)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.MarkAllNotificationsRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/notifications/read-all", gotPath)
}

func TestDeleteNotification(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.DeleteNotification(context.Background(), "n7")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/notifications/n7", gotPath)
}

func TestClientSendsAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications": []}`))
	})

	_, err := client.ListNotifications(context.Background(), model.NewQuery(12))
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientHonorsRetryAfterDelay(t *testing.T) {
	var calls []time.Time
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, time.Now())
		if len(calls) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications": []}`))
	})

	_, err := client.ListNotifications(context.Background(), model.NewQuery(12))
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), time.Second,
		"second attempt waits out the Retry-After header")
}

func TestClientRetriesRateLimit(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications": [{"_id": "n1"}]}`))
	})

	result, err := client.ListNotifications(context.Background(), model.NewQuery(12))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, result.Notifications, 1)
}
