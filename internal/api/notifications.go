package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hosteldesk/hosteldesk/internal/model"
)

// ListResult holds one reconciled page of notifications.
type ListResult struct {
	Notifications []model.Notification
	Pagination    model.Pagination
}

// NotificationService is the surface the notification views depend on.
// *Client implements it; tests substitute fakes.
type NotificationService interface {
	ListNotifications(ctx context.Context, q model.Query) (*ListResult, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

// ListNotifications fetches one page of notifications matching the
// query and normalizes the response into a ListResult. The returned
// sequence is never nil, and the pagination record is always complete
// even when the server omits some or all of its pagination object.
func (c *Client) ListNotifications(
	ctx context.Context,
	q model.Query,
) (*ListResult, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PerPage))
	params.Set("sortBy", q.SortBy)
	params.Set("sortOrder", q.SortOrder)
	if term := strings.TrimSpace(q.Search); term != "" {
		params.Set("search", term)
	}
	if isRead := q.Filter.IsReadParam(); isRead != nil {
		params.Set("isRead", strconv.FormatBool(*isRead))
	}

	var resp listResponse
	if err := c.Get(ctx, "/notifications?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	items := resp.Notifications
	if items == nil {
		items = resp.Data
	}
	if items == nil {
		items = []model.Notification{}
	}

	return &ListResult{
		Notifications: items,
		Pagination:    reconcilePagination(resp.Pagination, q.Page, len(items), q.PerPage),
	}, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := "/notifications/" + url.PathEscape(id) + "/read"
	if err := c.Patch(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification for the current
// user as read in one bulk action.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.Patch(ctx, "/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// DeleteNotification permanently deletes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	path := "/notifications/" + url.PathEscape(id)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	return nil
}

// reconcilePagination normalizes a possibly partial or absent server
// pagination object. Missing sub-fields default to: currentPage → the
// requested page, totalPages → 1, totalItems → the loaded count,
// itemsPerPage → the page size that was requested. When the object is
// absent entirely, totalPages is synthesized as ceil(totalItems /
// itemsPerPage), clamped to at least 1.
func reconcilePagination(
	p *wirePagination,
	requestedPage int,
	loaded int,
	prevPerPage int,
) model.Pagination {
	if prevPerPage < 1 {
		prevPerPage = model.DefaultPageSize
	}

	if p == nil {
		totalPages := (loaded + prevPerPage - 1) / prevPerPage
		if totalPages < 1 {
			totalPages = 1
		}
		return model.Pagination{
			CurrentPage:  requestedPage,
			TotalPages:   totalPages,
			TotalItems:   loaded,
			ItemsPerPage: prevPerPage,
		}
	}

	out := model.Pagination{
		CurrentPage:  requestedPage,
		TotalPages:   1,
		TotalItems:   loaded,
		ItemsPerPage: prevPerPage,
	}
	if p.CurrentPage != nil {
		out.CurrentPage = *p.CurrentPage
	}
	if p.TotalPages != nil {
		out.TotalPages = *p.TotalPages
	}
	if p.TotalItems != nil {
		out.TotalItems = *p.TotalItems
	}
	if p.ItemsPerPage != nil {
		out.ItemsPerPage = *p.ItemsPerPage
	}
	return out
}
