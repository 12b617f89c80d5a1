package model

// Filter selects which read-state slice of notifications to list.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterRead   Filter = "read"
)

// IsReadParam maps the filter to the value of the isRead query
// parameter. A nil result means the parameter is omitted entirely,
// which is how "all" is expressed on the wire.
func (f Filter) IsReadParam() *bool {
	switch f {
	case FilterUnread:
		v := false
		return &v
	case FilterRead:
		v := true
		return &v
	default:
		return nil
	}
}

// DefaultPageSize is the number of notifications requested per page
// unless the server or configuration overrides it.
const DefaultPageSize = 12

// Query is the canonical request descriptor for one notification list
// fetch. It is a plain value: views thread a copy through each fetch so
// a response can always be matched against the exact parameters that
// produced it.
type Query struct {
	// Page is the 1-based page to request.
	Page int

	// PerPage is the page size sent as the limit parameter.
	PerPage int

	// SortBy and SortOrder control server-side ordering.
	SortBy    string
	SortOrder string

	// Search is the free-text term. Whitespace-only input is treated
	// as no search; the term is trimmed before transmission.
	Search string

	// Filter is the read-state predicate.
	Filter Filter
}

// NewQuery returns the default query: first page, newest first, no
// search, all notifications.
func NewQuery(perPage int) Query {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	return Query{
		Page:      1,
		PerPage:   perPage,
		SortBy:    "createdAt",
		SortOrder: "desc",
		Filter:    FilterAll,
	}
}

// Pagination describes the server's view of the collection after a
// list fetch has been reconciled.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}
