package model

import "time"

// Priority is the urgency level attached to a notification.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Known notification type values. The backend may introduce new types
// at any time; consumers must treat the type as an open-ended string
// and fall back to a generic rendering for values not listed here.
const (
	TypeComplaintNew      = "complaint_new"
	TypeComplaintResolved = "complaint_resolved"
	TypeRoomAllocated     = "room_allocated"
	TypeRoomUpdated       = "room_updated"
	TypeLeaveApproved     = "leave_approved"
	TypeLeaveRejected     = "leave_rejected"
	TypeFeePayment        = "fee_payment"
	TypeFeeOverdue        = "fee_overdue"
)

// Notification is a server-issued message shown to a resident or
// warden. The server owns the record; the client only ever holds the
// cached copies belonging to the currently loaded page.
type Notification struct {
	// ID is the opaque server identifier, stable across requests.
	ID string `json:"_id"`

	// Title is the short headline shown in the list.
	Title string `json:"title"`

	// Message is the full notification body.
	Message string `json:"message"`

	// Type categorizes the notification (see Type* constants).
	Type string `json:"type"`

	// Priority is the urgency level (see Priority* constants).
	Priority Priority `json:"priority"`

	// IsRead reports whether the user has acknowledged this
	// notification. Mutable through the API; the server stays
	// authoritative.
	IsRead bool `json:"isRead"`

	// CreatedAt is when the server issued the notification. Lists
	// sort on it, newest first.
	CreatedAt time.Time `json:"createdAt"`
}
