package api

import "github.com/hosteldesk/hosteldesk/internal/model"

// listResponse is the wire shape of GET /notifications. Depending on
// backend version the items arrive under either "notifications" or
// "data", and the pagination object may be partial or absent, so every
// field is optional here and normalized in one place.
type listResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Data          []model.Notification `json:"data"`
	Pagination    *wirePagination      `json:"pagination"`
}

// wirePagination mirrors the server pagination object with pointer
// fields so a missing sub-field can be told apart from a zero.
type wirePagination struct {
	CurrentPage  *int `json:"currentPage"`
	TotalPages   *int `json:"totalPages"`
	TotalItems   *int `json:"totalItems"`
	ItemsPerPage *int `json:"itemsPerPage"`
}

// errorResponse is the standard backend error body.
type errorResponse struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}
