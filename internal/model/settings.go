package model

// Settings holds the hostel-wide administrative settings editable from
// the settings view.
type Settings struct {
	// HostelName is the display name used across the system.
	HostelName string `json:"hostelName"`

	// ContactEmail is the administration contact address.
	ContactEmail string `json:"contactEmail"`

	// AllowRoomChangeRequests enables the resident-initiated room
	// change workflow.
	AllowRoomChangeRequests bool `json:"allowRoomChangeRequests"`

	// MaintenanceMode takes the resident-facing site offline.
	MaintenanceMode bool `json:"maintenanceMode"`

	// FeeDueDay is the day of month fees fall due (1-28).
	FeeDueDay int `json:"feeDueDay"`
}
