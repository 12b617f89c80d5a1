package model

// Occupant is one resident sharing a room.
type Occupant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Room is the read-only detail record for the resident's allocated room.
type Room struct {
	// Number is the room label (e.g. "B-204").
	Number string `json:"roomNumber"`

	// Block is the building or wing.
	Block string `json:"block"`

	// Floor is the floor number within the block.
	Floor int `json:"floor"`

	// Capacity is the number of beds.
	Capacity int `json:"capacity"`

	// Occupants lists the residents currently allocated to the room.
	Occupants []Occupant `json:"occupants"`

	// Amenities lists fittings such as "wifi" or "attached bathroom".
	Amenities []string `json:"amenities"`

	// MonthlyFee is the rent in the hostel's billing currency.
	MonthlyFee float64 `json:"monthlyFee"`
}
