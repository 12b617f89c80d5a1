package model

// Profile holds the editable account details of the signed-in resident.
type Profile struct {
	// Name is the resident's display name.
	Name string `json:"name"`

	// Email is the account email address.
	Email string `json:"email"`

	// Phone is the contact number.
	Phone string `json:"phone"`

	// EmergencyContact is the phone number of a guardian or next of kin.
	EmergencyContact string `json:"emergencyContact"`

	// Address is the resident's home address.
	Address string `json:"address"`

	// RoomNumber is the currently allocated room, read-only here;
	// allocation changes happen server-side.
	RoomNumber string `json:"roomNumber"`
}

// PasswordChange is the payload for a password update request.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
