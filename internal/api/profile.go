package api

import (
	"context"
	"fmt"

	"github.com/hosteldesk/hosteldesk/internal/model"
)

// ProfileService is the surface the profile view depends on.
type ProfileService interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
	ChangePassword(ctx context.Context, change model.PasswordChange) error
}

// GetProfile fetches the signed-in user's profile.
func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.Get(ctx, "/users/profile", &p); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile saves edited profile fields.
func (c *Client) UpdateProfile(ctx context.Context, p model.Profile) error {
	if err := c.Put(ctx, "/users/profile", p, nil); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// ChangePassword submits a password change request.
func (c *Client) ChangePassword(ctx context.Context, change model.PasswordChange) error {
	if err := c.Put(ctx, "/users/change-password", change, nil); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}
