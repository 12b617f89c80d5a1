package api

import (
	"context"
	"fmt"

	"github.com/hosteldesk/hosteldesk/internal/model"
)

// SettingsService is the surface the admin settings view depends on.
type SettingsService interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
	UpdateSettings(ctx context.Context, s model.Settings) error
	BackupData(ctx context.Context) error
	ResetSettings(ctx context.Context) error
}

// GetSettings fetches the hostel-wide administrative settings.
func (c *Client) GetSettings(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	if err := c.Get(ctx, "/admin/settings", &s); err != nil {
		return nil, fmt.Errorf("fetching settings: %w", err)
	}
	return &s, nil
}

// UpdateSettings saves edited settings.
func (c *Client) UpdateSettings(ctx context.Context, s model.Settings) error {
	if err := c.Put(ctx, "/admin/settings", s, nil); err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	return nil
}

// BackupData asks the backend to produce a data backup.
func (c *Client) BackupData(ctx context.Context) error {
	if err := c.Post(ctx, "/admin/settings/backup", nil, nil); err != nil {
		return fmt.Errorf("requesting backup: %w", err)
	}
	return nil
}

// ResetSettings restores the server-side defaults.
func (c *Client) ResetSettings(ctx context.Context) error {
	if err := c.Post(ctx, "/admin/settings/reset", nil, nil); err != nil {
		return fmt.Errorf("resetting settings: %w", err)
	}
	return nil
}
