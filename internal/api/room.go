package api

import (
	"context"
	"fmt"

	"github.com/hosteldesk/hosteldesk/internal/model"
)

// RoomService is the surface the room view depends on.
type RoomService interface {
	GetMyRoom(ctx context.Context) (*model.Room, error)
}

// GetMyRoom fetches the room allocated to the signed-in resident.
func (c *Client) GetMyRoom(ctx context.Context) (*model.Room, error) {
	var r model.Room
	if err := c.Get(ctx, "/rooms/my-room", &r); err != nil {
		return nil, fmt.Errorf("fetching room: %w", err)
	}
	return &r, nil
}
