package video

import "context"

// Room is a provisioned video room.
type Room struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VideoService is the narrow contract consumed from the video provider.
type VideoService interface {
	// CreatePrivateRoom provisions a private room capped at maxParticipants.
	// Creating a room that already exists returns the existing one.
	CreatePrivateRoom(ctx context.Context, name string, maxParticipants int) (*Room, error)
}
