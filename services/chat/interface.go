package chat

import "context"

// ChatService is the narrow contract the booking core consumes from the chat
// provider. Every method is safe to call repeatedly for the same inputs.
type ChatService interface {
	// EnsureUser upserts a chat identity for a booking party.
	EnsureUser(ctx context.Context, id, name, role string) error
	// EnsureDirectChannel returns the id of the direct-message channel between
	// the two parties, creating it if needed.
	EnsureDirectChannel(ctx context.Context, memberA, memberB string) (string, error)
	// PostMessage posts text into a channel on behalf of senderID.
	PostMessage(ctx context.Context, channelID, senderID, text string) error
}
