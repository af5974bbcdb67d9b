package models

import "time"

// Owner types for notifications.
const (
	OwnerTypeUser    = "user"
	OwnerTypeArtisan = "artisan"
)

// Notification is one in-app notification entry. The same payload also goes
// out as an FCM push when the owner has a registered device token.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	OwnerType string    `bson:"ownerType" json:"ownerType"` // "user" or "artisan"
	Title     string    `bson:"title" json:"title"`
	Text      string    `bson:"text" json:"text"`
	URL       string    `bson:"url,omitempty" json:"url,omitempty"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
