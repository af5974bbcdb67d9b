package models

import "time"

// Artisan is the service-providing party whose calendar gets booked. Account
// management lives in the identity service; the booking core only reads the
// fields it needs for authorization and notification.
type Artisan struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PhoneNumber  string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	ProfileImage string    `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Active       bool      `bson:"active" json:"active"` // inactive artisans accept no new bookings
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
