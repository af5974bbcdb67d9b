package models

import "time"

// User is the requesting/customer party. Like Artisan, only the slice the
// booking core reads is modeled here.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	ProfileImage string    `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
