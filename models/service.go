package models

// Service is a catalog entry owned by one artisan. Price and duration are
// copied onto bookings at creation time.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	ArtisanID       string  `bson:"artisanId" json:"artisanId"`
	Name            string  `bson:"name" json:"name"`
	CategoryName    string  `bson:"categoryName,omitempty" json:"categoryName,omitempty"`
	Price           float64 `bson:"price" json:"price"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
}
