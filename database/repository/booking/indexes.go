// File: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings and calendars
// collections.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on booking ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Serves the overlap query: active bookings per artisan by interval
		{
			Keys:    bson.D{{Key: "artisanId", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("artisan_status_start_end_idx"),
		},
		// History listings
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "start", Value: -1}},
			Options: options.Index().SetName("user_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "artisanId", Value: 1}, {Key: "start", Value: -1}},
			Options: options.Index().SetName("artisan_start_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	// One guard document per artisan.
	_, err := r.calendarColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "artisanId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_artisan"),
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar indexes: %w", err)
	}
	return nil
}
