// File: database/repository/booking/crud.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"craftly/models"
)

const opTimeout = 5 * time.Second

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *mongoBookingRepo) Replace(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.replaceVersioned(ctx, b)
}

// replaceVersioned writes b back matching on its current Version and stores
// Version+1, so a transition computed from a stale read can never overwrite a
// concurrent one.
func (r *mongoBookingRepo) replaceVersioned(ctx context.Context, b *models.Booking) error {
	prev := b.Version
	b.Version = prev + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": b.ID, "version": prev}, b)
	if err != nil {
		b.Version = prev
		return fmt.Errorf("failed to replace booking %s: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		b.Version = prev
		n, countErr := r.coll.CountDocuments(ctx, bson.M{"id": b.ID})
		if countErr == nil && n == 0 {
			return ErrNotFound
		}
		return ErrStaleSnapshot
	}
	return nil
}

func (r *mongoBookingRepo) SetChatChannel(ctx context.Context, id, channelID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Matches only while the field is still unset; a second attempt is a no-op.
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "chatChannelId": bson.M{"$in": bson.A{"", nil}}},
		bson.M{"$set": bson.M{"chatChannelId": channelID}},
	)
	if err != nil {
		return fmt.Errorf("failed to set chat channel for booking %s: %w", id, err)
	}
	return nil
}

func (r *mongoBookingRepo) SetVideoRoom(ctx context.Context, id, name, url string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "videoRoomName": bson.M{"$in": bson.A{"", nil}}},
		bson.M{"$set": bson.M{"videoRoomName": name, "videoRoomUrl": url}},
	)
	if err != nil {
		return fmt.Errorf("failed to set video room for booking %s: %w", id, err)
	}
	return nil
}
