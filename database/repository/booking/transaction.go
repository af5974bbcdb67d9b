// File: database/repository/booking/transaction.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"craftly/models"
)

// overlapFilter matches active bookings for artisanID whose half-open interval
// intersects [start, end). excludeID, when non-empty, exempts one booking
// (used when re-checking a reschedule against the rest of the calendar).
func overlapFilter(artisanID string, start, end time.Time, excludeID string) bson.M {
	filter := bson.M{
		"artisanId": artisanID,
		"status":    bson.M{"$in": models.ActiveStatuses},
		"start":     bson.M{"$lt": end},
		"end":       bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

// touchCalendar bumps the artisan's calendar guard document inside the
// transaction. Two transactions on the same artisan then write the same
// document, so at most one of them commits; the loser aborts with a transient
// label and retries against the winner's committed state.
func (r *mongoBookingRepo) touchCalendar(sc mongo.SessionContext, artisanID string) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.calendarColl.UpdateOne(sc,
		bson.M{"artisanId": artisanID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to touch calendar guard: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) CreateWithSlotCheck(ctx context.Context, b *models.Booking) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if err := r.touchCalendar(sc, b.ArtisanID); err != nil {
			return err
		}

		n, err := r.coll.CountDocuments(sc, overlapFilter(b.ArtisanID, b.Start, b.End, ""))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return ErrSlotTaken
		}

		if _, err := r.coll.InsertOne(sc, b); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	return r.runTxn(ctx, sess, txnFn)
}

func (r *mongoBookingRepo) ReplaceWithSlotCheck(ctx context.Context, b *models.Booking) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if err := r.touchCalendar(sc, b.ArtisanID); err != nil {
			return err
		}

		n, err := r.coll.CountDocuments(sc, overlapFilter(b.ArtisanID, b.Start, b.End, b.ID))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return ErrSlotTaken
		}

		return r.replaceVersioned(sc, b)
	}

	return r.runTxn(ctx, sess, txnFn)
}

// runTxn wraps txnFn in a session transaction, translating driver transient
// labels into ErrTransient. Sentinel errors from txnFn pass through unwrapped.
func (r *mongoBookingRepo) runTxn(ctx context.Context, sess mongo.Session, txnFn func(mongo.SessionContext) error) error {
	err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrStaleSnapshot) || errors.Is(err, ErrNotFound) {
		return err
	}
	if isTransient(err) {
		return ErrTransient
	}
	return err
}

func isTransient(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel("TransientTransactionError") ||
			se.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
