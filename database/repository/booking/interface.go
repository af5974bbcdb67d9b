// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"craftly/database"
	"craftly/models"
)

// Sentinel errors surfaced by the repository. The booking service maps these
// onto its caller-facing error codes.
var (
	// ErrNotFound means no booking with the given id exists.
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken means the requested interval overlaps an active booking for
	// the same artisan; detected inside the allocation transaction.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrStaleSnapshot means the booking changed between read and write; the
	// caller must re-read before retrying the transition.
	ErrStaleSnapshot = errors.New("booking snapshot is stale")
	// ErrTransient means the transaction could not serialize against a
	// concurrent one and may be retried as-is.
	ErrTransient = errors.New("transient store conflict")
)

type BookingRepository interface {
	// CreateWithSlotCheck atomically proves no active booking overlaps
	// [b.Start, b.End) for b.ArtisanID and inserts b. Returns ErrSlotTaken on
	// overlap, ErrTransient on serialization conflict.
	CreateWithSlotCheck(ctx context.Context, b *models.Booking) error

	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByArtisan(ctx context.Context, artisanID string) ([]models.Booking, error)
	FindOverlapping(ctx context.Context, artisanID string, statuses []models.BookingStatus, start, end time.Time) ([]models.Booking, error)

	// Replace writes b back, matching on its pre-bump Version. Bumps
	// b.Version on success; returns ErrStaleSnapshot if a concurrent
	// transition won.
	Replace(ctx context.Context, b *models.Booking) error

	// ReplaceWithSlotCheck is Replace plus an in-transaction overlap check for
	// b's (possibly changed) interval against the artisan's other active
	// bookings. Used when approving a reschedule.
	ReplaceWithSlotCheck(ctx context.Context, b *models.Booking) error

	// SetChatChannel and SetVideoRoom write provisioning results exactly once;
	// calls against an already-populated field are no-ops.
	SetChatChannel(ctx context.Context, id, channelID string) error
	SetVideoRoom(ctx context.Context, id, name, url string) error

	// EnsureIndexes bootstraps the collection indexes; called once at startup.
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll         *mongo.Collection
	calendarColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &mongoBookingRepo{
		coll:         db.Collection("bookings"),
		calendarColl: db.Collection("calendars"),
	}
}
