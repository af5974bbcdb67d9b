package booking

import (
	"context"
	"time"

	artisanRepo "craftly/database/repository/artisan"
	bookingRepo "craftly/database/repository/booking"
	catalogRepo "craftly/database/repository/catalog"
	"craftly/models"
	"craftly/services/dispatch"
)

// Response actions.
const (
	ActionAccept  = "accept"
	ActionReject  = "reject"
	ActionApprove = "approve"
)

// MaxNotesLength bounds the requester's free-text notes.
const MaxNotesLength = 500

// DefaultDurationMinutes applies when neither an explicit end nor a service
// duration is given.
const DefaultDurationMinutes = 60

// CreateBookingInput carries everything the caller may supply when reserving
// a slot. Price is deliberately absent: it is always derived server-side.
type CreateBookingInput struct {
	UserID    string
	ArtisanID string
	ServiceID string
	Start     time.Time
	End       time.Time // zero means derive from service duration
	Notes     string
}

// ModificationInput is a proposed reschedule.
type ModificationInput struct {
	NewStart time.Time
	NewEnd   time.Time // zero means preserve the booking's current duration
	Reason   string
}

// BookingService is the surface the transport layer calls. Every method
// returns the updated booking snapshot or a *BookingError.
type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, callerID string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListForArtisan(ctx context.Context, artisanID string) ([]models.Booking, error)
	Respond(ctx context.Context, bookingID, actorID, action, reason string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	RequestModification(ctx context.Context, bookingID, actorID string, in ModificationInput) (*models.Booking, error)
	RespondToModification(ctx context.Context, bookingID, actorID, action string) (*models.Booking, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Artisans artisanRepo.ArtisanRepository
	Catalog  catalogRepo.CatalogRepository
	Dispatch dispatch.Dispatcher
}
