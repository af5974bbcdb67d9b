package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	artisanRepo "craftly/database/repository/artisan"
	bookingRepo "craftly/database/repository/booking"
	catalogRepo "craftly/database/repository/catalog"
	"craftly/models"
	"craftly/utils"
)

// CreateBooking validates the request, then atomically proves the interval is
// free and inserts the booking. For two concurrent overlapping requests on
// the same artisan, exactly one succeeds; the other sees a slot conflict.
func (svc *DefaultBookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if in.UserID == "" {
		return nil, newError(CodeUnauthenticated, "no authenticated caller")
	}

	artisan, err := svc.Artisans.GetByID(ctx, in.ArtisanID)
	if err != nil {
		if errors.Is(err, artisanRepo.ErrNotFound) {
			return nil, newError(CodeNotFound, "artisan %s not found", in.ArtisanID)
		}
		return nil, fmt.Errorf("artisan lookup failed: %w", err)
	}
	if !artisan.Active {
		return nil, newError(CodeInactiveArtisan, "artisan %s is not accepting bookings", in.ArtisanID)
	}

	var service *models.Service
	if in.ServiceID != "" {
		service, err = svc.Catalog.GetService(ctx, in.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				return nil, newError(CodeNotFound, "service %s not found", in.ServiceID)
			}
			return nil, fmt.Errorf("service lookup failed: %w", err)
		}
		if service.ArtisanID != in.ArtisanID {
			return nil, newError(CodeServiceMismatch, "service %s does not belong to artisan %s", in.ServiceID, in.ArtisanID)
		}
	}

	now := time.Now().UTC()
	start := in.Start.UTC()
	if !start.After(now) {
		return nil, newError(CodeInvalidInterval, "start must be in the future")
	}

	duration := DefaultDurationMinutes
	if service != nil && service.DurationMinutes > 0 {
		duration = service.DurationMinutes
	}
	end := in.End.UTC()
	if in.End.IsZero() {
		end = start.Add(time.Duration(duration) * time.Minute)
	}
	if !end.After(start) {
		return nil, newError(CodeInvalidInterval, "end must be after start")
	}

	if len(in.Notes) > MaxNotesLength {
		return nil, newError(CodeInvalidInput, "notes must be at most %d characters", MaxNotesLength)
	}

	b := &models.Booking{
		ID:              uuid.New().String(),
		ArtisanID:       in.ArtisanID,
		UserID:          in.UserID,
		CreatedAt:       now,
		Start:           start,
		End:             end,
		Status:          models.BookingStatusPending,
		Notes:           in.Notes,
		DurationMinutes: int(end.Sub(start) / time.Minute),
	}
	if service != nil {
		b.ServiceID = service.ID
		b.ServiceName = service.Name
		b.CategoryName = service.CategoryName
		b.Price = service.Price
	}

	if err := svc.Repo.CreateWithSlotCheck(ctx, b); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrSlotTaken):
			return nil, newError(CodeSlotConflict, "the requested time is already booked")
		case errors.Is(err, bookingRepo.ErrTransient):
			return nil, newError(CodeTransientStore, "could not reserve the slot, please retry")
		}
		return nil, fmt.Errorf("slot allocation failed: %w", err)
	}

	utils.GetLogger().Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("artisanId", b.ArtisanID),
		zap.Time("start", b.Start))

	svc.Dispatch.BookingCreated(b)
	return b, nil
}
