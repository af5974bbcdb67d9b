package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingRepo "craftly/database/repository/booking"
	"craftly/models"
	"craftly/utils"
)

// Respond lets the artisan accept or reject a pending booking.
func (svc *DefaultBookingService) Respond(ctx context.Context, bookingID, actorID, action, reason string) (*models.Booking, error) {
	b, err := svc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != b.ArtisanID {
		return nil, newError(CodeForbidden, "only the artisan can respond to a booking request")
	}
	if action != ActionAccept && action != ActionReject {
		return nil, newError(CodeInvalidAction, "unknown action %q", action)
	}
	if b.Status != models.BookingStatusPending {
		return nil, newError(CodeAlreadyHandled, "booking is already %s", b.Status)
	}

	now := time.Now().UTC()
	b.RespondedAt = &now
	if action == ActionAccept {
		b.Status = models.BookingStatusConfirmed
		b.RejectionReason = ""
	} else {
		b.Status = models.BookingStatusRejected
		b.RejectionReason = reason
		closePendingModification(b)
	}

	if err := svc.commit(ctx, b); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking response recorded",
		zap.String("bookingId", b.ID), zap.String("action", action))

	if b.Status == models.BookingStatusConfirmed {
		svc.Dispatch.BookingConfirmed(b)
	} else {
		svc.Dispatch.BookingRejected(b)
	}
	return b, nil
}

// Cancel lets either party cancel a pending or confirmed booking.
func (svc *DefaultBookingService) Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	b, err := svc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(actorID) {
		return nil, newError(CodeForbidden, "only a booking party can cancel it")
	}
	if !b.IsActive() {
		return nil, newError(CodeInvalidState, "cannot cancel a %s booking", b.Status)
	}

	b.Status = models.BookingStatusCancelled
	b.CancellationReason = reason
	b.CancelledBy = actorID
	closePendingModification(b)

	if err := svc.commit(ctx, b); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingId", b.ID), zap.String("cancelledBy", actorID))

	svc.Dispatch.BookingCancelled(b, actorID)
	return b, nil
}

// Complete lets the artisan mark a confirmed booking as done.
func (svc *DefaultBookingService) Complete(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := svc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != b.ArtisanID {
		return nil, newError(CodeForbidden, "only the artisan can complete a booking")
	}
	if b.Status != models.BookingStatusConfirmed {
		return nil, newError(CodeInvalidState, "cannot complete a %s booking", b.Status)
	}

	now := time.Now().UTC()
	b.Status = models.BookingStatusCompleted
	b.CompletedAt = &now
	closePendingModification(b)

	if err := svc.commit(ctx, b); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking completed", zap.String("bookingId", b.ID))

	svc.Dispatch.BookingCompleted(b)
	return b, nil
}

// closePendingModification rejects a live reschedule proposal when the
// booking leaves its active states. A terminal booking must never carry a
// pending request, or the counterparty could approve it afterwards and move
// the interval of a booking that no longer occupies its slot.
func closePendingModification(b *models.Booking) {
	if b.HasPendingModification() {
		b.Modification.Status = models.ModificationStatusRejected
	}
}

// load fetches the latest committed snapshot, mapping repo errors.
func (svc *DefaultBookingService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, newError(CodeNotFound, "booking %s not found", bookingID)
		}
		return nil, fmt.Errorf("booking lookup failed: %w", err)
	}
	return b, nil
}

// commit writes the mutated snapshot back. A version mismatch means a
// concurrent transition won; the caller may retry against the fresh state.
func (svc *DefaultBookingService) commit(ctx context.Context, b *models.Booking) error {
	if err := svc.Repo.Replace(ctx, b); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStaleSnapshot), errors.Is(err, bookingRepo.ErrTransient):
			return newError(CodeTransientStore, "booking was changed concurrently, please retry")
		case errors.Is(err, bookingRepo.ErrNotFound):
			return newError(CodeNotFound, "booking %s not found", b.ID)
		}
		return fmt.Errorf("transition commit failed: %w", err)
	}
	return nil
}
