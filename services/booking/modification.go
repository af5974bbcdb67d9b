package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "craftly/database/repository/booking"
	"craftly/models"
	"craftly/utils"
)

// RequestModification records a reschedule proposal by either party. Only one
// proposal may be awaiting a response at a time; a resolved one is replaced.
func (svc *DefaultBookingService) RequestModification(ctx context.Context, bookingID, actorID string, in ModificationInput) (*models.Booking, error) {
	b, err := svc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(actorID) {
		return nil, newError(CodeForbidden, "only a booking party can request a modification")
	}
	if !b.IsActive() {
		return nil, newError(CodeInvalidState, "cannot modify a %s booking", b.Status)
	}
	if b.HasPendingModification() {
		return nil, newError(CodeModificationConflict, "a modification request is already pending")
	}

	now := time.Now().UTC()
	newStart := in.NewStart.UTC()
	if !newStart.After(now) {
		return nil, newError(CodeInvalidInterval, "new start must be in the future")
	}
	newEnd := in.NewEnd.UTC()
	if in.NewEnd.IsZero() {
		newEnd = newStart.Add(b.End.Sub(b.Start)) // preserve duration
	}
	if !newEnd.After(newStart) {
		return nil, newError(CodeInvalidInterval, "new end must be after new start")
	}

	b.Modification = &models.ModificationRequest{
		NewStart:    newStart,
		NewEnd:      newEnd,
		Reason:      in.Reason,
		RequestedBy: actorID,
		RequestedAt: now,
		Status:      models.ModificationStatusPending,
	}

	if err := svc.commit(ctx, b); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("modification requested",
		zap.String("bookingId", b.ID), zap.String("requestedBy", actorID))

	svc.Dispatch.ModificationRequested(b)
	return b, nil
}

// RespondToModification lets the counterparty approve or reject a pending
// reschedule. Approval moves the booking interval after re-proving the new
// slot is still free on the artisan's calendar.
func (svc *DefaultBookingService) RespondToModification(ctx context.Context, bookingID, actorID, action string) (*models.Booking, error) {
	b, err := svc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(actorID) {
		return nil, newError(CodeForbidden, "only a booking party can respond to a modification")
	}
	if !b.IsActive() {
		return nil, newError(CodeInvalidState, "cannot modify a %s booking", b.Status)
	}
	if !b.HasPendingModification() {
		return nil, newError(CodeModificationConflict, "no modification request is pending")
	}
	if actorID == b.Modification.RequestedBy {
		return nil, newError(CodeInvalidAction, "cannot respond to your own modification request")
	}
	if action != ActionApprove && action != ActionReject {
		return nil, newError(CodeInvalidAction, "unknown action %q", action)
	}

	if action == ActionReject {
		b.Modification.Status = models.ModificationStatusRejected
		if err := svc.commit(ctx, b); err != nil {
			return nil, err
		}
		svc.Dispatch.ModificationResolved(b, false)
		return b, nil
	}

	b.Start = b.Modification.NewStart
	b.End = b.Modification.NewEnd
	b.DurationMinutes = int(b.End.Sub(b.Start) / time.Minute)
	b.Modification.Status = models.ModificationStatusApproved

	// The new interval competes with bookings made since the request, so the
	// overlap proof runs again inside the same transaction as the write.
	if err := svc.Repo.ReplaceWithSlotCheck(ctx, b); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrSlotTaken):
			return nil, newError(CodeSlotConflict, "the proposed time is no longer available")
		case errors.Is(err, bookingRepo.ErrStaleSnapshot), errors.Is(err, bookingRepo.ErrTransient):
			return nil, newError(CodeTransientStore, "booking was changed concurrently, please retry")
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, newError(CodeNotFound, "booking %s not found", b.ID)
		}
		return nil, err
	}

	utils.GetLogger().Info("modification approved",
		zap.String("bookingId", b.ID), zap.Time("newStart", b.Start))

	svc.Dispatch.ModificationResolved(b, true)
	return b, nil
}
