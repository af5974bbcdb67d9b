package booking

import (
	"context"
	"fmt"

	"craftly/models"
)

// GetBooking returns one booking; only its two parties may read it.
func (svc *DefaultBookingService) GetBooking(ctx context.Context, bookingID, callerID string) (*models.Booking, error) {
	b, err := svc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(callerID) {
		return nil, newError(CodeForbidden, "not a party to this booking")
	}
	return b, nil
}

// ListForUser returns the user's booking history, newest first.
func (svc *DefaultBookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := svc.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

// ListForArtisan returns the artisan's booking history, newest first.
func (svc *DefaultBookingService) ListForArtisan(ctx context.Context, artisanID string) ([]models.Booking, error) {
	bookings, err := svc.Repo.ListByArtisan(ctx, artisanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for artisan %s: %w", artisanID, err)
	}
	return bookings, nil
}
