package models

import "time"

// BookingStatus tracks where a booking sits in its lifecycle.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// ActiveStatuses are the statuses that occupy a slot on the artisan's calendar.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// ModificationStatus tracks a reschedule proposal.
type ModificationStatus string

const (
	ModificationStatusPending  ModificationStatus = "pending"
	ModificationStatusApproved ModificationStatus = "approved"
	ModificationStatusRejected ModificationStatus = "rejected"
)

// ModificationRequest is a proposed change to a booking's interval. The
// counterparty of whoever requested it must approve before it takes effect.
type ModificationRequest struct {
	NewStart    time.Time          `bson:"newStart" json:"newStart"`
	NewEnd      time.Time          `bson:"newEnd" json:"newEnd"`
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
	RequestedBy string             `bson:"requestedBy" json:"requestedBy"` // user or artisan ID
	RequestedAt time.Time          `bson:"requestedAt" json:"requestedAt"`
	Status      ModificationStatus `bson:"status" json:"status"`
}

// Booking is the central record: one user reserving one interval on one
// artisan's calendar. Bookings are never deleted; terminal statuses keep the
// record around for history queries.
type Booking struct {
	ID        string    `bson:"id" json:"id"`
	ArtisanID string    `bson:"artisanId" json:"artisanId"`
	UserID    string    `bson:"userId" json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	// Service context, denormalized at creation so later catalog edits do not
	// rewrite historical bookings.
	ServiceID       string  `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	ServiceName     string  `bson:"serviceName,omitempty" json:"serviceName,omitempty"`
	CategoryName    string  `bson:"categoryName,omitempty" json:"categoryName,omitempty"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
	Price           float64 `bson:"price" json:"price"` // server-derived, never taken from the caller

	Start time.Time `bson:"start" json:"start"` // UTC
	End   time.Time `bson:"end" json:"end"`     // UTC, exclusive

	Status BookingStatus `bson:"status" json:"status"`
	Notes  string        `bson:"notes,omitempty" json:"notes,omitempty"`

	RejectionReason    string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CancellationReason string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy        string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	RespondedAt        *time.Time `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	// Nil means no modification request has ever been made or the last one was
	// resolved and replaced. At most one request has Status pending at a time.
	Modification *ModificationRequest `bson:"modification,omitempty" json:"modification,omitempty"`

	// Set-once provisioning fields, populated by the side-effect worker after
	// confirmation. Never overwritten once non-empty.
	ChatChannelID string `bson:"chatChannelId,omitempty" json:"chatChannelId,omitempty"`
	VideoRoomName string `bson:"videoRoomName,omitempty" json:"videoRoomName,omitempty"`
	VideoRoomURL  string `bson:"videoRoomUrl,omitempty" json:"videoRoomUrl,omitempty"`

	// Version is bumped on every transition; replace operations match on it so
	// a stale snapshot can never silently overwrite a concurrent transition.
	Version int64 `bson:"version" json:"-"`
}

// IsActive reports whether the booking still occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsParty reports whether id is one of the two booking parties.
func (b *Booking) IsParty(id string) bool {
	return id == b.UserID || id == b.ArtisanID
}

// Counterparty returns the other party of the booking relative to id.
func (b *Booking) Counterparty(id string) string {
	if id == b.UserID {
		return b.ArtisanID
	}
	return b.UserID
}

// HasPendingModification reports whether a reschedule proposal is awaiting a
// response.
func (b *Booking) HasPendingModification() bool {
	return b.Modification != nil && b.Modification.Status == ModificationStatusPending
}

// Overlaps reports whether [start, end) intersects the booking's interval.
// Intervals are half-open, so back-to-back bookings do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}
