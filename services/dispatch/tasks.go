package dispatch

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TypeProvision provisions the chat channel and video room for a
	// confirmed booking.
	TypeProvision = "booking:provision"
	// TypeNotify delivers one lifecycle notification.
	TypeNotify = "booking:notify"
)

// Booking lifecycle events carried by notify tasks.
const (
	EventCreated               = "created"
	EventConfirmed             = "confirmed"
	EventRejected              = "rejected"
	EventCancelled             = "cancelled"
	EventCompleted             = "completed"
	EventModificationRequested = "modification_requested"
	EventModificationApproved  = "modification_approved"
	EventModificationRejected  = "modification_rejected"
)

// ProvisionPayload identifies the booking to provision.
type ProvisionPayload struct {
	BookingID string `json:"bookingId"`
}

// NotifyPayload identifies the booking, what happened, and who acted.
type NotifyPayload struct {
	BookingID string `json:"bookingId"`
	Event     string `json:"event"`
	ActorID   string `json:"actorId,omitempty"`
}

// NewProvisionTask builds an asynq task for chat/video provisioning.
func NewProvisionTask(bookingID string) (*asynq.Task, error) {
	b, err := json.Marshal(ProvisionPayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProvision, b, asynq.MaxRetry(5)), nil
}

// NewNotifyTask builds an asynq task for one lifecycle notification.
func NewNotifyTask(bookingID, event, actorID string) (*asynq.Task, error) {
	b, err := json.Marshal(NotifyPayload{BookingID: bookingID, Event: event, ActorID: actorID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotify, b, asynq.MaxRetry(3)), nil
}
