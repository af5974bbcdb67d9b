package dispatch

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"craftly/config"
	"craftly/models"
)

// Dispatcher fires the side effects of a committed booking transition. Every
// method is best-effort: the transition is already durable, so nothing here
// returns an error to the caller.
type Dispatcher interface {
	BookingCreated(b *models.Booking)
	BookingConfirmed(b *models.Booking)
	BookingRejected(b *models.Booking)
	BookingCancelled(b *models.Booking, cancelledBy string)
	BookingCompleted(b *models.Booking)
	ModificationRequested(b *models.Booking)
	ModificationResolved(b *models.Booking, approved bool)
}

// AsynqDispatcher enqueues side-effect tasks on the Redis-backed queue; the
// worker picks them up outside the request path.
type AsynqDispatcher struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewAsynqDispatcher connects a queue client from app config.
func NewAsynqDispatcher(logger *zap.Logger) *AsynqDispatcher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqDispatcher{Client: client, Logger: logger}
}

func (d *AsynqDispatcher) BookingCreated(b *models.Booking) {
	d.notify(b.ID, EventCreated, b.UserID)
}

func (d *AsynqDispatcher) BookingConfirmed(b *models.Booking) {
	d.provision(b.ID)
	d.notify(b.ID, EventConfirmed, b.ArtisanID)
}

func (d *AsynqDispatcher) BookingRejected(b *models.Booking) {
	d.notify(b.ID, EventRejected, b.ArtisanID)
}

func (d *AsynqDispatcher) BookingCancelled(b *models.Booking, cancelledBy string) {
	d.notify(b.ID, EventCancelled, cancelledBy)
}

func (d *AsynqDispatcher) BookingCompleted(b *models.Booking) {
	d.notify(b.ID, EventCompleted, b.ArtisanID)
}

func (d *AsynqDispatcher) ModificationRequested(b *models.Booking) {
	actor := ""
	if b.Modification != nil {
		actor = b.Modification.RequestedBy
	}
	d.notify(b.ID, EventModificationRequested, actor)
}

func (d *AsynqDispatcher) ModificationResolved(b *models.Booking, approved bool) {
	event := EventModificationRejected
	if approved {
		event = EventModificationApproved
	}
	requester := ""
	if b.Modification != nil {
		requester = b.Modification.RequestedBy
	}
	d.notify(b.ID, event, b.Counterparty(requester))
}

func (d *AsynqDispatcher) provision(bookingID string) {
	task, err := NewProvisionTask(bookingID)
	if err != nil {
		d.Logger.Error("dispatch: failed to build provision task",
			zap.String("bookingId", bookingID), zap.Error(err))
		return
	}
	if _, err := d.Client.Enqueue(task); err != nil {
		d.Logger.Error("dispatch: failed to enqueue provision task",
			zap.String("bookingId", bookingID), zap.Error(err))
	}
}

func (d *AsynqDispatcher) notify(bookingID, event, actorID string) {
	task, err := NewNotifyTask(bookingID, event, actorID)
	if err != nil {
		d.Logger.Error("dispatch: failed to build notify task",
			zap.String("bookingId", bookingID), zap.String("event", event), zap.Error(err))
		return
	}
	if _, err := d.Client.Enqueue(task); err != nil {
		d.Logger.Error("dispatch: failed to enqueue notify task",
			zap.String("bookingId", bookingID), zap.String("event", event), zap.Error(err))
	}
}
