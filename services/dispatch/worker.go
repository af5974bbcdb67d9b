package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"craftly/config"
	artisanRepo "craftly/database/repository/artisan"
	bookingRepo "craftly/database/repository/booking"
	userRepo "craftly/database/repository/user"
	"craftly/models"
	"craftly/services/chat"
	"craftly/services/notification"
	"craftly/services/video"
)

// Worker consumes side-effect tasks. Each responsibility is idempotent: the
// set-once chat/video fields make redelivery safe.
type Worker struct {
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Artisans artisanRepo.ArtisanRepository
	Chat     chat.ChatService
	Video    video.VideoService
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

// Run starts the asynq server in the background.
func (w *Worker) Run() {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeProvision, w.HandleProvision)
	mux.HandleFunc(TypeNotify, w.HandleNotify)

	go func() {
		log.Println("[SideEffectWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[SideEffectWorker] failed to start worker: %v", err)
		}
	}()
}

// HandleProvision ensures the chat channel and video room for a confirmed
// booking exist. Chat and video are provisioned independently so one provider
// being down never blocks the other; any failure is returned so asynq retries.
func (w *Worker) HandleProvision(ctx context.Context, task *asynq.Task) error {
	var p ProvisionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.Logger.Error("provision: invalid payload", zap.Error(err))
		return nil // malformed payloads never become deliverable; drop
	}

	b, err := w.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return fmt.Errorf("provision: failed to load booking %s: %w", p.BookingID, err)
	}
	if b.Status != models.BookingStatusConfirmed {
		// Cancelled between enqueue and delivery; nothing to provision.
		return nil
	}

	chatErr := w.provisionChat(ctx, b)
	if chatErr != nil {
		w.Logger.Warn("provision: chat channel failed",
			zap.String("bookingId", b.ID), zap.Error(chatErr))
	}
	videoErr := w.provisionVideo(ctx, b)
	if videoErr != nil {
		w.Logger.Warn("provision: video room failed",
			zap.String("bookingId", b.ID), zap.Error(videoErr))
	}
	return errors.Join(chatErr, videoErr)
}

func (w *Worker) provisionChat(ctx context.Context, b *models.Booking) error {
	if b.ChatChannelID != "" {
		return nil
	}

	u, err := w.Users.GetByID(ctx, b.UserID)
	if err != nil {
		return fmt.Errorf("user lookup: %w", err)
	}
	a, err := w.Artisans.GetByID(ctx, b.ArtisanID)
	if err != nil {
		return fmt.Errorf("artisan lookup: %w", err)
	}

	if err := w.Chat.EnsureUser(ctx, u.ID, u.Name, models.OwnerTypeUser); err != nil {
		return fmt.Errorf("ensure chat user: %w", err)
	}
	if err := w.Chat.EnsureUser(ctx, a.ID, a.Name, models.OwnerTypeArtisan); err != nil {
		return fmt.Errorf("ensure chat artisan: %w", err)
	}

	channelID, err := w.Chat.EnsureDirectChannel(ctx, u.ID, a.ID)
	if err != nil {
		return fmt.Errorf("ensure channel: %w", err)
	}
	if err := w.Bookings.SetChatChannel(ctx, b.ID, channelID); err != nil {
		return fmt.Errorf("store channel id: %w", err)
	}

	kickoff := fmt.Sprintf("Booking confirmed: %s on %s. Use this chat to coordinate.",
		bookingLabel(b), b.Start.Format("2 January, 3:04 PM"))
	if err := w.Chat.PostMessage(ctx, channelID, a.ID, kickoff); err != nil {
		// Channel exists and is stored; a missing kickoff message is not worth
		// a redelivery that could post it twice.
		w.Logger.Warn("provision: kickoff message failed",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
	return nil
}

func (w *Worker) provisionVideo(ctx context.Context, b *models.Booking) error {
	if b.VideoRoomName != "" {
		return nil
	}

	room, err := w.Video.CreatePrivateRoom(ctx, "booking-"+b.ID, 2)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	if room == nil {
		return nil
	}
	if err := w.Bookings.SetVideoRoom(ctx, b.ID, room.Name, room.URL); err != nil {
		return fmt.Errorf("store room: %w", err)
	}
	return nil
}

// HandleNotify delivers one lifecycle notification. Delivery failures are
// logged and swallowed; a notification is never worth failing a transition
// that already committed.
func (w *Worker) HandleNotify(ctx context.Context, task *asynq.Task) error {
	var p NotifyPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.Logger.Error("notify: invalid payload", zap.Error(err))
		return nil
	}

	b, err := w.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		w.Logger.Warn("notify: failed to load booking",
			zap.String("bookingId", p.BookingID), zap.Error(err))
		return nil
	}

	n, ok := buildNotification(b, p.Event, p.ActorID)
	if !ok {
		w.Logger.Warn("notify: unknown event", zap.String("event", p.Event))
		return nil
	}

	if err := w.Notifier.Notify(ctx, n); err != nil {
		w.Logger.Warn("notify: delivery failed",
			zap.String("bookingId", b.ID), zap.String("event", p.Event), zap.Error(err))
	}
	return nil
}

// buildNotification decides recipient and copy for one lifecycle event.
func buildNotification(b *models.Booking, event, actorID string) (models.Notification, bool) {
	when := b.Start.Format("2 January, 3:04 PM")
	label := bookingLabel(b)
	url := "/bookings/" + b.ID

	var ownerID, ownerType, title, text string

	switch event {
	case EventCreated:
		ownerID, ownerType = b.ArtisanID, models.OwnerTypeArtisan
		title = "New booking request"
		text = fmt.Sprintf("You have a new request for %s on %s.", label, when)
	case EventConfirmed:
		ownerID, ownerType = b.UserID, models.OwnerTypeUser
		title = "Booking confirmed"
		text = fmt.Sprintf("Your booking for %s on %s has been confirmed.", label, when)
	case EventRejected:
		ownerID, ownerType = b.UserID, models.OwnerTypeUser
		title = "Booking declined"
		text = fmt.Sprintf("Your request for %s was declined.", label)
		if b.RejectionReason != "" {
			text += " Reason: " + b.RejectionReason
		}
	case EventCancelled:
		ownerID = b.Counterparty(actorID)
		ownerType = ownerTypeFor(b, ownerID)
		title = "Booking cancelled"
		text = fmt.Sprintf("The booking for %s on %s was cancelled.", label, when)
		if b.CancellationReason != "" {
			text += " Reason: " + b.CancellationReason
		}
	case EventCompleted:
		ownerID, ownerType = b.UserID, models.OwnerTypeUser
		title = "Booking completed"
		text = fmt.Sprintf("Your booking for %s is complete. Leave a review to help others.", label)
	case EventModificationRequested:
		ownerID = b.Counterparty(actorID)
		ownerType = ownerTypeFor(b, ownerID)
		title = "Reschedule requested"
		if b.Modification != nil {
			text = fmt.Sprintf("A new time was proposed for %s: %s.",
				label, b.Modification.NewStart.Format("2 January, 3:04 PM"))
		} else {
			text = fmt.Sprintf("A new time was proposed for %s.", label)
		}
	case EventModificationApproved:
		ownerID = b.Counterparty(actorID)
		ownerType = ownerTypeFor(b, ownerID)
		title = "Reschedule approved"
		text = fmt.Sprintf("The booking for %s now starts on %s.", label, when)
	case EventModificationRejected:
		ownerID = b.Counterparty(actorID)
		ownerType = ownerTypeFor(b, ownerID)
		title = "Reschedule declined"
		text = fmt.Sprintf("The proposed new time for %s was declined; the original time stands.", label)
	default:
		return models.Notification{}, false
	}

	return models.Notification{
		OwnerID:   ownerID,
		OwnerType: ownerType,
		Title:     title,
		Text:      text,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}, true
}

func ownerTypeFor(b *models.Booking, id string) string {
	if id == b.ArtisanID {
		return models.OwnerTypeArtisan
	}
	return models.OwnerTypeUser
}

func bookingLabel(b *models.Booking) string {
	if b.ServiceName != "" {
		return b.ServiceName
	}
	return "your appointment"
}
