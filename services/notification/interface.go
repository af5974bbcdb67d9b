package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"firebase.google.com/go/v4/messaging"

	artisanRepo "craftly/database/repository/artisan"
	notificationRepo "craftly/database/repository/notification"
	userRepo "craftly/database/repository/user"
	"craftly/models"
	"craftly/utils"
)

// NotificationService records an in-app notification and pushes it to the
// owner's device when one is registered.
type NotificationService interface {
	Notify(ctx context.Context, n models.Notification) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo     notificationRepo.NotificationRepository
	Users    userRepo.UserRepository
	Artisans artisanRepo.ArtisanRepository
}

func (s *DefaultNotificationService) Notify(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := s.Repo.Insert(ctx, &n); err != nil {
		return fmt.Errorf("failed to record notification for %s %s: %w", n.OwnerType, n.OwnerID, err)
	}

	token, err := s.fcmToken(ctx, n.OwnerID, n.OwnerType)
	if err != nil {
		utils.GetLogger().Warn("notification: owner lookup failed, skipping push",
			zap.String("ownerId", n.OwnerID), zap.Error(err))
		return nil
	}
	if token == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Text,
		},
		Data: map[string]string{
			"notificationId": n.ID,
			"role":           n.OwnerType,
			"url":            n.URL,
		},
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		utils.GetLogger().Warn("notification: push send failed",
			zap.String("ownerId", n.OwnerID), zap.Error(err))
	}
	return nil
}

func (s *DefaultNotificationService) fcmToken(ctx context.Context, ownerID, ownerType string) (string, error) {
	switch ownerType {
	case models.OwnerTypeArtisan:
		a, err := s.Artisans.GetByID(ctx, ownerID)
		if err != nil {
			return "", err
		}
		return a.FCMToken, nil
	default:
		u, err := s.Users.GetByID(ctx, ownerID)
		if err != nil {
			return "", err
		}
		return u.FCMToken, nil
	}
}
