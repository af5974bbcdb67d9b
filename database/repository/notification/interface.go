// File: database/repository/notification/interface.go
package notificationRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"craftly/database"
	"craftly/models"
)

// NotificationRepository stores the in-app notification history.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListByOwner(ctx context.Context, ownerID, ownerType string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, ownerID string) error
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo constructs a new MongoDB NotificationRepository.
func NewMongoNotificationRepo() NotificationRepository {
	return &mongoNotificationRepo{coll: database.DB().Collection("notifications")}
}
