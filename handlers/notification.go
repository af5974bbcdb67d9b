package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	notificationRepo "craftly/database/repository/notification"
	"craftly/middleware"
)

// NotificationHandler serves the in-app notification inbox.
type NotificationHandler struct {
	Repo   notificationRepo.NotificationRepository
	Logger *zap.Logger
}

func NewNotificationHandler(repo notificationRepo.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{Repo: repo, Logger: logger}
}

// List returns the caller's most recent notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	ownerID := c.GetString(middleware.CtxCallerID)
	ownerType := c.GetString(middleware.CtxCallerRole)

	notifications, err := h.Repo.ListByOwner(c.Request.Context(), ownerID, ownerType, 50)
	if err != nil {
		h.Logger.Error("failed to list notifications", zap.String("ownerId", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ownerID := c.GetString(middleware.CtxCallerID)

	if err := h.Repo.MarkRead(c.Request.Context(), c.Param("id"), ownerID); err != nil {
		h.Logger.Error("failed to mark notification read", zap.String("ownerId", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
