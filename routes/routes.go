package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"craftly/handlers"
	"craftly/middleware"
	"craftly/utils"
)

// RegisterBookingRoutes registers all endpoints for the booking core.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", middleware.RequireRole(middleware.RoleUser), bh.CreateBooking)
		api.GET("/mine", middleware.RequireRole(middleware.RoleUser), bh.ListMyBookings)
		api.GET("/calendar", middleware.RequireRole(middleware.RoleArtisan), bh.ListArtisanBookings)
		api.GET("/:id", bh.GetBooking)

		api.POST("/:id/respond", middleware.RequireRole(middleware.RoleArtisan), bh.Respond)
		api.POST("/:id/cancel", bh.Cancel)
		api.POST("/:id/complete", middleware.RequireRole(middleware.RoleArtisan), bh.Complete)

		api.POST("/:id/modification", bh.RequestModification)
		api.POST("/:id/modification/respond", bh.RespondToModification)
	}
}

// RegisterNotificationRoutes registers the in-app notification inbox.
func RegisterNotificationRoutes(r *gin.Engine, nh *handlers.NotificationHandler) {
	api := r.Group("/api/notifications")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("", nh.List)
		api.POST("/:id/read", nh.MarkRead)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// CORSMiddleware returns the shared CORS policy.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
