// File: craftly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"craftly/config"
	"craftly/database"
	artisanRepo "craftly/database/repository/artisan"
	bookingRepo "craftly/database/repository/booking"
	catalogRepo "craftly/database/repository/catalog"
	notificationRepo "craftly/database/repository/notification"
	userRepo "craftly/database/repository/user"
	"craftly/handlers"
	"craftly/middleware"
	"craftly/routes"
	"craftly/services/booking"
	"craftly/services/chat"
	"craftly/services/dispatch"
	"craftly/services/notification"
	"craftly/services/video"
	"craftly/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(routes.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	artisans := artisanRepo.NewMongoArtisanRepo()
	users := userRepo.NewMongoUserRepo()
	catalog := catalogRepo.NewMongoCatalogRepo()
	notifications := notificationRepo.NewMongoNotificationRepo()

	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:     notifications,
		Users:    users,
		Artisans: artisans,
	}
	dispatcher := dispatch.NewAsynqDispatcher(logger)

	bookingService := &booking.DefaultBookingService{
		Repo:     bookings,
		Artisans: artisans,
		Catalog:  catalog,
		Dispatch: dispatcher,
	}

	// Side-effect worker consuming the dispatch queue.
	worker := &dispatch.Worker{
		Bookings: bookings,
		Users:    users,
		Artisans: artisans,
		Chat:     chat.NewHTTPChatService(),
		Video:    video.NewHTTPVideoService(),
		Notifier: notificationService,
		Logger:   logger,
	}
	worker.Run()

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	// handlers and routes.
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	notificationHandler := handlers.NewNotificationHandler(notifications, logger)

	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterNotificationRoutes(router, notificationHandler)
	routes.RegisterHealthRoute(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
