// File: courtflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtflow/config"
	"courtflow/cron"
	"courtflow/database"
	directoryRepo "courtflow/database/repository/directory"
	recordsRepo "courtflow/database/repository/records"
	"courtflow/handlers"
	"courtflow/middleware"
	"courtflow/routes"
	"courtflow/services/directory"
	"courtflow/services/partner"
	"courtflow/services/reservation"
	"courtflow/services/tasks"
	"courtflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitDraftCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	records := recordsRepo.NewMongoRecordRepo()
	dirRepo := directoryRepo.NewMongoDirectoryRepo()

	// partner API client: availability source + booking and link sinks.
	partnerClient := partner.NewClient(config.AppConfig.PartnerBaseURL, config.AppConfig.PartnerAPIKey, logger)

	// deferred payment-link follow-up work.
	queueOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	linkScheduler := tasks.NewScheduler(queueOpts)
	cron.InitLinkWorker(records)

	// services.
	sessionService := &reservation.DefaultReservationSessionService{
		Source:    partnerClient,
		Bookings:  partnerClient,
		Links:     partnerClient,
		Records:   records,
		Validator: &reservation.ValidationEngine{},
		Scheduler: linkScheduler,
	}
	directoryService := &directory.DefaultDirectoryService{
		Repo: dirRepo,
	}

	reservationHandler := handlers.NewReservationHandler(sessionService, records, logger)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)

	// Register routes.
	routes.RegisterRoutes(router, reservationHandler, directoryHandler)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetDraftCacheClient()},
		database.MongoClient,
	)

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

	if err := linkScheduler.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close task scheduler: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
