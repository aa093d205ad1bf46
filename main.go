package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autocare/config"
	"autocare/cron"
	"autocare/database"
	bookingRepo "autocare/database/repository/booking"
	serviceRepo "autocare/database/repository/service"
	userRepo "autocare/database/repository/user"
	vehicleRepo "autocare/database/repository/vehicle"
	"autocare/handlers"
	"autocare/middleware"
	"autocare/routes"
	"autocare/services/booking"
	"autocare/services/notification"
	"autocare/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	users := userRepo.NewMongoUserRepo()
	vehicles := vehicleRepo.NewMongoVehicleRepo()
	services := serviceRepo.NewMongoServiceRepo()

	// Notification pipeline: events go onto the redis queue, the worker
	// hands them to the sender.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventQueueDB,
	})
	defer asynqClient.Close()
	publisher := notification.NewAsynqPublisher(asynqClient, logger)
	cron.InitNotificationWorker(&notification.LogSender{Logger: logger})

	// Core service.
	lifecycle := booking.NewLifecycleService(
		bookings, users, vehicles, services,
		publisher, utils.GetCacheClient(), logger,
	)
	bookingHandler := handlers.NewBookingHandler(lifecycle, logger)

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient()}, database.MongoClient)

	// Router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, bookingHandler)

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
