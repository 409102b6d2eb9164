package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetrent/service-reservation/internal/application"
	"github.com/fleetrent/service-reservation/internal/config"
	"github.com/fleetrent/service-reservation/internal/database"
	"github.com/fleetrent/service-reservation/internal/domain/fleet"
	"github.com/fleetrent/service-reservation/internal/events"
	"github.com/fleetrent/service-reservation/internal/handler"
	"github.com/fleetrent/service-reservation/internal/logger"
	"github.com/fleetrent/service-reservation/internal/middleware"
	"github.com/fleetrent/service-reservation/internal/repository"
)

const serviceName = "service-reservation"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to access database handle", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()

	// Run database migrations
	if err := database.RunMigrations(cfg.DB.DatabaseURL(), "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize Kafka producer and the lifecycle publisher
	producer := events.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()
	publisher := events.NewReservationPublisher(producer, cfg.Kafka.ReservationTopic, log)

	// Initialize repositories
	vehicleRepo := repository.NewGormVehicleRepository(db)
	reservationRepo := repository.NewGormReservationRepository(db)
	clientRepo := repository.NewGormClientRepository(db)

	// Initialize application services
	clock := fleet.RealClock{}
	fleetService := application.NewFleetService(vehicleRepo, reservationRepo, publisher, clock, log)
	reservationService := application.NewReservationService(fleetService, reservationRepo, clientRepo, publisher, clock, log)
	clientService := application.NewClientService(clientRepo, reservationRepo, cfg.Pricing.LoyaltyThreshold, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := fleetService.Load(ctx); err != nil {
		log.Fatal("failed to load fleet", zap.Error(err))
	}

	// Start the vehicle return consumer in a goroutine
	groupID := cfg.Kafka.GroupPrefix + "reservation-service"
	returnConsumer := events.NewVehicleReturnConsumer(
		cfg.Kafka.Brokers,
		groupID,
		cfg.Kafka.VehicleReturnTopic,
		reservationService,
		log,
	)
	defer func() { _ = returnConsumer.Close() }()

	go func() {
		log.Info("starting vehicle return consumer", zap.String("topic", cfg.Kafka.VehicleReturnTopic))
		if err := returnConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("vehicle return consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register routes
	handler.NewHealthHandler(sqlDB, serviceName).RegisterRoutes(router)
	handler.NewVehicleHandler(fleetService).RegisterRoutes(&router.RouterGroup)
	handler.NewReservationHandler(reservationService).RegisterRoutes(&router.RouterGroup)
	handler.NewClientHandler(clientService).RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
