package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "roadshare-backend/internal/api/http"
	"roadshare-backend/internal/config"
	"roadshare-backend/internal/logger"
	"roadshare-backend/internal/repository/postgres"
	"roadshare-backend/internal/security"
	"roadshare-backend/internal/service"
	"roadshare-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Roadshare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.Auth.JWTSecret)
	var firebaseVerifier *security.FirebaseVerifier
	if cfg.Auth.Provider == "firebase" {
		firebaseVerifier, err = security.NewFirebaseVerifier(context.Background(), cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentials)
		if err != nil {
			logger.Error("Failed to initialize firebase verifier", "error", err)
			log.Fatalf("Failed to initialize firebase verifier: %v", err)
		}
		logger.Info("Firebase identity verification enabled", "project_id", cfg.Auth.FirebaseProjectID)
	}

	// Initialize Storage Service
	var storageService storage.StorageInterface
	var mockStorage *storage.MockStorageService
	if cfg.Storage.Type == "" || cfg.Storage.Type == "mock" {
		logger.Info("Using mock storage (local filesystem)", "upload_dir", cfg.Storage.UploadDir)
		mockStorage, err = storage.NewMockStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize mock storage", "error", err)
			log.Fatalf("Failed to initialize mock storage: %v", err)
		}
		storageService = mockStorage
	} else {
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	paymentSvc := service.NewPaymentService(
		cfg.Payment.BaseURL,
		cfg.Payment.APIKey,
		time.Duration(cfg.Payment.TimeoutSeconds)*time.Second,
	)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.VehicleRepository,
		store.ConditionPhotoRepository,
		store.AuditEventRepository,
		store.NotificationRepository,
		storageService,
	)
	adminSvc := service.NewAdminService(
		store.RentalRepository,
		store.ConditionPhotoRepository,
		store.AuditEventRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
		paymentSvc,
	)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Build router
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager, firebaseVerifier, store.UserRepository)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		AuthSvc:     authSvc,
		RentalSvc:   rentalSvc,
		AdminSvc:    adminSvc,
		VehicleSvc:  vehicleSvc,
		NoteSvc:     noteSvc,
		Auth:        authMiddleware,
		MockStorage: mockStorage,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
