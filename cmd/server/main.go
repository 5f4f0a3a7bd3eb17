package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "vehicle-rental-agency/internal/api/grpc"
	httpapi "vehicle-rental-agency/internal/api/http"
	"vehicle-rental-agency/internal/config"
	"vehicle-rental-agency/internal/jobs"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/repository/memory"
	"vehicle-rental-agency/internal/repository/postgres"
	"vehicle-rental-agency/internal/scheduler"
	"vehicle-rental-agency/internal/security"
	"vehicle-rental-agency/internal/service"

	_ "github.com/lib/pq"
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
	logger.Info("Starting Vehicle Rental Agency...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Storage configuration", "type", cfg.Storage.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	var (
		agency service.RentalAgency
		check  grpcapi.HealthCheck
	)
	emailSvc := newEmailService(cfg)

	switch cfg.Storage.Type {
	case config.StoragePostgres:
		logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Test database connection
		if err := db.PingContext(ctx); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		agency = service.NewRentalAgency(store.VehicleRepository, store.CustomerRepository, store.TransactionRepository, emailSvc)
		check = store.Ping
	default:
		store := memory.NewStore()
		agency = service.NewRentalAgency(store.VehicleRepository, store.CustomerRepository, store.TransactionRepository, emailSvc)
		check = func(context.Context) error { return nil }
	}

	n, err := service.SeedFleet(ctx, agency, cfg.Fleet)
	if err != nil {
		log.Fatalf("Failed to seed fleet: %v", err)
	}
	logger.Info("Fleet seeded", "vehicles", n)

	// Initialize Security
	var tokenManager security.TokenManager
	if cfg.AuthEnabled() {
		tokenManager = security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	} else {
		logger.Warn("JWT secret not configured, staff routes are unauthenticated")
	}
	authSvc := service.NewAuthService(cfg.Auth.StaffUsername, cfg.Auth.StaffPasswordHash, tokenManager)

	// Set up HTTP server
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(agency, authSvc, tokenManager),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Set up gRPC health server
	var healthServer *grpcapi.HealthServer
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		healthServer = grpcapi.NewHealthServer()
		go healthServer.Monitor(ctx, 15*time.Second, check)
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	// Start scheduler in-process
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		cronScheduler, err = scheduler.NewScheduler(jobs.NewJobRunner(agency, cfg))
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down...")
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	if healthServer != nil {
		healthServer.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

func newEmailService(cfg *config.Config) service.EmailService {
	if cfg.SendGrid.APIKey == "" {
		logger.Info("SendGrid API key not configured, rental receipts disabled")
		return service.NewNoopEmailService()
	}
	return service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
}
