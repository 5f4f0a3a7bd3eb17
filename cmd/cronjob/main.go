package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"vehicle-rental-agency/internal/config"
	"vehicle-rental-agency/internal/jobs"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/repository/memory"
	"vehicle-rental-agency/internal/repository/postgres"
	"vehicle-rental-agency/internal/scheduler"
	"vehicle-rental-agency/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'transaction-report', 'fleet-availability', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Vehicle Rental Cronjob Runner...", "log_level", cfg.Log.Level, "storage", cfg.Storage.Type)

	var agency service.RentalAgency
	if cfg.Storage.Type == config.StoragePostgres {
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		agency = service.NewRentalAgency(store.VehicleRepository, store.CustomerRepository, store.TransactionRepository, service.NewNoopEmailService())
	} else {
		// A memory store only sees the seeded fleet; useful for trying the jobs out
		logger.Warn("Cronjob runner is using the in-memory store")
		store := memory.NewStore()
		agency = service.NewRentalAgency(store.VehicleRepository, store.CustomerRepository, store.TransactionRepository, service.NewNoopEmailService())
		if _, err := service.SeedFleet(context.Background(), agency, cfg.Fleet); err != nil {
			log.Fatalf("Failed to seed fleet: %v", err)
		}
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(agency, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "transaction-report":
		jobRunner.LogTransactionReport()
	case "fleet-availability":
		jobRunner.LogFleetAvailability()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - transaction-report\n")
		fmt.Printf("  - fleet-availability\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
