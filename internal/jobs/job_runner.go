package jobs

import (
	"vehicle-rental-agency/internal/config"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	agency service.RentalAgency
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(agency service.RentalAgency, cfg *config.Config) *JobRunner {
	return &JobRunner{
		agency: agency,
		config: cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	log := logger.WithComponent("jobs")
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	log.Info("Starting job", "job", jobName)
	jobFunc()
	log.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.LogFleetAvailability()
	jr.LogTransactionReport()
}
