package jobs

import (
	"motorent-backend/internal/config"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
	"motorent-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals  repository.RentalRepository
	vehicles repository.VehicleRepository
	accounts repository.AccountRepository
	notifier service.Notifier
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	rentals repository.RentalRepository,
	vehicles repository.VehicleRepository,
	accounts repository.AccountRepository,
	notifier service.Notifier,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		rentals:  rentals,
		vehicles: vehicles,
		accounts: accounts,
		notifier: notifier,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.SendDueReminders()
	jr.SendOverdueReminders()
}
