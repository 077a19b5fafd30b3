package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"motorent-backend/internal/config"
	"motorent-backend/internal/jobs"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository/jsonstore"
	"motorent-backend/internal/scheduler"
	"motorent-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'due-reminders', 'overdue-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MotoRent Job Runner...", "log_level", cfg.Log.Level)

	// Open the snapshot store
	store, err := jsonstore.Open(cfg.Store.Dir)
	if err != nil {
		logger.Error("Failed to open store", "dir", cfg.Store.Dir, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}

	// Initialize Notifier
	var notifier service.Notifier
	if cfg.Email.Enabled {
		notifier = service.NewSendGridNotifier(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	} else {
		notifier = service.NewLogNotifier()
	}

	jobRunner := jobs.NewJobRunner(store.Rentals, store.Vehicles, store.Accounts, notifier, cfg)

	// Run-once mode for manual execution and debugging
	if *runOnce != "" {
		switch *runOnce {
		case "due-reminders":
			jobRunner.SendDueReminders()
		case "overdue-reminders":
			jobRunner.SendOverdueReminders()
		case "all":
			jobRunner.RunAllDailyJobs()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Run-once complete", "job", *runOnce)
		return
	}

	// Scheduled mode
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")
	sched.Stop()
	logger.Info("Shutdown complete")
}
