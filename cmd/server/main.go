package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "motorent-backend/internal/api/http"
	"motorent-backend/internal/config"
	"motorent-backend/internal/jobs"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/render"
	"motorent-backend/internal/repository/jsonstore"
	"motorent-backend/internal/scheduler"
	"motorent-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MotoRent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Store configuration", "dir", cfg.Store.Dir)

	// Open the snapshot store
	store, err := jsonstore.Open(cfg.Store.Dir)
	if err != nil {
		logger.Error("Failed to open store", "dir", cfg.Store.Dir, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	logger.Info("Store opened")

	// Initialize Notifier
	var notifier service.Notifier
	if cfg.Email.Enabled {
		notifier = service.NewSendGridNotifier(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
		logger.Info("Email notifications enabled", "from", cfg.Email.FromEmail)
	} else {
		notifier = service.NewLogNotifier()
		logger.Info("Email notifications disabled, logging instead")
	}

	// Initialize Services
	locks := service.NewLockSet()
	status := service.NewStatusEngine(store.Rentals, store.Maintenance, cfg.Policy.CriticalSeverity)
	renderer := render.NewPDFTicketRenderer("MotoRent")

	ticketService := service.NewTicketService(store.Rentals, store.Vehicles, status, locks)
	reservationService := service.NewReservationService(
		store.Rentals,
		store.Vehicles,
		store.Maintenance,
		store.Accounts,
		ticketService,
		notifier,
		renderer,
		status,
		locks,
		cfg.Policy.BufferDays,
		cfg.Policy.LatePenalty,
		cfg.Policy.AdminAlertSeverity,
	)
	maintenanceService := service.NewMaintenanceService(
		store.Maintenance,
		store.Vehicles,
		store.Accounts,
		notifier,
		status,
		locks,
		cfg.Policy.CriticalSeverity,
		cfg.Policy.AdminAlertSeverity,
	)
	vehicleService := service.NewVehicleService(store.Vehicles, store.Rentals, status, locks)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(store.Rentals, store.Vehicles, store.Accounts, notifier, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	// Initialize HTTP API
	router := httpapi.NewRouter(
		httpapi.NewRentalHandler(reservationService),
		httpapi.NewTicketHandler(ticketService),
		httpapi.NewMaintenanceHandler(maintenanceService),
		httpapi.NewVehicleHandler(vehicleService),
	)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if n := store.SaveFailureCount(); n > 0 {
		logger.Warn("Store had snapshot write failures", "count", n)
	}
	logger.Info("Shutdown complete")
}
