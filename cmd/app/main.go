package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pgms/internal/config"
	"pgms/internal/db"
	"pgms/internal/email"
	"pgms/internal/gateway"
	"pgms/internal/logger"
	"pgms/internal/property"
	"pgms/internal/scheduler"
	"pgms/internal/server"
	"pgms/internal/subscription"
)

func main() {
	logger.Init()
	logger.Info("Starting PGMS application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	version, err := db.RunMigrations(database, cfg.MigrationsPath)
	if err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed", "version", version)

	emailService := email.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer emailService.Close()
	logger.Info("Email service initialized")

	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		logger.Warn("Razorpay credentials are not set; paid plan checkout will fail")
	}
	gw := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayCurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	jobs := scheduler.New()
	propertyService := property.NewService(property.NewRepository(database))
	if err := jobs.Add(cfg.DueReminderCron, scheduler.NewDueReminderJob(propertyService, emailService)); err != nil {
		logger.Fatalf("Failed to schedule due reminders: %v", err)
	}
	if err := jobs.Add(cfg.ExpiryNoticeCron, scheduler.NewExpiryNoticeJob(subscription.NewRepository(database), emailService)); err != nil {
		logger.Fatalf("Failed to schedule expiry notices: %v", err)
	}
	jobs.Start()
	logger.Info("Scheduler started", "jobs", jobs.Entries())

	srv := server.New(database, cfg, emailService, gw)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	jobs.Stop(shutdownCtx)
	cancel()

	logger.Info("Server stopped")
}
