package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Notifuse/blockeditor/config"
	"github.com/Notifuse/blockeditor/internal/app"
	"github.com/Notifuse/blockeditor/pkg/logger"
)

var (
	// osExit is a variable to allow mocking os.Exit in tests
	osExit = os.Exit
	// signalNotify allows tests to drive the shutdown signals
	signalNotify = signal.Notify
	// newApp builds the application; tests swap in a fake
	newApp = app.NewApp
)

// runServer initializes the app, serves until a signal or a server error and
// shuts down. A second signal abandons the graceful shutdown.
func runServer(cfg *config.Config, appLogger logger.Logger) error {
	appInstance := newApp(cfg, app.WithLogger(appLogger))

	// Connect the database, build the editor service and register routes
	if err := appInstance.Initialize(); err != nil {
		appLogger.WithField("error", err.Error()).Error("Failed to initialize application")
		return err
	}

	// Set up graceful shutdown - single channel for all signals
	shutdown := make(chan os.Signal, 1)
	signalNotify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	serverError := make(chan error, 1)
	go func() {
		serverError <- appInstance.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverError:
		if err != nil {
			appLogger.WithField("error", err.Error()).Error("Server error")
		}
		return err
	case sig := <-shutdown:
		appLogger.WithField("signal", sig.String()).Info("Shutdown signal received - starting graceful shutdown")

		appLogger.Info("Send signal again (Ctrl+C) to force immediate shutdown")

		// Edits are short, so in-flight requests get the configured window
		// (10 seconds unless SERVER_SHUTDOWN_TIMEOUT says otherwise)
		timeout := cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		appInstance.SetShutdownTimeout(timeout)

		// Give the app 5 seconds beyond its own timeout to release the
		// caches, the database pool and the trace exporters
		ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
		defer cancel()

		appLogger.WithField("active_requests", appInstance.GetActiveRequestCount()).Info("Starting graceful shutdown")

		// Create a new channel for force shutdown (after first signal received)
		forceShutdown := make(chan os.Signal, 1)
		signalNotify(forceShutdown, os.Interrupt, syscall.SIGTERM)

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- appInstance.Shutdown(ctx)
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				appLogger.WithField("error", err.Error()).Error("Error during graceful shutdown")
				return err
			}
			appLogger.Info("Server shut down gracefully")
			return nil
		case forceSig := <-forceShutdown:
			appLogger.WithField("signal", forceSig.String()).Warn("Force shutdown signal received - terminating immediately")
			cancel()

			// Wait briefly for cleanup to notice the cancelled context
			select {
			case <-shutdownDone:
			case <-time.After(2 * time.Second):
				appLogger.Warn("Forced shutdown timeout - exiting immediately")
			}
			return fmt.Errorf("forced shutdown")
		}
	}
}

// newLogger logs JSON everywhere except in development, where the console
// format is easier to read
func newLogger(cfg *config.Config, w io.Writer) logger.Logger {
	if cfg.IsDevelopment() {
		return logger.NewConsoleLoggerWithWriter(w, cfg.LogLevel)
	}
	return logger.NewLoggerWithWriter(w, cfg.LogLevel)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := newLogger(cfg, os.Stdout)
	appLogger.Info(fmt.Sprintf("Starting block editor API on %s:%d", cfg.Server.Host, cfg.Server.Port))

	if err := runServer(cfg, appLogger); err != nil {
		osExit(1)
	}
}
