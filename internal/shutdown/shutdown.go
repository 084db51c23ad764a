// Package shutdown provides the process's signal-driven graceful shutdown
// context.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"messagebridge/internal/logger"
)

// SetupSignalHandler installs handlers for SIGINT/SIGTERM and returns a
// context cancelled when either arrives. Callers drain in-flight work
// (worker pool, retry timers, HTTP server) after cancellation is observed.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigc
		logger.Info("signal received, shutdown requested", "signal", s.String())
		cancel()
	}()

	return ctx, cancel
}

// Fatal logs a startup-fatal error and exits the process immediately. Used
// for conditions the bridge must never silently continue past — e.g. a
// key-service health check failing at startup.
func Fatal(msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
