// Package app provides application lifecycle management for threadsync.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/threadsync/threadsync/internal/config"
)

// ThreadSyncApp encapsulates all components needed to run the mirror: the chat
// gateway, the background sync tasks and the status HTTP server.
type ThreadSyncApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start connects the gateway, starts the sync tasks in the background and serves
// HTTP. It blocks until the HTTP server stops or encounters an error.
func (app *ThreadSyncApp) Start() error {
	listener, err := net.Listen("tcp", app.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.httpServer.Addr, err)
	}
	return app.serve(listener)
}

func (app *ThreadSyncApp) serve(listener net.Listener) error {
	// The forum must be resolved before the first reconciliation creates threads
	if app.components.Gateway != nil {
		if err := app.components.Gateway.Start(app.ctx); err != nil {
			_ = listener.Close()
			return fmt.Errorf("failed to start chat gateway: %w", err)
		}
	}

	go func() {
		if err := app.components.SyncCoordinator.Start(app.ctx); err != nil {
			slog.Error("Sync coordinator failed", "error", err)
		}
	}()

	slog.Info("Server listening", "address", listener.Addr().String())
	if err := app.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout. The sync tasks
// and the gateway are stopped before the HTTP server and the mapping store.
func (app *ThreadSyncApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if err := app.components.SyncCoordinator.Stop(); err != nil {
		slog.Error("Failed to stop sync coordinator", "error", err)
	}

	if app.components.Gateway != nil {
		if err := app.components.Gateway.Stop(); err != nil {
			slog.Error("Failed to stop chat gateway", "error", err)
		}
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	if app.components.Telemetry != nil {
		if err := app.components.Telemetry.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}

	if app.components.Store != nil {
		if err := app.components.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close mapping store: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *ThreadSyncApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *ThreadSyncApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetComponents returns the wired components
func (app *ThreadSyncApp) GetComponents() *AppComponents {
	return app.components
}
