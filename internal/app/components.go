package app

import (
	"context"

	"github.com/threadsync/threadsync/internal/service"
	"github.com/threadsync/threadsync/internal/status"
	"github.com/threadsync/threadsync/internal/sync/coordinator"
	"github.com/threadsync/threadsync/internal/telemetry"
	"github.com/threadsync/threadsync/internal/tracking"
)

// Gateway is the chat connection delivering slash commands and archive events.
// It must be started before the sync tasks, which create threads in its forum.
type Gateway interface {
	Start(ctx context.Context) error
	Stop() error
}

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// SyncCoordinator runs the reconcile, reminder and archive sweep loops
	SyncCoordinator coordinator.Coordinator

	// Service backs the status API
	Service service.Service

	// Gateway is nil when the chat connection is disabled
	Gateway Gateway

	// Store holds the issue/thread mappings
	Store tracking.Store

	// Statuses records the outcome of every task run
	Statuses *status.Registry

	// Telemetry owns the tracer and meter providers
	Telemetry *telemetry.Telemetry
}
