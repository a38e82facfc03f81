package tracking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/threadsync/threadsync/internal/config"
	"github.com/threadsync/threadsync/internal/db"
)

// NewStore creates the Store selected by the database configuration.
func NewStore(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	case config.DriverSQLite:
		slog.Info("Using SQLite mapping store", "path", cfg.URL)
		return NewSQLiteStore(ctx, cfg.URL)
	case config.DriverMemory:
		slog.Warn("Using in-memory mapping store; mappings are lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}
