package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	syncapp "github.com/threadsync/threadsync/internal/app"
)

// defaultGracefulTimeout bounds the shutdown of the HTTP server and telemetry
const defaultGracefulTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mirror",
		Long: `Connect to Discord, run the reconcile, reminder and archive sweep loops and
serve the status API until SIGINT or SIGTERM is received.

Settings come from the environment (GITHUB_TOKEN, GITHUB_OWNER, GITHUB_REPO,
DISCORD_TOKEN, GUILD_ID, DATABASE_URL, or their THREADSYNC_ prefixed forms)
and optionally from the file given with --config.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	cmd.Flags().Bool("auto-migrate", true, "Apply pending database migrations on startup (postgres only)")
	cmd.Flags().Duration("shutdown-timeout", defaultGracefulTimeout, "Maximum time to wait for a graceful shutdown")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts, err := serveOptions(cmd)
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("shutdown-timeout")
	if err != nil {
		return fmt.Errorf("failed to get shutdown-timeout flag: %w", err)
	}

	slog.Info("Starting threadsync",
		"repository", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo,
		"guild_id", cfg.Discord.GuildID,
		"forum", cfg.Discord.ForumName,
		"database_driver", cfg.Database.Driver,
	)

	app, err := syncapp.NewThreadSyncApp(ctx, append(opts, syncapp.WithConfig(cfg))...)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case startErr := <-errCh:
		return errors.Join(startErr, app.Stop(timeout))
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	}

	if err := app.Stop(timeout); err != nil {
		return err
	}
	return <-errCh
}

// serveOptions translates the serve flags into application options
func serveOptions(cmd *cobra.Command) ([]syncapp.ThreadSyncAppOption, error) {
	var opts []syncapp.ThreadSyncAppOption

	address, err := cmd.Flags().GetString("address")
	if err != nil {
		return nil, fmt.Errorf("failed to get address flag: %w", err)
	}
	if address != "" {
		opts = append(opts, syncapp.WithAddress(address))
	}

	autoMigrate, err := cmd.Flags().GetBool("auto-migrate")
	if err != nil {
		return nil, fmt.Errorf("failed to get auto-migrate flag: %w", err)
	}
	opts = append(opts, syncapp.WithAutoMigrate(autoMigrate))

	return opts, nil
}
