package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/threadsync/threadsync/database"
	"github.com/threadsync/threadsync/internal/api"
	"github.com/threadsync/threadsync/internal/config"
	"github.com/threadsync/threadsync/internal/create"
	"github.com/threadsync/threadsync/internal/discord"
	"github.com/threadsync/threadsync/internal/httpclient"
	"github.com/threadsync/threadsync/internal/issues"
	"github.com/threadsync/threadsync/internal/service"
	"github.com/threadsync/threadsync/internal/status"
	pkgsync "github.com/threadsync/threadsync/internal/sync"
	"github.com/threadsync/threadsync/internal/sync/coordinator"
	"github.com/threadsync/threadsync/internal/telemetry"
	"github.com/threadsync/threadsync/internal/threads"
	"github.com/threadsync/threadsync/internal/tracking"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second

	tracerName = "github.com/threadsync/threadsync"
)

// ThreadSyncAppOption is a function that configures the app builder
type ThreadSyncAppOption func(*appConfig) error

// appConfig collects what NewThreadSyncApp needs. Component overrides are used
// in tests; anything left nil is built from the configuration.
type appConfig struct {
	config *config.Config

	source          issues.Source
	sink            threads.Sink
	store           tracking.Store
	gateway         Gateway
	telemetry       *telemetry.Telemetry
	coordinatorOpts []coordinator.Option
	autoMigrate     bool

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

func baseConfig(opts ...ThreadSyncAppOption) (*appConfig, error) {
	cfg := &appConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.address == "" {
		cfg.address = cfg.config.Server.Address
	}

	return cfg, nil
}

// NewThreadSyncApp builds every component from the configuration and wires them
// together. Nothing is started until Start is called.
func NewThreadSyncApp(ctx context.Context, opts ...ThreadSyncAppOption) (*ThreadSyncApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	var cleanups []func()
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			for i := len(cleanups) - 1; i >= 0; i-- {
				cleanups[i]()
			}
		}
	}()

	if cfg.telemetry == nil {
		cfg.telemetry, err = telemetry.New(ctx, telemetry.WithTelemetryConfig(&cfg.config.Telemetry))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		tel := cfg.telemetry
		cleanups = append(cleanups, func() { _ = tel.Shutdown(context.Background()) })
	}

	if cfg.store == nil {
		cfg.store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build mapping store: %w", err)
		}
		store := cfg.store
		cleanups = append(cleanups, func() { _ = store.Close() })
	}

	if cfg.source == nil {
		cfg.source, err = issues.NewGitHubSource(
			httpclient.NewClient(httpclient.DefaultTimeout),
			cfg.config.GitHub.Token,
			issues.WithBaseURL(cfg.config.GitHub.BaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create issue tracker client: %w", err)
		}
	}

	components, err := buildSyncComponents(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, components)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	cleanupNeeded = false

	return &ThreadSyncApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address, overriding server.address
func WithAddress(addr string) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, ok := strings.Cut(addr, ":")
		if !ok || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithAutoMigrate applies pending schema migrations before opening a postgres store
func WithAutoMigrate(enabled bool) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.autoMigrate = enabled
		return nil
	}
}

// WithIssueSource injects the issue tracker client (for testing)
func WithIssueSource(s issues.Source) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.source = s
		return nil
	}
}

// WithThreadSink injects the chat destination (for testing). Unless a gateway is
// injected too, the app then runs without a chat connection.
func WithThreadSink(s threads.Sink) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.sink = s
		return nil
	}
}

// WithGateway injects the chat connection (for testing)
func WithGateway(g Gateway) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.gateway = g
		return nil
	}
}

// WithStore injects the mapping store (for testing)
func WithStore(s tracking.Store) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.store = s
		return nil
	}
}

// WithTelemetry injects the telemetry providers
func WithTelemetry(t *telemetry.Telemetry) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.telemetry = t
		return nil
	}
}

// WithCoordinatorOptions passes extra options to the sync coordinator
func WithCoordinatorOptions(opts ...coordinator.Option) ThreadSyncAppOption {
	return func(cfg *appConfig) error {
		cfg.coordinatorOpts = append(cfg.coordinatorOpts, opts...)
		return nil
	}
}

func buildStore(ctx context.Context, b *appConfig) (tracking.Store, error) {
	dbCfg := &b.config.Database
	if b.autoMigrate && dbCfg.Driver == config.DriverPostgres {
		connString, err := dbCfg.GetConnectionString()
		if err != nil {
			return nil, err
		}
		slog.Info("Applying database migrations")
		if err := database.MigrateUp(connString); err != nil {
			return nil, err
		}
	}
	return tracking.NewStore(ctx, dbCfg)
}

// buildSyncComponents builds the sync operations, the create flow, the chat
// gateway and the coordinator scheduling them
func buildSyncComponents(b *appConfig) (*AppComponents, error) {
	slog.Info("Initializing sync components")

	syncMetrics, err := telemetry.NewSyncMetrics(b.telemetry.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}
	tracer := b.telemetry.Tracer(tracerName)

	var session *discordSession
	if b.sink == nil {
		session, err = newDiscordSession(b.config.Discord)
		if err != nil {
			return nil, err
		}
		b.sink = session.sink
	}

	repo := pkgsync.Repository{Owner: b.config.GitHub.Owner, Name: b.config.GitHub.Repo}
	locker := tracking.NewLocker()
	syncOpts := []pkgsync.Option{
		pkgsync.WithPageSize(b.config.GitHub.PageSize),
		pkgsync.WithMessageLimit(b.config.Sync.MessageLimit),
		pkgsync.WithMetrics(syncMetrics),
		pkgsync.WithTracer(tracer),
	}

	reconciler := pkgsync.NewReconciler(b.source, b.sink, b.store, locker, repo, syncOpts...)
	reminder := pkgsync.NewReminder(b.source, b.sink, b.store, repo, syncOpts...)
	pruner := pkgsync.NewPruner(b.source, b.sink, b.store, locker, repo, syncOpts...)
	lifecycle := pkgsync.NewLifecycleHandler(b.source, b.sink, b.store, locker, repo, syncOpts...)

	if b.gateway == nil && session != nil {
		flow := create.NewFlow(create.WithSelectionTimeout(b.config.Create.SelectionTimeout))
		creator := create.NewCreator(b.source, b.sink, b.store, locker, repo,
			create.WithMessageLimit(b.config.Sync.MessageLimit),
			create.WithMetrics(syncMetrics),
			create.WithTracer(tracer),
		)
		b.gateway = discord.NewBot(session.session, session.sink, lifecycle, creator, flow)
	}
	if b.gateway == nil {
		slog.Warn("No chat gateway configured; slash commands and archive events are disabled")
	}

	statuses, err := buildStatusRegistry(b.config.Sync)
	if err != nil {
		return nil, err
	}

	coordOpts := append([]coordinator.Option{
		coordinator.WithJitter(b.config.Sync.Jitter),
		coordinator.WithStatusRegistry(statuses),
		coordinator.WithSyncMetrics(syncMetrics),
	}, b.coordinatorOpts...)
	tasks := coordinator.StandardTasks(reconciler, reminder, pruner, lifecycle, b.config.Sync)

	slog.Info("Sync components initialized successfully",
		"repository", repo.String(),
		"tasks", len(tasks),
		"prune_closed", b.config.Sync.PruneClosed,
	)

	return &AppComponents{
		SyncCoordinator: coordinator.New(tasks, coordOpts...),
		Service:         service.New(b.store, statuses, repo),
		Gateway:         b.gateway,
		Store:           b.store,
		Statuses:        statuses,
		Telemetry:       b.telemetry,
	}, nil
}

func buildStatusRegistry(cfg config.SyncConfig) (*status.Registry, error) {
	if cfg.StatusDir == "" {
		return status.NewRegistry(), nil
	}

	statuses := status.NewRegistry(status.WithPersistence(status.NewFileStatusPersistence(cfg.StatusDir)))
	if err := statuses.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load task statuses: %w", err)
	}
	slog.Info("Task statuses persisted", "dir", cfg.StatusDir)
	return statuses, nil
}

// buildHTTPServer builds the status HTTP server with router and middleware
func buildHTTPServer(b *appConfig, components *AppComponents) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	httpMetrics, err := telemetry.NewHTTPMetrics(b.telemetry.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	// Metrics and tracing go first so that they see every request
	middlewares := append([]func(http.Handler) http.Handler{
		httpMetrics.Middleware,
		telemetry.TracingMiddleware(b.telemetry.TracerProvider()),
	}, b.middlewares...)

	router := api.NewServer(components.Service,
		api.WithMiddlewares(middlewares...),
		api.WithMetricsHandler(b.telemetry.MetricsHandler()),
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
