// Package config provides configuration loading and management for threadsync.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/threadsync/threadsync/internal/telemetry"
)

// EnvPrefix is the prefix for all threadsync environment variables
const EnvPrefix = "THREADSYNC"

const (
	// DriverPostgres stores mappings in PostgreSQL
	DriverPostgres = "postgres"

	// DriverSQLite stores mappings in a local SQLite file
	DriverSQLite = "sqlite"

	// DriverMemory keeps mappings in process memory (tests and dry runs only)
	DriverMemory = "memory"
)

const (
	defaultPageSize          = 30
	defaultForumName         = "github-issues"
	defaultReconcileInterval = 5 * time.Minute
	defaultReminderInterval  = 5 * time.Minute
	defaultMessageLimit      = 2000
	defaultSelectionTimeout  = 10 * time.Second
	defaultServerAddress     = ":8080"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

type loaderConfig struct {
	path string
	env  map[string]string
}

// WithConfigPath loads configuration from a YAML file in addition to the environment
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// WithEnv overrides values as if they were set in the environment. Keys are
// configuration keys (e.g. "github.owner"). Mostly useful in tests.
func WithEnv(values map[string]string) Option {
	return func(cfg *loaderConfig) error {
		cfg.env = values
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	GitHub   GitHubConfig   `mapstructure:"github" yaml:"github"`
	Discord  DiscordConfig  `mapstructure:"discord" yaml:"discord"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Sync     SyncConfig     `mapstructure:"sync" yaml:"sync"`
	Create   CreateConfig   `mapstructure:"create" yaml:"create"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`

	Telemetry telemetry.Config `mapstructure:"telemetry" yaml:"telemetry"`
}

// GitHubConfig defines the tracker credentials and the repository being mirrored
type GitHubConfig struct {
	Token string `mapstructure:"token" yaml:"token"`
	Owner string `mapstructure:"owner" yaml:"owner"`
	Repo  string `mapstructure:"repo" yaml:"repo"`

	// BaseURL points the client at a GitHub Enterprise or test server
	BaseURL string `mapstructure:"baseURL" yaml:"baseURL,omitempty"`

	// PageSize is the number of issues requested per page when listing
	PageSize int `mapstructure:"pageSize" yaml:"pageSize"`
}

// DiscordConfig defines the chat destination
type DiscordConfig struct {
	Token   string `mapstructure:"token" yaml:"token"`
	GuildID string `mapstructure:"guildID" yaml:"guildID"`

	// ForumName is the forum channel threads are created in; it is created if missing
	ForumName string `mapstructure:"forumName" yaml:"forumName"`
}

// DatabaseConfig defines where mappings are persisted
type DatabaseConfig struct {
	// Driver is one of postgres, sqlite or memory
	Driver string `mapstructure:"driver" yaml:"driver"`

	// URL is a postgres connection string or a sqlite file path
	URL string `mapstructure:"url" yaml:"url"`

	// Name overrides the database name of a postgres URL
	Name string `mapstructure:"name" yaml:"name,omitempty"`
}

// SyncConfig defines the periodic loops
type SyncConfig struct {
	ReconcileInterval time.Duration `mapstructure:"reconcileInterval" yaml:"reconcileInterval"`
	ReminderInterval  time.Duration `mapstructure:"reminderInterval" yaml:"reminderInterval"`

	// Jitter is the maximum random offset applied to every interval
	Jitter time.Duration `mapstructure:"jitter" yaml:"jitter"`

	// PruneClosed untracks mappings whose issue was closed on the tracker
	PruneClosed bool `mapstructure:"pruneClosed" yaml:"pruneClosed"`

	// MessageLimit is the maximum number of characters of a thread message
	MessageLimit int `mapstructure:"messageLimit" yaml:"messageLimit"`

	// StatusDir keeps the last task statuses across restarts when set
	StatusDir string `mapstructure:"statusDir" yaml:"statusDir,omitempty"`
}

// CreateConfig defines the interactive create flow
type CreateConfig struct {
	SelectionTimeout time.Duration `mapstructure:"selectionTimeout" yaml:"selectionTimeout"`
}

// ServerConfig defines the status HTTP server
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// envBindings maps configuration keys to the environment variables consulted for
// them, in priority order. The unprefixed names are the ones deployments already use.
var envBindings = map[string][]string{
	"github.token":            {"GITHUB_TOKEN"},
	"github.owner":            {"GITHUB_OWNER"},
	"github.repo":             {"GITHUB_REPO"},
	"github.baseURL":          nil,
	"github.pageSize":         nil,
	"discord.token":           {"DISCORD_TOKEN"},
	"discord.guildID":         {"GUILD_ID"},
	"discord.forumName":       nil,
	"database.driver":         nil,
	"database.url":            {"DATABASE_URL"},
	"database.name":           {"DATABASE_NAME"},
	"sync.reconcileInterval":  nil,
	"sync.reminderInterval":   nil,
	"sync.jitter":             nil,
	"sync.pruneClosed":        nil,
	"sync.messageLimit":       nil,
	"sync.statusDir":          nil,
	"create.selectionTimeout": nil,
	"server.address":          nil,

	"telemetry.enabled":          nil,
	"telemetry.endpoint":         nil,
	"telemetry.insecure":         nil,
	"telemetry.tracing.enabled":  nil,
	"telemetry.tracing.sampling": nil,
	"telemetry.metrics.enabled":  nil,
	"telemetry.metrics.exporter": nil,
}

// prefixedEnvName returns the THREADSYNC_ variable name for a configuration key,
// e.g. "sync.reconcileInterval" -> "THREADSYNC_SYNC_RECONCILE_INTERVAL".
func prefixedEnvName(key string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for _, part := range strings.Split(key, ".") {
		b.WriteByte('_')
		for i, r := range part {
			if i > 0 && r >= 'A' && r <= 'Z' && !(part[i-1] >= 'A' && part[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.pageSize", defaultPageSize)
	v.SetDefault("discord.forumName", defaultForumName)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("sync.reconcileInterval", defaultReconcileInterval)
	v.SetDefault("sync.reminderInterval", defaultReminderInterval)
	v.SetDefault("sync.jitter", time.Duration(0))
	v.SetDefault("sync.pruneClosed", true)
	v.SetDefault("sync.messageLimit", defaultMessageLimit)
	v.SetDefault("create.selectionTimeout", defaultSelectionTimeout)
	v.SetDefault("server.address", defaultServerAddress)
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)

	for key, names := range envBindings {
		args := append([]string{key, prefixedEnvName(key)}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if loaderCfg.path != "" {
		v.SetConfigFile(loaderCfg.path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, value := range loaderCfg.env {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.GitHub.validate(); err != nil {
		return err
	}
	if err := c.Discord.validate(); err != nil {
		return err
	}
	if err := c.Database.validate(); err != nil {
		return err
	}
	if err := c.Sync.validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func (g *GitHubConfig) validate() error {
	switch {
	case g.Token == "":
		return fmt.Errorf("github.token is required (GITHUB_TOKEN)")
	case g.Owner == "":
		return fmt.Errorf("github.owner is required (GITHUB_OWNER)")
	case g.Repo == "":
		return fmt.Errorf("github.repo is required (GITHUB_REPO)")
	case g.PageSize <= 0 || g.PageSize > 100:
		return fmt.Errorf("github.pageSize must be between 1 and 100, got %d", g.PageSize)
	}
	return nil
}

func (d *DiscordConfig) validate() error {
	switch {
	case d.Token == "":
		return fmt.Errorf("discord.token is required (DISCORD_TOKEN)")
	case d.GuildID == "":
		return fmt.Errorf("discord.guildID is required (GUILD_ID)")
	case d.ForumName == "":
		return fmt.Errorf("discord.forumName cannot be empty")
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	switch d.Driver {
	case DriverPostgres, DriverSQLite:
		if d.URL == "" {
			return fmt.Errorf("database.url is required for driver %s (DATABASE_URL)", d.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database.driver %q", d.Driver)
	}
	return nil
}

func (s *SyncConfig) validate() error {
	if s.ReconcileInterval <= 0 {
		return fmt.Errorf("sync.reconcileInterval must be positive")
	}
	if s.ReminderInterval < s.ReconcileInterval {
		return fmt.Errorf("sync.reminderInterval (%s) must not be shorter than sync.reconcileInterval (%s)",
			s.ReminderInterval, s.ReconcileInterval)
	}
	if s.Jitter < 0 || s.Jitter >= s.ReconcileInterval {
		return fmt.Errorf("sync.jitter must be in [0, %s)", s.ReconcileInterval)
	}
	if s.MessageLimit <= 0 {
		return fmt.Errorf("sync.messageLimit must be positive")
	}
	return nil
}

// GetConnectionString returns the postgres connection string with the database
// name replaced by Name when it is set.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	if d.Name == "" {
		return d.URL, nil
	}

	u, err := url.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("database.name requires a postgres:// url, got scheme %q", u.Scheme)
	}
	u.Path = "/" + d.Name
	return u.String(), nil
}

// Redacted returns a copy of the configuration with credentials masked
func (c *Config) Redacted() Config {
	out := *c
	out.GitHub.Token = redact(out.GitHub.Token)
	out.Discord.Token = redact(out.Discord.Token)
	if u, err := url.Parse(out.Database.URL); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			out.Database.URL = u.String()
		}
	}
	return out
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "<redacted>"
}
