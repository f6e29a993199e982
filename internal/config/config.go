package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/pkg/database"
	"github.com/JaimeStill/finsight/pkg/logging"
	"github.com/JaimeStill/finsight/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvFinsightEnv             = "FINSIGHT_ENV"
	EnvFinsightShutdownTimeout = "FINSIGHT_SHUTDOWN_TIMEOUT"
	EnvFinsightVersion         = "FINSIGHT_VERSION"
)

var databaseEnv = &database.Env{
	Host:             "FINSIGHT_DB_HOST",
	Port:             "FINSIGHT_DB_PORT",
	Name:             "FINSIGHT_DB_NAME",
	User:             "FINSIGHT_DB_USER",
	Password:         "FINSIGHT_DB_PASSWORD",
	SSLMode:          "FINSIGHT_DB_SSL_MODE",
	ApplicationName:  "FINSIGHT_DB_APPLICATION_NAME",
	StatementTimeout: "FINSIGHT_DB_STATEMENT_TIMEOUT",
	MaxOpenConns:     "FINSIGHT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:     "FINSIGHT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime:  "FINSIGHT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:      "FINSIGHT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "FINSIGHT_STORAGE_CONTAINER_NAME",
	ConnectionString: "FINSIGHT_STORAGE_CONNECTION_STRING",
	AccountURL:       "FINSIGHT_STORAGE_ACCOUNT_URL",
	MaxRetries:       "FINSIGHT_STORAGE_MAX_RETRIES",
	TryTimeout:       "FINSIGHT_STORAGE_TRY_TIMEOUT",
}

var analysisEnv = &analysis.Env{
	MaxTextLength:    "FINSIGHT_ANALYSIS_MAX_TEXT_LENGTH",
	MaxBatchSize:     "FINSIGHT_ANALYSIS_MAX_BATCH_SIZE",
	LexiconPath:      "FINSIGHT_ANALYSIS_LEXICON_PATH",
	BatchConcurrency: "FINSIGHT_ANALYSIS_BATCH_CONCURRENCY",
	BatchRate:        "FINSIGHT_ANALYSIS_BATCH_RATE",
	BatchBurst:       "FINSIGHT_ANALYSIS_BATCH_BURST",
}

var loggingEnv = &logging.Env{
	Level:      "FINSIGHT_LOG_LEVEL",
	Format:     "FINSIGHT_LOG_FORMAT",
	File:       "FINSIGHT_LOG_FILE",
	MaxSizeMB:  "FINSIGHT_LOG_MAX_SIZE_MB",
	MaxBackups: "FINSIGHT_LOG_MAX_BACKUPS",
	MaxAgeDays: "FINSIGHT_LOG_MAX_AGE_DAYS",
	Compress:   "FINSIGHT_LOG_COMPRESS",
}

// Config is the root configuration for the FinSight service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Analysis        analysis.Config `toml:"analysis"`
	Logging         logging.Config  `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the FINSIGHT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvFinsightEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load builds the configuration from config.toml when present, then the
// config.<FINSIGHT_ENV>.toml overlay when present, then FINSIGHT_* variables.
func Load() (*Config, error) {
	var cfg *Config
	for _, path := range []string{BaseConfigFile, overlayPath()} {
		if path == "" {
			continue
		}
		file, err := load(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("load %s: %w", path, err)
		case cfg == nil:
			cfg = file
		default:
			cfg.Merge(file)
		}
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	c.ShutdownTimeout = cmp.Or(overlay.ShutdownTimeout, c.ShutdownTimeout)
	c.Version = cmp.Or(overlay.Version, c.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Analysis.Merge(&overlay.Analysis)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.ShutdownTimeout = cmp.Or(os.Getenv(EnvFinsightShutdownTimeout), c.ShutdownTimeout, "30s")
	c.Version = cmp.Or(os.Getenv(EnvFinsightVersion), c.Version, "0.1.0")
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"analysis", func() error { return c.Analysis.Finalize(analysisEnv) }},
		{"logging", func() error { return c.Logging.Finalize(loggingEnv) }},
	}
	for _, sec := range sections {
		if err := sec.finalize(); err != nil {
			return fmt.Errorf("%s: %w", sec.name, err)
		}
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvFinsightEnv); env != "" {
		return fmt.Sprintf(OverlayConfigPattern, env)
	}
	return ""
}
