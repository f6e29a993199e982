package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config controls the root logger. An empty File writes to stderr;
// otherwise output rotates through the named file.
type Config struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  string
	MaxBackups string
	MaxAgeDays string
	Compress   string
}

// SlogLevel returns Level as an slog.Level. Call after Finalize.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := ParseLevel(c.Level)
	return lvl
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.File != "" {
		c.File = overlay.File
	}
	if overlay.MaxSizeMB != 0 {
		c.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxBackups != 0 {
		c.MaxBackups = overlay.MaxBackups
	}
	if overlay.MaxAgeDays != 0 {
		c.MaxAgeDays = overlay.MaxAgeDays
	}
	if overlay.Compress {
		c.Compress = true
	}
}

// ParseLevel accepts debug, info, warn (or warning), and error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}

func (c *Config) loadDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatText
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 28
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Level != "" {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = v
		}
	}
	if env.Format != "" {
		if v := os.Getenv(env.Format); v != "" {
			c.Format = v
		}
	}
	if env.File != "" {
		if v := os.Getenv(env.File); v != "" {
			c.File = v
		}
	}
	if env.MaxSizeMB != "" {
		if v := os.Getenv(env.MaxSizeMB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxSizeMB = n
			}
		}
	}
	if env.MaxBackups != "" {
		if v := os.Getenv(env.MaxBackups); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxBackups = n
			}
		}
	}
	if env.MaxAgeDays != "" {
		if v := os.Getenv(env.MaxAgeDays); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxAgeDays = n
			}
		}
	}
	if env.Compress != "" {
		if v := os.Getenv(env.Compress); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Compress = b
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid format %q: must be text or json", c.Format)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation limits must not be negative")
	}
	return nil
}
