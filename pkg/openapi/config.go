package openapi

import "os"

const (
	defaultTitle       = "FinSight API"
	defaultDescription = "Financial document risk and anomaly analysis service."
)

// Config carries the info block of the generated document.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables read by Finalize.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize fills unset fields with defaults and applies env overrides.
// There is nothing to validate.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	if env != nil {
		override(env.Title, &c.Title)
		override(env.Description, &c.Description)
	}
	return nil
}

// Merge copies non-empty fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func override(key string, dst *string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
