package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	defaultContainer  = "documents"
	defaultMaxRetries = 3
	defaultTryTimeout = "30s"
)

// Config selects the blob container and how to authenticate against it.
// Set exactly one of ConnectionString (shared key, Azurite) or AccountURL
// (ambient Azure identity).
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	MaxRetries       int    `toml:"max_retries"`
	TryTimeout       string `toml:"try_timeout"`
}

// Env names the environment variables read by Finalize.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
	MaxRetries       string
	TryTimeout       string
}

// Finalize applies defaults, then environment overrides, then validation.
func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = defaultContainer
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.TryTimeout == "" {
		c.TryTimeout = defaultTryTimeout
	}
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge copies non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, src := range map[*string]string{
		&c.ContainerName:    overlay.ContainerName,
		&c.ConnectionString: overlay.ConnectionString,
		&c.AccountURL:       overlay.AccountURL,
		&c.TryTimeout:       overlay.TryTimeout,
	} {
		if src != "" {
			*dst = src
		}
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

// UsesIdentity reports whether the client authenticates with an Azure
// credential instead of a connection string.
func (c *Config) UsesIdentity() bool {
	return c.ConnectionString == "" && c.AccountURL != ""
}

// TryTimeoutDuration parses TryTimeout. Call after Finalize.
func (c *Config) TryTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.TryTimeout)
	return d
}

func (c *Config) loadEnv(env *Env) error {
	for key, dst := range map[string]*string{
		env.ContainerName:    &c.ContainerName,
		env.ConnectionString: &c.ConnectionString,
		env.AccountURL:       &c.AccountURL,
		env.TryTimeout:       &c.TryTimeout,
	} {
		if key == "" {
			continue
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env.MaxRetries, err)
			}
			c.MaxRetries = n
		}
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.ConnectionString == "" && c.AccountURL == "":
		return errors.New("connection_string or account_url required")
	case c.ConnectionString != "" && c.AccountURL != "":
		return errors.New("connection_string and account_url are mutually exclusive")
	case c.MaxRetries < 0:
		return errors.New("max_retries must not be negative")
	}

	if d, err := time.ParseDuration(c.TryTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid try_timeout %q", c.TryTimeout)
	}

	if c.AccountURL != "" {
		u, err := url.Parse(c.AccountURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("invalid account_url %q: must be an https URL", c.AccountURL)
		}
	}
	return nil
}
