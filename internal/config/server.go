package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// ServerConfig configures the HTTP listener. Timeouts are Go duration strings.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr is the host:port the server listens on.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return mustDuration(c.IdleTimeout)
}

// ShutdownTimeoutDuration bounds how long in-flight requests may drain.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, FINSIGHT_SERVER_* overrides, and validation.
func (c *ServerConfig) Finalize() error {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, d := range c.durations() {
		if *d.value == "" {
			*d.value = d.fallback
		}
	}

	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge copies non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for i, d := range overlay.durations() {
		if *d.value != "" {
			*c.durations()[i].value = *d.value
		}
	}
}

type durationField struct {
	name     string
	env      string
	fallback string
	value    *string
}

func (c *ServerConfig) durations() []durationField {
	return []durationField{
		{"read_timeout", "FINSIGHT_SERVER_READ_TIMEOUT", "1m", &c.ReadTimeout},
		{"read_header_timeout", "FINSIGHT_SERVER_READ_HEADER_TIMEOUT", "10s", &c.ReadHeaderTimeout},
		{"write_timeout", "FINSIGHT_SERVER_WRITE_TIMEOUT", "15m", &c.WriteTimeout},
		{"idle_timeout", "FINSIGHT_SERVER_IDLE_TIMEOUT", "2m", &c.IdleTimeout},
		{"shutdown_timeout", "FINSIGHT_SERVER_SHUTDOWN_TIMEOUT", "30s", &c.ShutdownTimeout},
	}
}

func (c *ServerConfig) loadEnv() error {
	if v := os.Getenv("FINSIGHT_SERVER_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("FINSIGHT_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FINSIGHT_SERVER_PORT: %w", err)
		}
		c.Port = port
	}
	for _, d := range c.durations() {
		if v := os.Getenv(d.env); v != "" {
			*d.value = v
		}
	}
	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, d := range c.durations() {
		if v, err := time.ParseDuration(*d.value); err != nil || v < 0 {
			return fmt.Errorf("invalid %s %q", d.name, *d.value)
		}
	}
	return nil
}

// mustDuration parses a value already checked by validate.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
