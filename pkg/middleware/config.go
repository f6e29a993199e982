package middleware

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// AnyOrigin in Origins allows every origin.
const AnyOrigin = "*"

// CORSConfig is the cross-origin policy applied to a module.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables read by Finalize. List values
// are comma separated.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults, then environment overrides, then validation.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", RequestIDHeader}
	}
	if c.MaxAge == 0 {
		c.MaxAge = 3600
	}

	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge replaces the booleans unconditionally and the remaining fields when
// the overlay sets them.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	for dst, src := range map[*[]string][]string{
		&c.Origins:        overlay.Origins,
		&c.AllowedMethods: overlay.AllowedMethods,
		&c.AllowedHeaders: overlay.AllowedHeaders,
	} {
		if src != nil {
			*dst = src
		}
	}
	if overlay.MaxAge != 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) allowsAny() bool {
	return slices.Contains(c.Origins, AnyOrigin)
}

func (c *CORSConfig) allows(origin string) bool {
	return origin != "" && (c.allowsAny() || slices.Contains(c.Origins, origin))
}

func (c *CORSConfig) loadEnv(env *CORSEnv) error {
	for key, dst := range map[string]*[]string{
		env.Origins:        &c.Origins,
		env.AllowedMethods: &c.AllowedMethods,
		env.AllowedHeaders: &c.AllowedHeaders,
	} {
		if v := lookup(key); v != "" {
			*dst = splitList(v)
		}
	}

	for key, dst := range map[string]*bool{
		env.Enabled:          &c.Enabled,
		env.AllowCredentials: &c.AllowCredentials,
	} {
		if v := lookup(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v := lookup(env.MaxAge); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env.MaxAge, err)
		}
		c.MaxAge = n
	}
	return nil
}

func (c *CORSConfig) validate() error {
	if c.MaxAge < 0 {
		return errors.New("cors max_age must not be negative")
	}
	if c.AllowCredentials && c.allowsAny() {
		return errors.New("cors allow_credentials cannot be combined with origin \"*\"")
	}
	return nil
}

func lookup(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}

func splitList(v string) []string {
	var list []string
	for p := range strings.SplitSeq(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}
