package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/finsight/pkg/formatting"
	"github.com/JaimeStill/finsight/pkg/middleware"
	"github.com/JaimeStill/finsight/pkg/openapi"
	"github.com/JaimeStill/finsight/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "FINSIGHT_CORS_ENABLED",
	Origins:          "FINSIGHT_CORS_ORIGINS",
	AllowedMethods:   "FINSIGHT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "FINSIGHT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "FINSIGHT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "FINSIGHT_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "FINSIGHT_OPENAPI_TITLE",
	Description: "FINSIGHT_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "FINSIGHT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "FINSIGHT_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

const defaultMaxUploadSize = "50MB"

// MaxUploadSizeBytes parses MaxUploadSize. Unparseable or non-positive
// values fall back to 50MB.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil || size <= 0 {
		size, _ = formatting.ParseBytes(defaultMaxUploadSize)
	}
	return size
}

// Finalize fills defaults, applies FINSIGHT_API_* overrides, checks the
// base path and upload limit, then finalizes the nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("invalid base_path %q: must be a single segment such as /api", c.BasePath)
	}
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = defaultMaxUploadSize
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("FINSIGHT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("FINSIGHT_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
