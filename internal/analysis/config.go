package analysis

import (
	"fmt"
	"os"
	"strconv"
)

// Batch concurrency bounds.
const (
	DefaultBatchConcurrency = 5
	MaxBatchConcurrency     = 20
	DefaultMaxBatchSize     = 500
)

// BatchConfig bounds a batch analysis. Concurrency caps in-flight analyses;
// Rate, when positive, caps analyses started per second with the given Burst.
type BatchConfig struct {
	Concurrency int     `toml:"concurrency"`
	Rate        float64 `toml:"rate"`
	Burst       int     `toml:"burst"`
}

func (c BatchConfig) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultBatchConcurrency
	}
	return min(c.Concurrency, MaxBatchConcurrency)
}

// WithConcurrency returns a copy of c with Concurrency replaced when n is
// positive. Values above MaxBatchConcurrency are capped.
func (c BatchConfig) WithConcurrency(n int) BatchConfig {
	if n > 0 {
		c.Concurrency = min(n, MaxBatchConcurrency)
	}
	return c
}

// Config holds engine settings for the service layer.
type Config struct {
	MaxTextLength int         `toml:"max_text_length"`
	MaxBatchSize  int         `toml:"max_batch_size"`
	LexiconPath   string      `toml:"lexicon_path"`
	Batch         BatchConfig `toml:"batch"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxTextLength    string
	MaxBatchSize     string
	LexiconPath      string
	BatchConcurrency string
	BatchRate        string
	BatchBurst       string
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
	if overlay.MaxTextLength != 0 {
		c.MaxTextLength = overlay.MaxTextLength
	}
	if overlay.MaxBatchSize != 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}
	if overlay.LexiconPath != "" {
		c.LexiconPath = overlay.LexiconPath
	}
	if overlay.Batch.Concurrency != 0 {
		c.Batch.Concurrency = overlay.Batch.Concurrency
	}
	if overlay.Batch.Rate != 0 {
		c.Batch.Rate = overlay.Batch.Rate
	}
	if overlay.Batch.Burst != 0 {
		c.Batch.Burst = overlay.Batch.Burst
	}
}

// Engine builds the Engine described by the config: the lexicon at
// LexiconPath when set, otherwise the shared default engine.
func (c *Config) Engine() (*Engine, error) {
	if c.LexiconPath == "" {
		return Default(), nil
	}
	lex, err := LoadLexicon(c.LexiconPath)
	if err != nil {
		return nil, err
	}
	return New(lex)
}

func (c *Config) loadDefaults() {
	if c.MaxTextLength == 0 {
		c.MaxTextLength = DefaultMaxTextLength
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = DefaultBatchConcurrency
	}
	if c.Batch.Burst == 0 {
		c.Batch.Burst = 1
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxTextLength != "" {
		if v := os.Getenv(env.MaxTextLength); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTextLength = n
			}
		}
	}
	if env.MaxBatchSize != "" {
		if v := os.Getenv(env.MaxBatchSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxBatchSize = n
			}
		}
	}
	if env.LexiconPath != "" {
		if v := os.Getenv(env.LexiconPath); v != "" {
			c.LexiconPath = v
		}
	}
	if env.BatchConcurrency != "" {
		if v := os.Getenv(env.BatchConcurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Batch.Concurrency = n
			}
		}
	}
	if env.BatchRate != "" {
		if v := os.Getenv(env.BatchRate); v != "" {
			if r, err := strconv.ParseFloat(v, 64); err == nil {
				c.Batch.Rate = r
			}
		}
	}
	if env.BatchBurst != "" {
		if v := os.Getenv(env.BatchBurst); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Batch.Burst = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MaxTextLength < 0 {
		return fmt.Errorf("max_text_length must be non-negative")
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("max_batch_size must be positive")
	}
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > MaxBatchConcurrency {
		return fmt.Errorf("batch concurrency must be between 1 and %d", MaxBatchConcurrency)
	}
	if c.Batch.Rate < 0 {
		return fmt.Errorf("batch rate must be non-negative")
	}
	if c.Batch.Burst < 1 {
		return fmt.Errorf("batch burst must be positive")
	}
	return nil
}
