package api

import (
	"fmt"

	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/internal/config"
	"github.com/JaimeStill/finsight/internal/infrastructure"
	"github.com/JaimeStill/finsight/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// analysis engine shared by all domain systems.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Analysis   analysis.Config
	Engine     *analysis.Engine
}

// NewRuntime creates an API runtime with a module-scoped logger. It fails
// when the configured lexicon cannot be loaded.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	engine, err := cfg.Analysis.Engine()
	if err != nil {
		return nil, fmt.Errorf("analysis engine: %w", err)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Analysis:   cfg.Analysis,
		Engine:     engine,
	}, nil
}
