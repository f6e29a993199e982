// Package infrastructure builds the shared subsystems every FinSight module
// depends on: the lifecycle coordinator, the root logger, the PostgreSQL
// pool, and the blob store.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/finsight/internal/config"
	"github.com/JaimeStill/finsight/pkg/database"
	"github.com/JaimeStill/finsight/pkg/lifecycle"
	"github.com/JaimeStill/finsight/pkg/logging"
	"github.com/JaimeStill/finsight/pkg/storage"
)

// Infrastructure is constructed once per process and handed to each module.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System

	log *logging.Logger
}

// subsystem is anything that hooks into the coordinator on Start.
type subsystem interface {
	Start(lc *lifecycle.Coordinator) error
}

// New constructs every subsystem without connecting to anything. The log
// output is closed again if a later subsystem fails to build.
func New(cfg *config.Config) (infra *Infrastructure, err error) {
	log := logging.New(&cfg.Logging)
	defer func() {
		if err != nil {
			log.Close()
		}
	}()

	db, err := database.New(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	store, err := storage.New(&cfg.Storage, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    log.Logger,
		Database:  db,
		Storage:   store,
		log:       log,
	}, nil
}

// Start registers the database and storage hooks, then arranges for the log
// output to close after the coordinator shuts down.
func (i *Infrastructure) Start() error {
	subsystems := []struct {
		name string
		sys  subsystem
	}{
		{"database", i.Database},
		{"storage", i.Storage},
	}
	for _, s := range subsystems {
		if err := s.sys.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("start %s: %w", s.name, err)
		}
	}

	if i.log != nil {
		i.Lifecycle.OnShutdown(func() {
			<-i.Lifecycle.Context().Done()
			i.log.Close()
		})
	}
	return nil
}
