package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/finsight/internal/config"
	"github.com/JaimeStill/finsight/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules, and the listener.
type Server struct {
	infra           *infrastructure.Infrastructure
	http            *httpServer
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("build modules: %w", err)
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info("server initialized",
		"version", cfg.Version,
		"env", cfg.Env(),
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:           infra,
		http:            newHTTPServer(&cfg.Server, router, infra.Logger),
		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}, nil
}

// Run starts every subsystem and the listener, blocks until ctx is
// canceled, then shuts the coordinator down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.infra.Start(); err != nil {
		return fmt.Errorf("start infrastructure: %w", err)
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		s.infra.Lifecycle.Shutdown(s.shutdownTimeout)
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("startup complete", "ready", s.infra.Lifecycle.Ready())
	}()

	<-ctx.Done()
	s.infra.Logger.Info("shutdown requested")

	if err := s.infra.Lifecycle.Shutdown(s.shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.infra.Logger.Info("finsight stopped")
	return nil
}
