// Package database opens the PostgreSQL pool through pgx and ties it to the
// service lifecycle.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/finsight/pkg/lifecycle"
)

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether the startup ping succeeded.
	Ready() bool
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	ready       atomic.Bool
}

// New parses the configuration into a pgx connection config and opens a
// pool over it. No connection is made until Start runs its ping.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	connConfig, err := pgx.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	connConfig.ConnectTimeout = cfg.ConnTimeoutDuration()
	connConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	if timeout := cfg.StatementTimeoutDuration(); timeout > 0 {
		connConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(timeout.Milliseconds(), 10)
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

// Start registers the database readiness check, pings once on startup, and
// closes the pool after the coordinator context is cancelled.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.Register("database", d)
	lc.OnStartup(func() { d.ping(lc.Context()) })
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.close()
	})
	return nil
}

func (d *database) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	start := time.Now()
	if err := d.conn.PingContext(ctx); err != nil {
		d.logger.Error("ping failed", "error", err, "timeout", d.connTimeout)
		return
	}
	d.ready.Store(true)
	d.logger.Info("connected", "elapsed", time.Since(start))
}

func (d *database) close() {
	d.ready.Store(false)
	if err := d.conn.Close(); err != nil {
		d.logger.Error("close failed", "error", err)
		return
	}
	d.logger.Info("closed")
}
