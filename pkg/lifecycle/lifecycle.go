// Package lifecycle coordinates subsystem startup, readiness, and shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup and shutdown hooks and aggregates the readiness
// of registered subsystems.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	started    atomic.Bool

	checksMu sync.RWMutex
	checks   map[string]ReadinessChecker
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]ReadinessChecker),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently with the other startup hooks.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown runs fn concurrently with the other shutdown hooks.
// Hooks should block on <-c.Context().Done() before cleaning up.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Register adds a named readiness check. Registering a name twice replaces
// the earlier check.
func (c *Coordinator) Register(name string, rc ReadinessChecker) {
	c.checksMu.Lock()
	defer c.checksMu.Unlock()
	c.checks[name] = rc
}

// Ready reports whether startup has completed and every registered check
// is ready.
func (c *Coordinator) Ready() bool {
	if !c.started.Load() {
		return false
	}

	c.checksMu.RLock()
	defer c.checksMu.RUnlock()
	for _, rc := range c.checks {
		if !rc.Ready() {
			return false
		}
	}
	return true
}

// Status reports readiness per registered subsystem plus a "startup" entry
// for the startup hooks.
func (c *Coordinator) Status() map[string]bool {
	c.checksMu.RLock()
	checks := maps.Clone(c.checks)
	c.checksMu.RUnlock()

	status := make(map[string]bool, len(checks)+1)
	status["startup"] = c.started.Load()
	for name, rc := range checks {
		status[name] = rc.Ready()
	}
	return status
}

// WaitForStartup blocks until every startup hook has returned.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.started.Store(true)
}

// Shutdown cancels the context and waits up to timeout for the shutdown
// hooks to return.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
