// Package module mounts self-contained HTTP handlers under single-level path
// prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/finsight/pkg/middleware"
)

// Module strips its prefix from incoming requests and delegates to an inner
// router wrapped in the module's middleware.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.Chain

	once    sync.Once
	handler http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix: prefix,
		router: router,
	}
}

// Handler returns the inner router wrapped with the module's middleware.
// The chain is assembled on first use; Use has no effect afterwards.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Then(m.router)
	})
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path and dispatches to
// the wrapped router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, withPath(req, strings.TrimPrefix(req.URL.Path, m.prefix)))
}

// Use appends middleware to the module's stack. Middleware runs in the
// order it was added.
func (m *Module) Use(mw middleware.Func) {
	m.middleware.Use(mw)
}

func withPath(req *http.Request, path string) *http.Request {
	if path == "" {
		path = "/"
	}
	u := new(url.URL)
	*u = *req.URL
	u.Path = path
	u.RawPath = ""

	r := req.Clone(req.Context())
	r.URL = u
	return r
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
