package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/finsight/internal/api"
	"github.com/JaimeStill/finsight/internal/config"
	"github.com/JaimeStill/finsight/internal/infrastructure"
	"github.com/JaimeStill/finsight/pkg/module"
)

// Modules holds the mounted HTTP modules.
type Modules struct {
	API *module.Module
}

// NewModules builds every module served by the router.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount attaches the modules to router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthStatus{Status: "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ready", Checks: infra.Lifecycle.Status()}
		if !infra.Lifecycle.Ready() {
			status.Status = "not ready"
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
	})

	return router
}

type healthStatus struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
