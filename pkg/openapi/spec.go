// Package openapi builds an OpenAPI 3.1 document from route metadata and
// serves it as JSON.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Version is the OpenAPI release the generated document declares.
const Version = "3.1.0"

// Spec is the root OpenAPI document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// NewSpec starts a document titled and described by cfg, stamped with the
// service version and listing each server URL. Shared error responses are
// registered up front.
func NewSpec(cfg Config, version string, servers ...string) *Spec {
	s := &Spec{
		OpenAPI: Version,
		Info: &Info{
			Title:       cfg.Title,
			Description: cfg.Description,
			Version:     version,
		},
		Paths:      map[string]*PathItem{},
		Components: NewComponents(),
	}
	for _, url := range servers {
		s.Servers = append(s.Servers, &Server{URL: url})
	}
	return s
}

// Path returns the item for path, creating it on first use.
func (s *Spec) Path(path string) *PathItem {
	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}
	return item
}

// Handler serializes the document once and returns a handler that writes
// the bytes on every request.
func (s *Spec) Handler() (http.HandlerFunc, error) {
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(body)
	}, nil
}
