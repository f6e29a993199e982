package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/finsight/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	cfg := openapi.Config{Title: "FinSight API", Description: "Risk analysis"}
	spec := openapi.NewSpec(cfg, "0.1.0", "/api", "https://finsight.example.com/api")

	if spec.OpenAPI != openapi.Version {
		t.Errorf("openapi = %q, want %q", spec.OpenAPI, openapi.Version)
	}
	if spec.Info.Title != cfg.Title || spec.Info.Description != cfg.Description || spec.Info.Version != "0.1.0" {
		t.Errorf("info = %+v", spec.Info)
	}
	if len(spec.Servers) != 2 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers = %+v", spec.Servers)
	}
	if spec.Paths == nil || spec.Components == nil {
		t.Fatal("paths and components must be initialized")
	}
}

func TestSpecPath(t *testing.T) {
	spec := openapi.NewSpec(openapi.Config{}, "0.1.0")

	list := &openapi.Operation{Summary: "List alerts"}
	search := &openapi.Operation{Summary: "Search alerts"}
	spec.Path("/alerts").Set(http.MethodGet, list)
	spec.Path("/alerts").Set(http.MethodPost, search)
	spec.Path("/alerts").Set("TRACE", &openapi.Operation{})

	item := spec.Paths["/alerts"]
	if item == nil {
		t.Fatal("path /alerts not created")
	}
	if item.Get != list || item.Post != search {
		t.Errorf("item = %+v", item)
	}
	if item.Put != nil || item.Patch != nil || item.Delete != nil {
		t.Errorf("unexpected operations on item: %+v", item)
	}
	if len(spec.Paths) != 1 {
		t.Errorf("paths = %d, want 1", len(spec.Paths))
	}
}

func TestRefs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"schema", openapi.SchemaRef("Document").Ref, "#/components/schemas/Document"},
		{"response", openapi.ResponseRef("NotFound").Ref, "#/components/responses/NotFound"},
		{"request body", openapi.RequestBodyJSON("AnalyzeRequest", true).Content["application/json"].Schema.Ref, "#/components/schemas/AnalyzeRequest"},
		{"response body", openapi.ResponseJSON("ok", "AnalysisResult").Content["application/json"].Schema.Ref, "#/components/schemas/AnalysisResult"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("ref = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParams(t *testing.T) {
	path := openapi.PathParam("id", "Document ID")
	if path.In != "path" || !path.Required || path.Schema.Format != "uuid" {
		t.Errorf("path param = %+v", path)
	}

	q := openapi.QueryParam("min_risk_score", "number", "Minimum risk score", false)
	if q.In != "query" || q.Required || q.Schema.Type != "number" {
		t.Errorf("query param = %+v", q)
	}
}

func TestRange(t *testing.T) {
	s := openapi.Range(-1, 1)
	if s.Type != "number" || *s.Minimum != -1 || *s.Maximum != 1 {
		t.Errorf("range = %+v", s)
	}
}

func TestEnum(t *testing.T) {
	s := openapi.Enum("low", "medium", "high")
	if s.Type != "string" || len(s.Enum) != 3 || s.Enum[2] != "high" {
		t.Errorf("enum = %+v", s)
	}
}

func TestComponents(t *testing.T) {
	c := openapi.NewComponents()

	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "PayloadTooLarge", "ServiceUnavailable"} {
		resp, ok := c.Responses[name]
		if !ok {
			t.Errorf("missing response %s", name)
			continue
		}
		if ref := resp.Content["application/json"].Schema.Ref; ref != "#/components/schemas/Error" {
			t.Errorf("%s schema = %q, want Error ref", name, ref)
		}
	}
	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("missing Error schema")
	}

	c.AddSchemas(map[string]*openapi.Schema{"Alert": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"NotFound": {Description: "Alert not found"}})

	if _, ok := c.Schemas["Alert"]; !ok {
		t.Error("AddSchemas did not add Alert")
	}
	if c.Responses["NotFound"].Description != "Alert not found" {
		t.Error("AddResponses did not replace NotFound")
	}
}

func TestHandler(t *testing.T) {
	spec := openapi.NewSpec(openapi.Config{Title: "FinSight API"}, "0.1.0", "/api")
	spec.Path("/documents").Set(http.MethodGet, &openapi.Operation{
		Summary:   "List documents",
		Responses: map[int]*openapi.Response{200: openapi.ResponseJSON("ok", "DocumentPageResult")},
	})

	serve, err := spec.Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}

	rec := httptest.NewRecorder()
	serve(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["openapi"] != openapi.Version {
		t.Errorf("openapi = %v", doc["openapi"])
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/documents"]; !ok {
		t.Errorf("paths = %v, want /documents", paths)
	}
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg openapi.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Title != "FinSight API" || cfg.Description == "" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		env := &openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE", Description: "TEST_OPENAPI_DESCRIPTION"}
		t.Setenv(env.Title, "Risk Engine")

		cfg := openapi.Config{Description: "custom"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Title != "Risk Engine" || cfg.Description != "custom" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("merge", func(t *testing.T) {
		cfg := openapi.Config{Title: "FinSight API", Description: "base"}
		cfg.Merge(&openapi.Config{Description: "overlay"})
		if cfg.Title != "FinSight API" || cfg.Description != "overlay" {
			t.Errorf("cfg = %+v", cfg)
		}
	})
}
