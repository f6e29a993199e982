package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/JaimeStill/finsight/internal/documents"
	"github.com/JaimeStill/finsight/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"file too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest},
		{"invalid id", documents.ErrInvalidID, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", documents.ErrNotFound), http.StatusNotFound},
		{"wrapped invalid file", fmt.Errorf("%w: text is empty", documents.ErrInvalidFile), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documents.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":            {"processed"},
			"risk_level":        {"high"},
			"compliance_status": {"failed"},
			"filename":          {"report"},
			"content_type":      {"text/plain"},
			"min_risk_score":    {"0.4"},
			"max_risk_score":    {"0.9"},
		}

		f := documents.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "processed" {
			t.Errorf("Status = %v, want processed", f.Status)
		}
		if f.RiskLevel == nil || *f.RiskLevel != "high" {
			t.Errorf("RiskLevel = %v, want high", f.RiskLevel)
		}
		if f.ComplianceStatus == nil || *f.ComplianceStatus != "failed" {
			t.Errorf("ComplianceStatus = %v, want failed", f.ComplianceStatus)
		}
		if f.Filename == nil || *f.Filename != "report" {
			t.Errorf("Filename = %v, want report", f.Filename)
		}
		if f.ContentType == nil || *f.ContentType != "text/plain" {
			t.Errorf("ContentType = %v, want text/plain", f.ContentType)
		}
		if f.MinRiskScore == nil || *f.MinRiskScore != 0.4 {
			t.Errorf("MinRiskScore = %v, want 0.4", f.MinRiskScore)
		}
		if f.MaxRiskScore == nil || *f.MaxRiskScore != 0.9 {
			t.Errorf("MaxRiskScore = %v, want 0.9", f.MaxRiskScore)
		}
	})

	t.Run("malformed score ignored", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{"min_risk_score": {"high"}})
		if f.MinRiskScore != nil {
			t.Errorf("MinRiskScore = %v, want nil", *f.MinRiskScore)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})

		if f.Status != nil || f.RiskLevel != nil || f.ComplianceStatus != nil || f.Filename != nil || f.ContentType != nil ||
			f.MinRiskScore != nil || f.MaxRiskScore != nil {
			t.Errorf("filters = %+v, want all nil", f)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "documents", "d").
		Project("status", "Status").
		Project("risk_level", "RiskLevel").
		Project("compliance_status", "ComplianceStatus").
		Project("filename", "Filename").
		Project("content_type", "ContentType")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(projection)
		documents.Filters{}.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.status, d.risk_level, d.compliance_status, d.filename, d.content_type FROM public.documents d"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("risk level equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		documents.Filters{RiskLevel: ptr("high")}.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.status, d.risk_level, d.compliance_status, d.filename, d.content_type FROM public.documents d WHERE d.risk_level = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "high" {
			t.Errorf("args[0] = %v, want *high", args[0])
		}
	})

	t.Run("filename contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		documents.Filters{Filename: ptr("report")}.Apply(b)
		_, args := b.Build()

		if len(args) != 1 || args[0] != "%report%" {
			t.Errorf("args = %v, want [%%report%%]", args)
		}
	})

	t.Run("risk score range", func(t *testing.T) {
		scored := query.NewProjectionMap("public", "documents", "d").Project("risk_score", "RiskScore")
		b := query.NewBuilder(scored)
		min := 0.7
		documents.Filters{MinRiskScore: &min}.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.risk_score FROM public.documents d WHERE d.risk_score >= $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		b := query.NewBuilder(projection)
		documents.Filters{
			Status:           ptr("processed"),
			ComplianceStatus: ptr("failed"),
			Filename:         ptr("report"),
		}.Apply(b)
		_, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}
