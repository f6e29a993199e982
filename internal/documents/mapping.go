package documents

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/finsight/pkg/query"
	"github.com/JaimeStill/finsight/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("risk_level", "RiskLevel").
	Project("compliance_status", "ComplianceStatus").
	Project("risk_score", "RiskScore").
	Project("sentiment_score", "SentimentScore").
	Project("confidence_score", "ConfidenceScore").
	Project("analysis_summary", "AnalysisSummary").
	Project("analyzed_at", "AnalyzedAt").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var repoErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
}

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Filename uses case-insensitive contains matching,
// the risk score bounds are inclusive, and all other fields match exactly.
type Filters struct {
	Status           *string  `json:"status,omitempty"`
	RiskLevel        *string  `json:"risk_level,omitempty"`
	ComplianceStatus *string  `json:"compliance_status,omitempty"`
	Filename         *string  `json:"filename,omitempty"`
	ContentType      *string  `json:"content_type,omitempty"`
	MinRiskScore     *float64 `json:"min_risk_score,omitempty"`
	MaxRiskScore     *float64 `json:"max_risk_score,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("RiskLevel", f.RiskLevel).
		WhereEquals("ComplianceStatus", f.ComplianceStatus).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereRange("RiskScore", f.MinRiskScore, f.MaxRiskScore)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if rl := values.Get("risk_level"); rl != "" {
		f.RiskLevel = &rl
	}

	if cs := values.Get("compliance_status"); cs != "" {
		f.ComplianceStatus = &cs
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	f.MinRiskScore = parseScore(values.Get("min_risk_score"))
	f.MaxRiskScore = parseScore(values.Get("max_risk_score"))

	return f
}

func parseScore(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.StorageKey,
		&d.Status,
		&d.RiskLevel,
		&d.ComplianceStatus,
		&d.RiskScore,
		&d.SentimentScore,
		&d.ConfidenceScore,
		&d.AnalysisSummary,
		&d.AnalyzedAt,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}
