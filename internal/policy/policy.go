// Package policy converts analysis results into persisted document status
// fields and alert records. Decide is pure; System.Apply performs the
// best-effort write.
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/internal/alerts"
	"github.com/JaimeStill/finsight/internal/analysis"
)

// StatusProcessed is the document status written after analysis.
const StatusProcessed = "processed"

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Compliance statuses.
const (
	CompliancePassed = "passed"
	ComplianceFailed = "failed"
)

const (
	highRiskThreshold   = 0.7
	mediumRiskThreshold = 0.4
	summarySeparator    = " | "
)

// DocumentStatus holds the status fields written onto a document record.
type DocumentStatus struct {
	Status           string    `json:"status"`
	RiskLevel        string    `json:"risk_level"`
	ComplianceStatus string    `json:"compliance_status"`
	RiskScore        float64   `json:"risk_score"`
	SentimentScore   float64   `json:"sentiment_score"`
	ConfidenceScore  float64   `json:"confidence_score"`
	Summary          string    `json:"summary"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}

// Decision is the policy outcome for one document. Persisted reports whether
// Apply wrote it; on failure WriteError describes the problem and Err
// returns the underlying error.
type Decision struct {
	DocumentID uuid.UUID      `json:"document_id"`
	Status     DocumentStatus `json:"status"`
	Alerts     []alerts.Alert `json:"alerts"`
	Persisted  bool           `json:"persisted"`
	WriteError string         `json:"write_error,omitempty"`

	err error
}

// Err returns the persistence error, which wraps ErrDownstreamWrite, or nil.
func (d Decision) Err() error {
	return d.err
}

// RiskLevel maps a risk score to its three-tier label.
func RiskLevel(score float64) string {
	switch {
	case score > highRiskThreshold:
		return RiskHigh
	case score > mediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ComplianceStatus is failed when any finding is critical, otherwise passed.
func ComplianceStatus(result *analysis.AnalysisResult) string {
	if result.HasSeverity(analysis.SeverityCritical) {
		return ComplianceFailed
	}
	return CompliancePassed
}

// Decide maps an analysis result to document status fields and one unread
// alert per high or critical finding, in finding order.
func Decide(documentID uuid.UUID, result *analysis.AnalysisResult, now time.Time) Decision {
	d := Decision{
		DocumentID: documentID,
		Status: DocumentStatus{
			Status:           StatusProcessed,
			RiskLevel:        RiskLevel(result.RiskScore),
			ComplianceStatus: ComplianceStatus(result),
			RiskScore:        result.RiskScore,
			SentimentScore:   result.SentimentScore,
			ConfidenceScore:  result.ConfidenceScore,
			Summary:          strings.Join(result.Insights, summarySeparator),
			AnalyzedAt:       now,
		},
		Alerts: make([]alerts.Alert, 0),
	}

	for _, f := range result.Anomalies {
		if f.Severity != analysis.SeverityHigh && f.Severity != analysis.SeverityCritical {
			continue
		}
		d.Alerts = append(d.Alerts, alerts.Alert{
			ID:          uuid.New(),
			DocumentID:  documentID,
			AlertType:   alerts.TypeAnomalyDetected,
			Severity:    string(f.Severity),
			Title:       fmt.Sprintf("Anomaly detected: %s", f.Category.Label()),
			Description: f.Description,
			Status:      alerts.StatusUnread,
			TriggeredAt: now,
		})
	}

	return d
}
