// Package documents implements the document domain for FinSight.
// Extracted document text lives in blob storage; the documents table holds
// upload metadata and the status fields written when a document is analyzed.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// StatusPending is the status of a document that has not been analyzed.
const StatusPending = "pending"

// Document represents a registered document with its blob reference and the
// most recent analysis status. Analysis fields are nil until the document
// has been analyzed.
type Document struct {
	ID               uuid.UUID  `json:"id"`
	Filename         string     `json:"filename"`
	ContentType      string     `json:"content_type"`
	SizeBytes        int64      `json:"size_bytes"`
	StorageKey       string     `json:"storage_key"`
	Status           string     `json:"status"`
	RiskLevel        *string    `json:"risk_level"`
	ComplianceStatus *string    `json:"compliance_status"`
	RiskScore        *float64   `json:"risk_score"`
	SentimentScore   *float64   `json:"sentiment_score"`
	ConfidenceScore  *float64   `json:"confidence_score"`
	AnalysisSummary  *string    `json:"analysis_summary"`
	AnalyzedAt       *time.Time `json:"analyzed_at"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateCommand carries the extracted text of a new document.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// BatchResult reports the outcome of a single file within a batch upload.
// On success, Document is populated and Error is empty.
// On failure, Error describes the problem and Document is nil.
type BatchResult struct {
	Document *Document `json:"document,omitempty"`
	Filename string    `json:"filename"`
	Error    string    `json:"error,omitempty"`
}
