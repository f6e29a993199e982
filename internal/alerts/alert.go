// Package alerts implements the alert read model for FinSight.
// Alerts are raised by the policy layer when an analysis reports high or
// critical anomalies; this package lists, finds, and acknowledges them.
package alerts

import (
	"time"

	"github.com/google/uuid"
)

// Alert types.
const (
	TypeAnomalyDetected = "anomaly_detected"
)

// Alert statuses.
const (
	StatusUnread       = "unread"
	StatusAcknowledged = "acknowledged"
)

// Alert is a stored notification raised against a document.
// Filename is populated on reads from the owning document.
type Alert struct {
	ID             uuid.UUID  `json:"id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	Filename       string     `json:"filename,omitempty"`
	AlertType      string     `json:"alert_type"`
	Severity       string     `json:"severity"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	TriggeredAt    time.Time  `json:"triggered_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}
