package alerts

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/pkg/query"
	"github.com/JaimeStill/finsight/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "alerts", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("alert_type", "AlertType").
	Project("severity", "Severity").
	Project("title", "Title").
	Project("description", "Description").
	Project("status", "Status").
	Project("triggered_at", "TriggeredAt").
	Project("acknowledged_at", "AcknowledgedAt").
	Join("public", "documents", "d", "JOIN", "a.document_id = d.id").
	Project("filename", "Filename")

var repoErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
}

var defaultSort = query.SortField{
	Field:      "TriggeredAt",
	Descending: true,
}

// Filters contains optional filtering criteria for alert queries.
// Nil fields are ignored. Since and Until bound the trigger time
// inclusively; the other fields match exactly.
type Filters struct {
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Severity   *string    `json:"severity,omitempty"`
	Status     *string    `json:"status,omitempty"`
	AlertType  *string    `json:"alert_type,omitempty"`
	Since      *time.Time `json:"since,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("Severity", f.Severity).
		WhereEquals("Status", f.Status).
		WhereEquals("AlertType", f.AlertType).
		WhereRange("TriggeredAt", f.Since, f.Until)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	if s := values.Get("severity"); s != "" {
		f.Severity = &s
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if t := values.Get("alert_type"); t != "" {
		f.AlertType = &t
	}

	f.Since = parseTime(values.Get("since"))
	f.Until = parseTime(values.Get("until"))

	return f
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func scanAlert(s repository.Scanner) (Alert, error) {
	var a Alert
	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.AlertType,
		&a.Severity,
		&a.Title,
		&a.Description,
		&a.Status,
		&a.TriggeredAt,
		&a.AcknowledgedAt,
		&a.Filename,
	)
	return a, err
}
