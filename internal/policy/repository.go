package policy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/pkg/repository"
)

const updateDocumentQ = `
	UPDATE documents SET
		status = $1,
		risk_level = $2,
		compliance_status = $3,
		risk_score = $4,
		sentiment_score = $5,
		confidence_score = $6,
		analysis_summary = $7,
		analyzed_at = $8,
		updated_at = $8
	WHERE id = $9`

const insertAlertQ = `
	INSERT INTO alerts(id, document_id, alert_type, severity, title, description, status, triggered_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

type repo struct {
	db          *sql.DB
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// New creates a policy system writing to db. concurrency bounds the number
// of simultaneous writes in ApplyBatch; non-positive values select
// analysis.DefaultBatchConcurrency.
func New(db *sql.DB, logger *slog.Logger, concurrency int) System {
	if concurrency <= 0 {
		concurrency = analysis.DefaultBatchConcurrency
	}
	return &repo{
		db:          db,
		logger:      logger.With("system", "policy"),
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Apply(ctx context.Context, documentID uuid.UUID, result *analysis.AnalysisResult) Decision {
	d := Decide(documentID, result, r.now())

	if err := r.write(ctx, d); err != nil {
		d.err = fmt.Errorf("%w: document %s: %w", ErrDownstreamWrite, documentID, writeErrors.Map(err))
		d.WriteError = d.err.Error()
		r.logger.Error("policy write failed",
			"document_id", documentID,
			"alerts", len(d.Alerts),
			"error", err,
		)
		return d
	}

	d.Persisted = true
	r.logger.Info("analysis applied",
		"document_id", documentID,
		"risk_level", d.Status.RiskLevel,
		"compliance_status", d.Status.ComplianceStatus,
		"alerts", len(d.Alerts),
	)
	return d
}

func (r *repo) ApplyBatch(ctx context.Context, outcome analysis.BatchOutcome) map[string]Decision {
	var (
		mu        sync.Mutex
		decisions = make(map[string]Decision, len(outcome))
	)

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for id, entry := range outcome {
		if entry.Failed() {
			continue
		}
		documentID, err := uuid.Parse(id)
		if err != nil {
			r.logger.Debug("skipping non-document batch entry", "id", id)
			continue
		}

		g.Go(func() error {
			d := r.Apply(ctx, documentID, entry.Result)
			mu.Lock()
			decisions[id] = d
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return decisions
}

func (r *repo) write(ctx context.Context, d Decision) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx, updateDocumentQ,
			d.Status.Status,
			d.Status.RiskLevel,
			d.Status.ComplianceStatus,
			d.Status.RiskScore,
			d.Status.SentimentScore,
			d.Status.ConfidenceScore,
			d.Status.Summary,
			d.Status.AnalyzedAt,
			d.DocumentID,
		); err != nil {
			return struct{}{}, fmt.Errorf("update document status: %w", err)
		}

		for _, a := range d.Alerts {
			if _, err := tx.ExecContext(
				ctx, insertAlertQ,
				a.ID,
				a.DocumentID,
				a.AlertType,
				a.Severity,
				a.Title,
				a.Description,
				a.Status,
				a.TriggeredAt,
			); err != nil {
				return struct{}{}, fmt.Errorf("insert alert: %w", err)
			}
		}

		return struct{}{}, nil
	})
	return err
}
