package assessments

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/internal/documents"
	"github.com/JaimeStill/finsight/internal/policy"
)

type service struct {
	engine *analysis.Engine
	docs   documents.System
	policy policy.System
	cfg    analysis.Config
	logger *slog.Logger
}

// New creates an assessment system backed by the given engine, document
// store, and policy writer. cfg must already be finalized.
func New(
	engine *analysis.Engine,
	docs documents.System,
	pol policy.System,
	cfg analysis.Config,
	logger *slog.Logger,
) System {
	return &service{
		engine: engine,
		docs:   docs,
		policy: pol,
		cfg:    cfg,
		logger: logger.With("system", "assessments"),
	}
}

func (s *service) Handler(maxBodySize int64) *Handler {
	return NewHandler(s, s.logger, maxBodySize)
}

func (s *service) Analyze(_ context.Context, text string) (*analysis.AnalysisResult, error) {
	return s.engine.Analyze(s.truncate(text))
}

func (s *service) Compare(_ context.Context, text1, text2 string) (*analysis.ComparisonResult, error) {
	return s.engine.Compare(s.truncate(text1), s.truncate(text2))
}

func (s *service) Batch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if len(req.Documents) > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d documents, limit %d", ErrBatchTooLarge, len(req.Documents), s.cfg.MaxBatchSize)
	}

	docs := make([]analysis.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = analysis.Document{ID: d.ID, Text: s.truncate(d.Text)}
	}

	start := time.Now()
	outcome := s.engine.Batch(ctx, docs, s.cfg.Batch.WithConcurrency(req.Concurrency))

	failed := outcome.Failed()
	slices.Sort(failed)

	resp := &BatchResponse{
		Results:   outcome,
		Succeeded: outcome.Succeeded(),
		Failed:    failed,
	}
	if resp.Failed == nil {
		resp.Failed = []string{}
	}

	if req.ApplyPolicy {
		resp.Decisions = s.policy.ApplyBatch(ctx, outcome)
	}

	s.logger.Info("batch analyzed",
		"documents", len(docs),
		"succeeded", resp.Succeeded,
		"failed", len(resp.Failed),
		"policy", req.ApplyPolicy,
		"duration", time.Since(start),
	)

	return resp, nil
}

func (s *service) AnalyzeDocument(ctx context.Context, id uuid.UUID) (*DocumentAnalysis, error) {
	text, err := s.docs.Text(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Analyze(s.truncate(text))
	if err != nil {
		return nil, fmt.Errorf("analyze document %s: %w", id, err)
	}

	decision := s.policy.Apply(ctx, id, result)

	s.logger.Info("document analyzed",
		"id", id,
		"risk_score", result.RiskScore,
		"anomalies", len(result.Anomalies),
		"persisted", decision.Persisted,
	)

	return &DocumentAnalysis{Analysis: result, Decision: decision}, nil
}

func (s *service) truncate(text string) string {
	return analysis.Truncate(text, s.cfg.MaxTextLength)
}
