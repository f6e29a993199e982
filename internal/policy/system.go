package policy

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/internal/analysis"
)

// System applies analysis results to the document and alert store.
type System interface {
	// Apply decides and persists the outcome for one document. Persistence
	// failures are logged and reported on the returned Decision.
	Apply(ctx context.Context, documentID uuid.UUID, result *analysis.AnalysisResult) Decision

	// ApplyBatch applies every successful entry whose identifier is a
	// document UUID. Entries are written independently.
	ApplyBatch(ctx context.Context, outcome analysis.BatchOutcome) map[string]Decision
}
