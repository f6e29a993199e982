package assessments

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/internal/analysis"
)

// System defines the public contract for assessment operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	Analyze(ctx context.Context, text string) (*analysis.AnalysisResult, error)
	Compare(ctx context.Context, text1, text2 string) (*analysis.ComparisonResult, error)
	Batch(ctx context.Context, req BatchRequest) (*BatchResponse, error)

	// AnalyzeDocument loads a stored document's text, analyzes its prefix,
	// and applies the policy. A failed policy write is reported on the
	// returned Decision, not as an error.
	AnalyzeDocument(ctx context.Context, id uuid.UUID) (*DocumentAnalysis, error)
}
