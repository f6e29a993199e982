// Package assessments exposes the analysis engine as a service: ad hoc
// analysis and comparison of submitted text, batch analysis, and analysis
// of stored documents with the resulting policy applied.
package assessments

import (
	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/internal/policy"
)

// AnalyzeRequest is the body of an ad hoc analysis.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// CompareRequest is the body of a two-document comparison.
type CompareRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

// BatchRequest is the body of a batch analysis. Concurrency overrides the
// configured ceiling when positive. ApplyPolicy writes a decision for every
// successful entry whose id is a stored document UUID.
type BatchRequest struct {
	Documents   []analysis.Document `json:"documents"`
	Concurrency int                 `json:"concurrency,omitempty"`
	ApplyPolicy bool                `json:"apply_policy,omitempty"`
}

// BatchResponse carries the per-id outcome of a batch analysis. Decisions is
// populated only when the request asked for the policy to be applied.
type BatchResponse struct {
	Results   analysis.BatchOutcome      `json:"results"`
	Succeeded int                        `json:"succeeded"`
	Failed    []string                   `json:"failed"`
	Decisions map[string]policy.Decision `json:"decisions,omitempty"`
}

// DocumentAnalysis is the outcome of analyzing a stored document.
type DocumentAnalysis struct {
	Analysis *analysis.AnalysisResult `json:"analysis"`
	Decision policy.Decision          `json:"decision"`
}
