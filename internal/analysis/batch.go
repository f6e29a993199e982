package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Document is one input to a batch analysis.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BatchEntry is the outcome for one document identifier.
// On success Result is set and Error is empty; on failure Error describes
// the problem and Result is nil.
type BatchEntry struct {
	Result *AnalysisResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Failed reports whether the entry records a failure.
func (b BatchEntry) Failed() bool {
	return b.Result == nil
}

// BatchOutcome maps each input identifier to its entry. When two inputs
// share an identifier, the later input's entry is kept.
type BatchOutcome map[string]BatchEntry

// Succeeded returns the number of entries holding a result.
func (o BatchOutcome) Succeeded() int {
	n := 0
	for _, entry := range o {
		if !entry.Failed() {
			n++
		}
	}
	return n
}

// Failed returns the identifiers of failed entries.
func (o BatchOutcome) Failed() []string {
	var ids []string
	for id, entry := range o {
		if entry.Failed() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Err returns a *PartialBatchError when any entry failed, otherwise nil.
func (o BatchOutcome) Err() error {
	failed := o.Failed()
	if len(failed) == 0 {
		return nil
	}
	return newPartialBatchError(failed)
}

// Batch analyzes docs concurrently under the configured ceilings and
// returns one entry per distinct identifier. A document that fails
// validation, or that is still pending when ctx is canceled, is recorded
// as an error entry; Batch itself never fails.
func (e *Engine) Batch(ctx context.Context, docs []Document, cfg BatchConfig) BatchOutcome {
	entries := make([]BatchEntry, len(docs))

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), max(cfg.Burst, 1))
	}

	var g errgroup.Group
	g.SetLimit(workerCount(cfg.concurrency(), len(docs)))

	for i := range docs {
		g.Go(func() error {
			entries[i] = e.batchEntry(ctx, limiter, docs[i])
			return nil
		})
	}
	g.Wait()

	outcome := make(BatchOutcome, len(docs))
	for i, doc := range docs {
		outcome[doc.ID] = entries[i]
	}
	return outcome
}

func (e *Engine) batchEntry(ctx context.Context, limiter *rate.Limiter, doc Document) BatchEntry {
	if err := ctx.Err(); err != nil {
		return BatchEntry{Error: fmt.Sprintf("not analyzed: %v", err)}
	}
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return BatchEntry{Error: fmt.Sprintf("not analyzed: %v", err)}
		}
	}

	result, err := e.Analyze(doc.Text)
	if err != nil {
		return BatchEntry{Error: err.Error()}
	}
	return BatchEntry{Result: result}
}

func workerCount(limit, n int) int {
	return max(min(limit, n), 1)
}
