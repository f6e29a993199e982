package analysis

import "fmt"

// Comparison thresholds.
const (
	highSimilarity     = 0.8
	lowSimilarity      = 0.3
	riskChangeFlag     = 0.2
	entityChurnInsight = 5
)

// DocumentSummary condenses one side of a comparison.
type DocumentSummary struct {
	RiskScore       float64 `json:"risk_score"`
	SentimentScore  float64 `json:"sentiment_score"`
	ConfidenceScore float64 `json:"confidence_score"`
	EntityCount     int     `json:"entity_count"`
	AnomalyCount    int     `json:"anomaly_count"`
}

// ComparisonMetrics holds the cross-document deltas. Changes are computed
// as second minus first and are not clamped.
type ComparisonMetrics struct {
	Similarity         float64 `json:"similarity"`
	EntitiesAdded      int     `json:"entities_added"`
	EntitiesRemoved    int     `json:"entities_removed"`
	RiskScoreChange    float64 `json:"risk_score_change"`
	SentimentChange    float64 `json:"sentiment_change"`
	ConfidenceChange   float64 `json:"confidence_change"`
	AnomalyCountChange int     `json:"anomaly_count_change"`
}

// ComparisonResult describes the drift between two documents.
// AddedEntities are present only in the second document, in its order;
// RemovedEntities are present only in the first, in its order.
type ComparisonResult struct {
	Similarity      float64           `json:"similarity"`
	AddedEntities   []Entity          `json:"added_entities"`
	RemovedEntities []Entity          `json:"removed_entities"`
	Metrics         ComparisonMetrics `json:"metrics"`
	Insights        []string          `json:"insights"`
	Documents       struct {
		First  DocumentSummary `json:"first"`
		Second DocumentSummary `json:"second"`
	} `json:"documents"`
}

// Compare analyzes both texts and reports their drift. Either text failing
// validation fails the comparison with ErrValidation.
func (e *Engine) Compare(text1, text2 string) (*ComparisonResult, error) {
	first, err := e.Analyze(text1)
	if err != nil {
		return nil, fmt.Errorf("first document: %w", err)
	}
	second, err := e.Analyze(text2)
	if err != nil {
		return nil, fmt.Errorf("second document: %w", err)
	}
	return Diff(first, second, text1, text2), nil
}

// Diff compares two analysis results of the given source texts.
// Similarity is the Jaccard ratio over entity keys, or over lowercase
// tokens when neither document has entities.
func Diff(first, second *AnalysisResult, text1, text2 string) *ComparisonResult {
	var similarity float64
	if len(first.Entities) == 0 && len(second.Entities) == 0 {
		similarity = jaccard(tokenSet(text1), tokenSet(text2))
	} else {
		similarity = jaccard(entityKeySet(first.Entities), entityKeySet(second.Entities))
	}

	added := entityDifference(second.Entities, first.Entities)
	removed := entityDifference(first.Entities, second.Entities)

	result := &ComparisonResult{
		Similarity:      similarity,
		AddedEntities:   added,
		RemovedEntities: removed,
		Metrics: ComparisonMetrics{
			Similarity:         similarity,
			EntitiesAdded:      len(added),
			EntitiesRemoved:    len(removed),
			RiskScoreChange:    second.RiskScore - first.RiskScore,
			SentimentChange:    second.SentimentScore - first.SentimentScore,
			ConfidenceChange:   second.ConfidenceScore - first.ConfidenceScore,
			AnomalyCountChange: len(second.Anomalies) - len(first.Anomalies),
		},
	}
	result.Documents.First = summarize(first)
	result.Documents.Second = summarize(second)
	result.Insights = comparisonInsights(result.Metrics)

	return result
}

func summarize(r *AnalysisResult) DocumentSummary {
	return DocumentSummary{
		RiskScore:       r.RiskScore,
		SentimentScore:  r.SentimentScore,
		ConfidenceScore: r.ConfidenceScore,
		EntityCount:     len(r.Entities),
		AnomalyCount:    len(r.Anomalies),
	}
}

func comparisonInsights(m ComparisonMetrics) []string {
	lines := make([]string, 0)

	switch {
	case m.Similarity > highSimilarity:
		lines = append(lines, fmt.Sprintf("Documents are highly similar (similarity %.2f)", m.Similarity))
	case m.Similarity < lowSimilarity:
		lines = append(lines, fmt.Sprintf("Documents have significant differences (similarity %.2f)", m.Similarity))
	}

	switch {
	case m.RiskScoreChange > riskChangeFlag:
		lines = append(lines, fmt.Sprintf("Risk level increased significantly (%+.2f)", m.RiskScoreChange))
	case m.RiskScoreChange < -riskChangeFlag:
		lines = append(lines, fmt.Sprintf("Risk level decreased significantly (%+.2f)", m.RiskScoreChange))
	}

	if m.EntitiesAdded > entityChurnInsight {
		lines = append(lines, fmt.Sprintf("%d new entities detected in the second document", m.EntitiesAdded))
	}
	if m.EntitiesRemoved > entityChurnInsight {
		lines = append(lines, fmt.Sprintf("%d entities no longer present in the second document", m.EntitiesRemoved))
	}
	if m.AnomalyCountChange > 0 {
		lines = append(lines, fmt.Sprintf("%d additional anomaly finding(s) in the second document", m.AnomalyCountChange))
	}

	return lines
}

// entityDifference returns members of from whose keys are absent in other,
// collapsing duplicates and keeping first-occurrence order.
func entityDifference(from, other []Entity) []Entity {
	exclude := entityKeySet(other)
	seen := make(map[string]struct{}, len(from))
	diff := make([]Entity, 0)
	for _, ent := range from {
		key := ent.Key()
		if _, ok := exclude[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		diff = append(diff, ent)
	}
	return diff
}

func entityKeySet(entities []Entity) map[string]struct{} {
	set := make(map[string]struct{}, len(entities))
	for _, ent := range entities {
		set[ent.Key()] = struct{}{}
	}
	return set
}

func tokenSet(text string) map[string]struct{} {
	tokens := tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t.text] = struct{}{}
	}
	return set
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 1 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
