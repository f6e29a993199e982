// Package analysis implements the document risk and anomaly analysis engine.
// It extracts lexical features from plain text, scores them for risk,
// sentiment, and confidence, runs an ordered catalog of anomaly rules, and
// composes the results into immutable value snapshots. The package performs
// no I/O; persistence of results belongs to the policy layer.
package analysis

import (
	"math"
	"strconv"
	"strings"
)

// EntityKind identifies the category of an extracted entity.
type EntityKind string

const (
	KindOrg    EntityKind = "ORG"
	KindPerson EntityKind = "PERSON"
	KindMoney  EntityKind = "MONEY"
	KindDate   EntityKind = "DATE"
	KindMetric EntityKind = "METRIC"
)

func (k EntityKind) rank() int {
	switch k {
	case KindOrg:
		return 0
	case KindPerson:
		return 1
	case KindMoney:
		return 2
	case KindDate:
		return 3
	default:
		return 4
	}
}

// Entity is a structured fact extracted from free text.
// Position is the byte offset of the match within the analyzed text.
// For METRIC entities, Value holds the canonical metric name
// (for example "debt_to_equity") and NormalizedValue the paired number.
type Entity struct {
	Kind            EntityKind `json:"kind"`
	Value           string     `json:"value"`
	NormalizedValue *float64   `json:"normalized_value,omitempty"`
	Position        int        `json:"position"`
}

// Key returns the identity used when comparing entities across documents.
// Two entities with equal keys are the same fact regardless of position.
func (e Entity) Key() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteByte('|')
	if e.Kind == KindMetric {
		b.WriteString(e.Value)
		b.WriteByte('|')
	}
	if e.NormalizedValue != nil {
		b.WriteString(strconv.FormatFloat(*e.NormalizedValue, 'g', -1, 64))
	} else {
		b.WriteString(strings.Join(strings.Fields(e.Value), " "))
	}
	return b.String()
}

// Severity ranks an anomaly finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities from low (1) to critical (4).
// Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Category identifies the rule that produced an anomaly finding.
type Category string

const (
	CategoryRevenueGrowth      Category = "revenue_growth_inconsistency"
	CategoryImplausibleGrowth  Category = "implausible_growth"
	CategoryLeverageBreach     Category = "leverage_breach"
	CategoryRoundNumbers       Category = "round_number_clustering"
	CategoryNegativeCluster    Category = "negative_sentiment_cluster"
	CategoryUnusualAmount      Category = "unusual_amount"
	CategoryDuplicateAmount    Category = "duplicate_amount"
	CategoryRegulatoryExposure Category = "regulatory_exposure"
	CategoryCriticalLanguage   Category = "critical_language"
	CategoryDataQuality        Category = "data_quality"
)

// Label returns a human-readable name for the category.
func (c Category) Label() string {
	s := strings.ReplaceAll(string(c), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AnomalyFinding is a single rule-triggered red flag.
// Severity is assigned by the producing rule and never recomputed.
type AnomalyFinding struct {
	Category        Category `json:"category"`
	Severity        Severity `json:"severity"`
	Description     string   `json:"description"`
	EvidenceOffsets []int    `json:"evidence_offsets"`
}

func (f AnomalyFinding) firstOffset() int {
	if len(f.EvidenceOffsets) == 0 {
		return math.MaxInt
	}
	return f.EvidenceOffsets[0]
}

// Scores holds the three independent numeric scores for one text.
type Scores struct {
	Risk       float64 `json:"risk_score"`
	Sentiment  float64 `json:"sentiment_score"`
	Confidence float64 `json:"confidence_score"`
}

// AnalysisResult is the engine's complete assessment of one text.
type AnalysisResult struct {
	RiskScore       float64          `json:"risk_score"`
	SentimentScore  float64          `json:"sentiment_score"`
	ConfidenceScore float64          `json:"confidence_score"`
	Entities        []Entity         `json:"entities"`
	Anomalies       []AnomalyFinding `json:"anomalies"`
	Insights        []string         `json:"insights"`
	Recommendations []string         `json:"recommendations"`
}

// Scores returns the result's scores as a Scores value.
func (r *AnalysisResult) Scores() Scores {
	return Scores{
		Risk:       r.RiskScore,
		Sentiment:  r.SentimentScore,
		Confidence: r.ConfidenceScore,
	}
}

// HasSeverity reports whether any finding carries the given severity.
func (r *AnalysisResult) HasSeverity(s Severity) bool {
	for _, f := range r.Anomalies {
		if f.Severity == s {
			return true
		}
	}
	return false
}
