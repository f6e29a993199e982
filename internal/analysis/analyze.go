package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultMaxTextLength is the prefix length, in runes, the service layer
// analyzes for a stored document.
const DefaultMaxTextLength = 8000

// Engine composes extraction, scoring, and detection for one lexicon.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	lex          *Lexicon
	x            *extractor
	rules        []rule
	regulators   map[string]struct{}
	placeholders *regexp.Regexp

	riskTerms        *termMatcher
	criticalTerms    *termMatcher
	fraudTerms       *termMatcher
	enforcementTerms *termMatcher
	positiveTerms    *termMatcher
	negativeTerms    *termMatcher
}

// New builds an Engine from a lexicon. A nil lexicon selects DefaultLexicon.
func New(lex *Lexicon) (*Engine, error) {
	if lex == nil {
		lex = DefaultLexicon()
	} else if err := lex.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLexicon, err)
	}

	e := &Engine{
		lex:              lex,
		x:                newExtractor(lex),
		rules:            catalog,
		regulators:       make(map[string]struct{}, len(lex.Regulators)),
		placeholders:     placeholderPattern(lex.Placeholders),
		riskTerms:        newTermMatcher(mapKeys(lex.RiskTerms)),
		criticalTerms:    newTermMatcher(lex.CriticalTerms),
		fraudTerms:       newTermMatcher(lex.FraudTerms),
		enforcementTerms: newTermMatcher(lex.EnforcementTerms),
		positiveTerms:    newTermMatcher(mapKeys(lex.Sentiment.Positive)),
		negativeTerms:    newTermMatcher(mapKeys(lex.Sentiment.Negative)),
	}
	for _, r := range lex.Regulators {
		e.regulators[r] = struct{}{}
	}
	return e, nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	e, err := New(nil)
	if err != nil {
		panic(fmt.Sprintf("analysis: default engine: %v", err))
	}
	return e
})

// Default returns a shared Engine built from the embedded lexicon.
func Default() *Engine {
	return defaultEngine()
}

// Extract returns the entities recognized in text in first-occurrence order.
// Unrecognized text yields no entities.
func (e *Engine) Extract(text string) []Entity {
	return e.x.extract(text)
}

// Analyze runs extraction, scoring, and detection over text and derives
// insights and recommendations. It fails only when text is not valid UTF-8
// or is empty after trimming; every other input produces a result.
func (e *Engine) Analyze(text string) (*AnalysisResult, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	entities := e.x.extract(text)
	f := e.features(text, entities)
	f.scores = e.score(f)
	findings := e.detect(f)

	result := &AnalysisResult{
		RiskScore:       f.scores.Risk,
		SentimentScore:  f.scores.Sentiment,
		ConfidenceScore: f.scores.Confidence,
		Entities:        entities,
		Anomalies:       findings,
	}
	result.Insights = insights(result)
	result.Recommendations = e.recommendations(result)

	return result, nil
}

// Truncate returns at most maxRunes runes of text, cut on a rune boundary.
// A non-positive maxRunes returns text unchanged.
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == maxRunes {
			return text[:i]
		}
		n++
	}
	return text
}

func validateText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is empty", ErrValidation)
	}
	return nil
}

func (e *Engine) recommendations(r *AnalysisResult) []string {
	var recs []string
	switch {
	case r.RiskScore > highRiskThreshold:
		recs = append(recs,
			"Escalate for immediate compliance review",
			"Hold related transactions pending investigation",
		)
	case r.RiskScore > mediumRiskThreshold:
		recs = append(recs, "Schedule an enhanced due diligence review")
	default:
		recs = append(recs, "Continue standard monitoring")
	}

	seen := make(map[Category]struct{})
	for _, f := range r.Anomalies {
		if _, ok := seen[f.Category]; ok {
			continue
		}
		seen[f.Category] = struct{}{}
		for _, rule := range e.rules {
			if rule.category == f.Category && rule.recommendation != "" {
				recs = append(recs, rule.recommendation)
				break
			}
		}
	}
	return recs
}
