package analysis

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// MetricKind distinguishes flow metrics, whose percentages describe growth,
// from ratio metrics, whose first adjacent number is the value.
type MetricKind string

const (
	MetricFlow  MetricKind = "flow"
	MetricRatio MetricKind = "ratio"
)

// MetricDef declares a labeled financial metric recognized by the extractor.
type MetricDef struct {
	Name   string     `yaml:"name"`
	Kind   MetricKind `yaml:"kind"`
	Labels []string   `yaml:"labels"`
}

// SentimentTerms holds weighted positive and negative sentiment vocabularies.
type SentimentTerms struct {
	Positive map[string]float64 `yaml:"positive"`
	Negative map[string]float64 `yaml:"negative"`
}

// Lexicon is the data table driving extraction, scoring, and detection.
// Term lists are lowercase; multi-word terms are matched as token sequences.
type Lexicon struct {
	RiskTerms        map[string]float64 `yaml:"risk_terms"`
	CriticalTerms    []string           `yaml:"critical_terms"`
	FraudTerms       []string           `yaml:"fraud_terms"`
	EnforcementTerms []string           `yaml:"enforcement_terms"`
	Sentiment        SentimentTerms     `yaml:"sentiment"`
	DecreaseTerms    []string           `yaml:"decrease_terms"`
	Regulators       []string           `yaml:"regulators"`
	OrgSuffixes      []string           `yaml:"org_suffixes"`
	Honorifics       []string           `yaml:"honorifics"`
	StopWords        []string           `yaml:"stop_words"`
	Placeholders     []string           `yaml:"placeholders"`
	Metrics          []MetricDef        `yaml:"metrics"`
}

var defaultLexicon = sync.OnceValue(func() *Lexicon {
	lex, err := ParseLexicon(bytes.NewReader(defaultLexiconYAML))
	if err != nil {
		panic(fmt.Sprintf("analysis: embedded lexicon: %v", err))
	}
	return lex
})

// DefaultLexicon returns the embedded lexicon. The returned value is shared
// and must not be modified.
func DefaultLexicon() *Lexicon {
	return defaultLexicon()
}

// ParseLexicon decodes and validates a YAML lexicon. Unknown fields are rejected.
func ParseLexicon(r io.Reader) (*Lexicon, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var lex Lexicon
	if err := dec.Decode(&lex); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidLexicon, err)
	}

	if err := lex.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLexicon, err)
	}

	return &lex, nil
}

// LoadLexicon reads a YAML lexicon file from disk.
func LoadLexicon(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	return ParseLexicon(f)
}

func (l *Lexicon) validate() error {
	if len(l.RiskTerms) == 0 {
		return errors.New("risk_terms required")
	}
	for term, w := range l.RiskTerms {
		if w <= 0 || w > 1 {
			return fmt.Errorf("risk term %q: weight %v outside (0,1]", term, w)
		}
	}
	for term, w := range l.Sentiment.Positive {
		if w <= 0 || w > 1 {
			return fmt.Errorf("positive term %q: weight %v outside (0,1]", term, w)
		}
	}
	for term, w := range l.Sentiment.Negative {
		if w <= 0 || w > 1 {
			return fmt.Errorf("negative term %q: weight %v outside (0,1]", term, w)
		}
	}
	if len(l.OrgSuffixes) == 0 {
		return errors.New("org_suffixes required")
	}

	names := make(map[string]struct{}, len(l.Metrics))
	for _, m := range l.Metrics {
		if m.Name == "" {
			return errors.New("metric name required")
		}
		if _, ok := names[m.Name]; ok {
			return fmt.Errorf("metric %q declared twice", m.Name)
		}
		names[m.Name] = struct{}{}

		if m.Kind != MetricFlow && m.Kind != MetricRatio {
			return fmt.Errorf("metric %q: unknown kind %q", m.Name, m.Kind)
		}
		if len(m.Labels) == 0 {
			return fmt.Errorf("metric %q: labels required", m.Name)
		}
	}
	return nil
}

// metricLabels maps each normalized label to its metric definition and
// returns the labels longest first so regex alternation prefers them.
func (l *Lexicon) metricLabels() (map[string]MetricDef, []string) {
	byLabel := make(map[string]MetricDef)
	var labels []string
	for _, m := range l.Metrics {
		for _, label := range m.Labels {
			key := normalizeLabel(label)
			if _, ok := byLabel[key]; ok {
				continue
			}
			byLabel[key] = m
			labels = append(labels, key)
		}
	}
	slices.SortStableFunc(labels, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return byLabel, labels
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
