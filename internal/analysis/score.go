package analysis

import "math"

// Scoring constants, pinned by the package tests.
const (
	keywordRiskCap      = 0.6
	monetaryBaseline    = 1_000_000
	magnitudeWeight     = 0.05
	magnitudeCap        = 0.2
	volatilityWeight    = 0.05
	volatilityCap       = 0.15
	criticalWeight      = 0.02
	criticalCap         = 0.25
	confidenceEntityW   = 0.2
	confidenceTokenSpan = 250.0
	scorePrecision      = 1e4
)

// features is everything derived from one text that the scorer and the
// detector consume. It is built once per analysis.
type features struct {
	text     string
	tokens   []token
	entities []Entity
	risk     []termHit
	critical []termHit
	fraud    []termHit
	enforce  []termHit
	positive []termHit
	negative []termHit
	money    []moneyFigure
	scores   Scores
}

type moneyFigure struct {
	value      float64
	position   int
	tokenIndex int
}

func (e *Engine) features(text string, entities []Entity) *features {
	tokens := tokenize(text)
	f := &features{
		text:     text,
		tokens:   tokens,
		entities: entities,
		risk:     e.riskTerms.match(tokens),
		critical: e.criticalTerms.match(tokens),
		fraud:    e.fraudTerms.match(tokens),
		enforce:  e.enforcementTerms.match(tokens),
		positive: e.positiveTerms.match(tokens),
		negative: e.negativeTerms.match(tokens),
	}

	for _, ent := range entities {
		if ent.Kind != KindMoney || ent.NormalizedValue == nil {
			continue
		}
		f.money = append(f.money, moneyFigure{
			value:      *ent.NormalizedValue,
			position:   ent.Position,
			tokenIndex: tokenAt(tokens, ent.Position, ent.Position+len(ent.Value)),
		})
	}
	return f
}

// tokenAt returns the index of the first token inside [start, end),
// or the index of the nearest following token when none falls inside.
func tokenAt(tokens []token, start, end int) int {
	for i, t := range tokens {
		if t.offset >= start && t.offset < end {
			return i
		}
		if t.offset >= end {
			return i
		}
	}
	return len(tokens) - 1
}

// Score derives risk, sentiment, and confidence scores from text and its
// extracted entities.
func (e *Engine) Score(text string, entities []Entity) Scores {
	return e.score(e.features(text, entities))
}

func (e *Engine) score(f *features) Scores {
	return Scores{
		Risk:       round(clamp(e.keywordRisk(f)+monetaryRisk(f)+criticalRisk(f), 0, 1)),
		Sentiment:  round(clamp(e.sentiment(f), -1, 1)),
		Confidence: round(confidence(f)),
	}
}

func (e *Engine) keywordRisk(f *features) float64 {
	var sum float64
	for _, term := range distinctTerms(f.risk) {
		sum += e.lex.RiskTerms[term]
	}
	return math.Min(sum, keywordRiskCap)
}

func monetaryRisk(f *features) float64 {
	if len(f.money) == 0 {
		return 0
	}

	values := make([]float64, len(f.money))
	var peak float64
	for i, m := range f.money {
		values[i] = m.value
		peak = math.Max(peak, m.value)
	}

	var magnitude float64
	if peak > monetaryBaseline {
		magnitude = math.Min(magnitudeWeight*math.Log10(peak/monetaryBaseline), magnitudeCap)
	}

	var volatility float64
	if len(values) >= 2 {
		mean, std := meanStd(values)
		if mean > 0 {
			volatility = math.Min(volatilityWeight*(std/mean), volatilityCap)
		}
	}

	return magnitude + volatility
}

func criticalRisk(f *features) float64 {
	if len(f.tokens) == 0 || len(f.critical) == 0 {
		return 0
	}
	density := float64(len(f.critical)) / float64(len(f.tokens)) * 100
	return math.Min(criticalWeight*density, criticalCap)
}

func (e *Engine) sentiment(f *features) float64 {
	var sum float64
	for _, h := range f.positive {
		sum += e.lex.Sentiment.Positive[h.term]
	}
	for _, h := range f.negative {
		sum -= e.lex.Sentiment.Negative[h.term]
	}
	return sum
}

func confidence(f *features) float64 {
	signal := confidenceEntityW*float64(len(f.entities)) + float64(len(f.tokens))/confidenceTokenSpan
	return clamp(1-math.Exp(-signal), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64) float64 {
	return math.Round(v*scorePrecision) / scorePrecision
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
