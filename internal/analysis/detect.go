package analysis

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
)

// Rule thresholds. Each rule grades its measurement against fixed tiers;
// the highest tier reached sets the finding's severity.
const (
	growthMismatchMedium = 25.0
	growthMismatchHigh   = 50.0
	growthStatedMedium   = 100.0
	growthStatedHigh     = 150.0
	leverageMedium       = 2.0
	leverageHigh         = 3.0
	leverageCritical     = 5.0
	roundShareMin        = 0.8
	roundMinFigures      = 3
	roundFiguresHigh     = 5
	roundUnit            = 1000.0
	negativeWindow       = 8
	outlierSigma         = 2.0
	outlierMinFigures    = 3
	criticalTermsMedium  = 2
	criticalTermsHigh    = 4
)

var leverageMetrics = []string{"debt_to_equity", "leverage"}

// tier maps a minimum measurement to a severity.
type tier struct {
	min      float64
	severity Severity
}

// measurement is what a rule observed in one document.
type measurement struct {
	value   float64
	offsets []int
	subject string
}

// rule is one entry in the anomaly catalog. measure reports whether the
// rule applies at all; tiers, in ascending order, grade the measurement;
// describe renders the finding text for the reached tier.
type rule struct {
	category       Category
	tiers          []tier
	measure        func(e *Engine, f *features) (measurement, bool)
	describe       func(m measurement, t tier) string
	recommendation string
}

func (r rule) evaluate(e *Engine, f *features) (AnomalyFinding, bool) {
	m, ok := r.measure(e, f)
	if !ok {
		return AnomalyFinding{}, false
	}

	var reached *tier
	for i := range r.tiers {
		if m.value >= r.tiers[i].min {
			reached = &r.tiers[i]
		}
	}
	if reached == nil {
		return AnomalyFinding{}, false
	}

	offsets := slices.Clone(m.offsets)
	slices.Sort(offsets)
	offsets = slices.Compact(offsets)
	if offsets == nil {
		offsets = []int{}
	}

	return AnomalyFinding{
		Category:        r.category,
		Severity:        reached.severity,
		Description:     r.describe(m, *reached),
		EvidenceOffsets: offsets,
	}, true
}

// catalog is the ordered rule table. New categories are added here.
var catalog = []rule{
	{
		category: CategoryRevenueGrowth,
		tiers: []tier{
			{growthMismatchMedium, SeverityMedium},
			{growthMismatchHigh, SeverityHigh},
		},
		measure: measureGrowthMismatch,
		describe: func(m measurement, _ tier) string {
			return fmt.Sprintf("Stated %s growth differs from the growth implied by reported figures by %.1f points", m.subject, m.value)
		},
		recommendation: "Reconcile reported revenue figures against the stated growth rate",
	},
	{
		category: CategoryImplausibleGrowth,
		tiers: []tier{
			{growthStatedMedium, SeverityMedium},
			{growthStatedHigh, SeverityHigh},
		},
		measure: measureStatedGrowth,
		describe: func(m measurement, t tier) string {
			return fmt.Sprintf("Stated %s change of %.1f%% exceeds the %.0f%% plausibility threshold", m.subject, m.value, t.min)
		},
		recommendation: "Verify reported growth against source ledgers",
	},
	{
		category: CategoryLeverageBreach,
		tiers: []tier{
			{leverageMedium, SeverityMedium},
			{leverageHigh, SeverityHigh},
			{leverageCritical, SeverityCritical},
		},
		measure: measureLeverage,
		describe: func(m measurement, t tier) string {
			return fmt.Sprintf("%s ratio of %.2f exceeds the %.1f threshold", m.subject, m.value, t.min)
		},
		recommendation: "Review debt covenants and leverage disclosures",
	},
	{
		category: CategoryRoundNumbers,
		tiers: []tier{
			{roundMinFigures, SeverityMedium},
			{roundFiguresHigh, SeverityHigh},
		},
		measure: measureRoundNumbers,
		describe: func(m measurement, _ tier) string {
			return fmt.Sprintf("%.0f of %s monetary figures are round thousands, suggesting estimated or fabricated amounts", m.value, m.subject)
		},
		recommendation: "Sample the underlying transactions for fabricated entries",
	},
	{
		category: CategoryNegativeCluster,
		tiers: []tier{
			{2, SeverityMedium},
			{3, SeverityHigh},
		},
		measure: measureNegativeCluster,
		describe: func(m measurement, _ tier) string {
			return fmt.Sprintf("%.0f negative terms cluster near monetary figures (%s)", m.value, m.subject)
		},
		recommendation: "Investigate the circumstances surrounding the flagged figures",
	},
	{
		category: CategoryUnusualAmount,
		tiers: []tier{
			{1, SeverityMedium},
			{2, SeverityHigh},
		},
		measure: measureUnusualAmount,
		describe: func(m measurement, _ tier) string {
			return fmt.Sprintf("Monetary figure %s deviates more than %.0f standard deviations from the document mean", m.subject, outlierSigma)
		},
		recommendation: "Obtain supporting documentation for outlier amounts",
	},
	{
		category: CategoryDuplicateAmount,
		tiers: []tier{
			{2, SeverityLow},
			{3, SeverityMedium},
		},
		measure: measureDuplicateAmount,
		describe: func(m measurement, _ tier) string {
			return fmt.Sprintf("Amount %s appears %.0f times", m.subject, m.value)
		},
		recommendation: "Check for duplicated transactions or entries",
	},
	{
		category: CategoryRegulatoryExposure,
		tiers: []tier{
			{1, SeverityHigh},
			{2, SeverityCritical},
		},
		measure: measureRegulatoryExposure,
		describe: func(m measurement, t tier) string {
			if t.severity == SeverityCritical {
				return fmt.Sprintf("Regulator reference (%s) alongside enforcement and fraud language", m.subject)
			}
			return fmt.Sprintf("Regulator reference (%s) alongside enforcement language", m.subject)
		},
		recommendation: "Engage legal counsel on regulatory exposure",
	},
	{
		category: CategoryCriticalLanguage,
		tiers: []tier{
			{criticalTermsMedium, SeverityMedium},
			{criticalTermsHigh, SeverityHigh},
		},
		measure: measureCriticalLanguage,
		describe: func(m measurement, _ tier) string {
			return fmt.Sprintf("Critical language detected: %s", m.subject)
		},
		recommendation: "Review flagged language with the compliance team",
	},
	{
		category: CategoryDataQuality,
		tiers: []tier{
			{1, SeverityLow},
		},
		measure: measureDataQuality,
		describe: func(m measurement, _ tier) string {
			return fmt.Sprintf("Document contains %.0f placeholder or missing value marker(s) (%s)", m.value, m.subject)
		},
		recommendation: "Request a complete copy of the source document",
	},
}

// Detect runs the anomaly catalog against text, its entities, and its scores.
func (e *Engine) Detect(text string, entities []Entity, scores Scores) []AnomalyFinding {
	f := e.features(text, entities)
	f.scores = scores
	return e.detect(f)
}

// detect evaluates every rule and sorts findings by severity descending,
// then first evidence offset ascending, then catalog order.
func (e *Engine) detect(f *features) []AnomalyFinding {
	findings := make([]AnomalyFinding, 0)
	for _, r := range e.rules {
		if finding, ok := r.evaluate(e, f); ok {
			findings = append(findings, finding)
		}
	}

	slices.SortStableFunc(findings, func(a, b AnomalyFinding) int {
		if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
			return rb - ra
		}
		oa, ob := a.firstOffset(), b.firstOffset()
		switch {
		case oa < ob:
			return -1
		case oa > ob:
			return 1
		}
		return 0
	})

	return findings
}

func metricsNamed(f *features, names ...string) []Entity {
	var out []Entity
	for _, ent := range f.entities {
		if ent.Kind == KindMetric && ent.NormalizedValue != nil && slices.Contains(names, ent.Value) {
			out = append(out, ent)
		}
	}
	return out
}

func metricsWithSuffix(f *features, suffix string) []Entity {
	var out []Entity
	for _, ent := range f.entities {
		if ent.Kind == KindMetric && ent.NormalizedValue != nil && strings.HasSuffix(ent.Value, suffix) {
			out = append(out, ent)
		}
	}
	return out
}

func measureGrowthMismatch(_ *Engine, f *features) (measurement, bool) {
	var best measurement
	found := false
	for _, g := range metricsWithSuffix(f, "_growth") {
		name := strings.TrimSuffix(g.Value, "_growth")
		levels := metricsNamed(f, name)
		if len(levels) < 2 {
			continue
		}
		first, last := levels[0], levels[len(levels)-1]
		if *first.NormalizedValue <= 0 {
			continue
		}
		implied := (*last.NormalizedValue / *first.NormalizedValue - 1) * 100
		gap := math.Abs(*g.NormalizedValue - implied)
		if !found || gap > best.value {
			best = measurement{
				value:   gap,
				offsets: []int{g.Position, first.Position, last.Position},
				subject: metricLabel(name),
			}
			found = true
		}
	}
	return best, found
}

func measureStatedGrowth(_ *Engine, f *features) (measurement, bool) {
	var best measurement
	found := false
	for _, g := range metricsWithSuffix(f, "_growth") {
		v := math.Abs(*g.NormalizedValue)
		if !found || v > best.value {
			best = measurement{
				value:   v,
				offsets: []int{g.Position},
				subject: metricLabel(strings.TrimSuffix(g.Value, "_growth")),
			}
			found = true
		}
	}
	return best, found
}

func measureLeverage(_ *Engine, f *features) (measurement, bool) {
	var best measurement
	found := false
	for _, m := range metricsNamed(f, leverageMetrics...) {
		if !found || *m.NormalizedValue > best.value {
			label := metricLabel(m.Value)
			best = measurement{
				value:   *m.NormalizedValue,
				offsets: []int{m.Position},
				subject: strings.ToUpper(label[:1]) + label[1:],
			}
			found = true
		}
	}
	return best, found
}

func measureRoundNumbers(_ *Engine, f *features) (measurement, bool) {
	if len(f.money) < roundMinFigures {
		return measurement{}, false
	}

	var offsets []int
	for _, m := range f.money {
		if m.value >= roundUnit && math.Mod(m.value, roundUnit) == 0 {
			offsets = append(offsets, m.position)
		}
	}

	share := float64(len(offsets)) / float64(len(f.money))
	if share < roundShareMin {
		return measurement{}, false
	}

	// The high tier requires every figure to be round.
	count := float64(len(offsets))
	if len(offsets) < len(f.money) && count >= roundFiguresHigh {
		count = roundFiguresHigh - 1
	}

	return measurement{
		value:   count,
		offsets: offsets,
		subject: fmt.Sprintf("%d", len(f.money)),
	}, true
}

func measureNegativeCluster(_ *Engine, f *features) (measurement, bool) {
	if len(f.money) == 0 || len(f.negative) == 0 || f.scores.Sentiment >= 0 {
		return measurement{}, false
	}

	var offsets []int
	var terms []string
	for _, h := range f.negative {
		for _, m := range f.money {
			if abs(h.index-m.tokenIndex) <= negativeWindow {
				offsets = append(offsets, h.offset)
				terms = append(terms, h.term)
				break
			}
		}
	}
	if len(offsets) == 0 {
		return measurement{}, false
	}

	return measurement{
		value:   float64(len(offsets)),
		offsets: offsets,
		subject: strings.Join(terms, ", "),
	}, true
}

func measureUnusualAmount(_ *Engine, f *features) (measurement, bool) {
	if len(f.money) < outlierMinFigures {
		return measurement{}, false
	}

	values := make([]float64, len(f.money))
	for i, m := range f.money {
		values[i] = m.value
	}
	mean, std := meanStd(values)
	if std == 0 {
		return measurement{}, false
	}

	var offsets []int
	var worst moneyFigure
	var worstDev float64
	above := false
	for _, m := range f.money {
		dev := math.Abs(m.value - mean)
		if dev <= outlierSigma*std {
			continue
		}
		offsets = append(offsets, m.position)
		if m.value > mean {
			above = true
		}
		if dev > worstDev {
			worst, worstDev = m, dev
		}
	}
	if len(offsets) == 0 {
		return measurement{}, false
	}

	value := 1.0
	if above {
		value = 2
	}
	return measurement{
		value:   value,
		offsets: offsets,
		subject: formatAmount(worst.value),
	}, true
}

func measureDuplicateAmount(_ *Engine, f *features) (measurement, bool) {
	groups := make(map[float64][]int)
	var order []float64
	for _, m := range f.money {
		if _, ok := groups[m.value]; !ok {
			order = append(order, m.value)
		}
		groups[m.value] = append(groups[m.value], m.position)
	}

	var best float64
	bestCount := 0
	for _, v := range order {
		if n := len(groups[v]); n > bestCount {
			best, bestCount = v, n
		}
	}
	if bestCount < 2 {
		return measurement{}, false
	}

	return measurement{
		value:   float64(bestCount),
		offsets: groups[best],
		subject: formatAmount(best),
	}, true
}

func measureRegulatoryExposure(e *Engine, f *features) (measurement, bool) {
	if len(f.enforce) == 0 {
		return measurement{}, false
	}

	var regulators []string
	var offsets []int
	for _, ent := range f.entities {
		if ent.Kind != KindOrg {
			continue
		}
		if _, ok := e.regulators[ent.Value]; !ok {
			continue
		}
		offsets = append(offsets, ent.Position)
		if !slices.Contains(regulators, ent.Value) {
			regulators = append(regulators, ent.Value)
		}
	}
	if len(regulators) == 0 {
		return measurement{}, false
	}

	for _, h := range f.enforce {
		offsets = append(offsets, h.offset)
	}

	value := 1.0
	if len(f.fraud) > 0 {
		value = 2
		for _, h := range f.fraud {
			offsets = append(offsets, h.offset)
		}
	}

	return measurement{
		value:   value,
		offsets: offsets,
		subject: strings.Join(regulators, ", "),
	}, true
}

func measureCriticalLanguage(_ *Engine, f *features) (measurement, bool) {
	terms := distinctTerms(f.critical)
	if len(terms) == 0 {
		return measurement{}, false
	}

	offsets := make([]int, len(f.critical))
	for i, h := range f.critical {
		offsets[i] = h.offset
	}

	return measurement{
		value:   float64(len(terms)),
		offsets: offsets,
		subject: strings.Join(terms, ", "),
	}, true
}

func measureDataQuality(e *Engine, f *features) (measurement, bool) {
	if e.placeholders == nil {
		return measurement{}, false
	}

	matches := e.placeholders.FindAllStringSubmatchIndex(f.text, -1)
	if len(matches) == 0 {
		return measurement{}, false
	}

	var offsets []int
	var markers []string
	for _, m := range matches {
		offsets = append(offsets, m[2])
		marker := strings.ToLower(f.text[m[2]:m[3]])
		if !slices.Contains(markers, marker) {
			markers = append(markers, marker)
		}
	}

	return measurement{
		value:   float64(len(matches)),
		offsets: offsets,
		subject: strings.Join(markers, ", "),
	}, true
}

func placeholderPattern(markers []string) *regexp.Regexp {
	if len(markers) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(` + alternation(markers) + `)(?:$|[^\pL\pN])`)
}

func metricLabel(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
