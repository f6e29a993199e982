package analysis

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	metricWindow = 80
	numberPat    = `\d+(?:,\d{3})*(?:\.\d+)?`
	monthPat     = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
)

var wordPattern = regexp.MustCompile(`\S+`)

var (
	moneyPrefixPattern = regexp.MustCompile(
		`(?i)(?:([$€£])\s?|\b(usd|eur|gbp)\s?)(` + numberPat + `)(\s?(?:thousand|million|billion|trillion|bn|mm)\b|[kmbt]\b)?`,
	)
	moneySuffixPattern = regexp.MustCompile(
		`(?i)\b(` + numberPat + `)\s?(thousand|million|billion|trillion)?\s?(dollars|usd|euros|eur|pounds|gbp)\b`,
	)
	metricNumberPattern = regexp.MustCompile(
		`(?i)(?:([$€£])\s?)?\b(` + numberPat + `)(\s?(?:%|percent\b|x\b|thousand\b|million\b|billion\b|trillion\b|bn\b|mm\b)|[kmbt]\b)?`,
	)

	datePatterns = []datePattern{
		{
			re: regexp.MustCompile(`(?i)\b` + monthPat + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
			parse: func(g []string) (time.Time, bool) {
				return makeDate(g[3], monthIndex(g[1]), g[2])
			},
		},
		{
			re: regexp.MustCompile(`(?i)\b(\d{1,2})\s+` + monthPat + `\.?,?\s+(\d{4})\b`),
			parse: func(g []string) (time.Time, bool) {
				return makeDate(g[3], monthIndex(g[2]), g[1])
			},
		},
		{
			re: regexp.MustCompile(`(?i)\b` + monthPat + `\.?\s+(\d{4})\b`),
			parse: func(g []string) (time.Time, bool) {
				return makeDate(g[2], monthIndex(g[1]), "1")
			},
		},
		{
			re: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
			parse: func(g []string) (time.Time, bool) {
				m, _ := strconv.Atoi(g[1])
				return makeDate(g[3], m, g[2])
			},
		},
		{
			re: regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
			parse: func(g []string) (time.Time, bool) {
				m, _ := strconv.Atoi(g[2])
				return makeDate(g[1], m, g[3])
			},
		},
		{
			re: regexp.MustCompile(`(?i)\bQ([1-4])\s?(?:FY\s?)?(\d{4})\b`),
			parse: func(g []string) (time.Time, bool) {
				q, _ := strconv.Atoi(g[1])
				return makeDate(g[2], (q-1)*3+1, "1")
			},
		},
		{
			re: regexp.MustCompile(`(?i)\bFY\s?(\d{4})\b`),
			parse: func(g []string) (time.Time, bool) {
				return makeDate(g[1], 1, "1")
			},
		},
	}

	scales = map[string]float64{
		"k": 1e3, "thousand": 1e3,
		"m": 1e6, "mm": 1e6, "million": 1e6,
		"b": 1e9, "bn": 1e9, "billion": 1e9,
		"t": 1e12, "trillion": 1e12,
	}
)

type datePattern struct {
	re    *regexp.Regexp
	parse func(groups []string) (time.Time, bool)
}

// span is an entity candidate together with the byte range it covers.
type span struct {
	start, end int
	entity     Entity
}

// extractor holds the compiled recognizers for one lexicon.
type extractor struct {
	org       *regexp.Regexp
	regulator *regexp.Regexp
	person    *regexp.Regexp
	metric    *regexp.Regexp
	metrics   map[string]MetricDef
	stop      map[string]struct{}
	suffixes  map[string]struct{}
	decrease  *termMatcher
}

func newExtractor(lex *Lexicon) *extractor {
	x := &extractor{
		stop:     make(map[string]struct{}, len(lex.StopWords)),
		suffixes: make(map[string]struct{}, len(lex.OrgSuffixes)),
		decrease: newTermMatcher(lex.DecreaseTerms),
	}
	for _, w := range lex.StopWords {
		x.stop[w] = struct{}{}
	}
	for _, s := range lex.OrgSuffixes {
		x.suffixes[s] = struct{}{}
	}

	x.org = regexp.MustCompile(
		`\b([A-Z][A-Za-z0-9&'-]*(?:[ \t]+[A-Z][A-Za-z0-9&'-]*){0,4})[ \t]+(?:` +
			alternation(lex.OrgSuffixes) + `)\b`,
	)

	if len(lex.Regulators) > 0 {
		x.regulator = regexp.MustCompile(`\b(?:` + alternation(lex.Regulators) + `)\b`)
	}

	person := `\b(?:(?:` + alternation(lex.Honorifics) + `)\.?[ \t]+)?`
	if len(lex.Honorifics) == 0 {
		person = `\b`
	}
	x.person = regexp.MustCompile(
		person + `([A-Z][a-z]+\b(?:[ \t]+(?:[A-Z]\.|[A-Z][a-z]+\b)){1,5})`,
	)

	byLabel, labels := lex.metricLabels()
	x.metrics = byLabel
	if len(labels) > 0 {
		x.metric = regexp.MustCompile(`(?i)\b(?:` + alternation(labels) + `)\b`)
	}

	return x
}

// extract returns entities in first-occurrence order. Overlapping ORG,
// PERSON, MONEY, and DATE candidates resolve to the earliest, then longest,
// then highest-priority candidate. METRIC entities may overlap others.
func (x *extractor) extract(text string) []Entity {
	var candidates []span
	candidates = append(candidates, x.money(text)...)
	candidates = append(candidates, x.dates(text)...)
	candidates = append(candidates, x.orgs(text)...)
	candidates = append(candidates, x.people(text)...)

	slices.SortStableFunc(candidates, func(a, b span) int {
		if a.start != b.start {
			return a.start - b.start
		}
		if la, lb := a.end-a.start, b.end-b.start; la != lb {
			return lb - la
		}
		return a.entity.Kind.priority() - b.entity.Kind.priority()
	})

	entities := make([]Entity, 0, len(candidates))
	var dates []span
	covered := -1
	for _, c := range candidates {
		if c.start < covered {
			continue
		}
		entities = append(entities, c.entity)
		if c.entity.Kind == KindDate {
			dates = append(dates, c)
		}
		covered = c.end
	}

	entities = append(entities, x.metricEntities(text, dates)...)

	slices.SortStableFunc(entities, func(a, b Entity) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return a.Kind.rank() - b.Kind.rank()
	})

	return entities
}

func (k EntityKind) priority() int {
	switch k {
	case KindMoney:
		return 0
	case KindDate:
		return 1
	case KindOrg:
		return 2
	default:
		return 3
	}
}

func (x *extractor) money(text string) []span {
	var spans []span
	for _, m := range moneyPrefixPattern.FindAllStringSubmatchIndex(text, -1) {
		v, ok := parseNumber(group(text, m, 3))
		if !ok {
			continue
		}
		if s, ok := scales[scaleKey(group(text, m, 4))]; ok {
			v *= s
		}
		spans = append(spans, moneySpan(text, m[0], m[1], v))
	}
	for _, m := range moneySuffixPattern.FindAllStringSubmatchIndex(text, -1) {
		v, ok := parseNumber(group(text, m, 1))
		if !ok {
			continue
		}
		if s, ok := scales[strings.ToLower(group(text, m, 2))]; ok {
			v *= s
		}
		spans = append(spans, moneySpan(text, m[0], m[1], v))
	}
	return spans
}

// scaleKey normalizes a matched unit suffix for the scales table. Single
// letter scales only match when attached to the number, so "$5 M&A" is five
// dollars.
func scaleKey(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

func moneySpan(text string, start, end int, v float64) span {
	return span{
		start: start,
		end:   end,
		entity: Entity{
			Kind:            KindMoney,
			Value:           text[start:end],
			NormalizedValue: &v,
			Position:        start,
		},
	}
}

func (x *extractor) dates(text string) []span {
	var spans []span
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			groups := make([]string, len(m)/2)
			for i := range groups {
				groups[i] = group(text, m, i)
			}
			t, ok := p.parse(groups)
			if !ok {
				continue
			}
			v := float64(t.Unix())
			spans = append(spans, span{
				start: m[0],
				end:   m[1],
				entity: Entity{
					Kind:            KindDate,
					Value:           text[m[0]:m[1]],
					NormalizedValue: &v,
					Position:        m[0],
				},
			})
		}
	}
	return spans
}

func (x *extractor) orgs(text string) []span {
	var spans []span
	for _, m := range x.org.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		fields := wordPattern.FindAllStringIndex(text[start:end], -1)

		skip := 0
		for skip < len(fields) {
			w := text[start+fields[skip][0] : start+fields[skip][1]]
			if _, ok := x.stop[w]; !ok {
				break
			}
			skip++
		}
		if len(fields)-skip < 2 {
			continue
		}
		start += fields[skip][0]

		spans = append(spans, span{
			start: start,
			end:   end,
			entity: Entity{
				Kind:     KindOrg,
				Value:    strings.Join(strings.Fields(text[start:end]), " "),
				Position: start,
			},
		})
	}

	if x.regulator != nil {
		for _, m := range x.regulator.FindAllStringIndex(text, -1) {
			spans = append(spans, span{
				start: m[0],
				end:   m[1],
				entity: Entity{
					Kind:     KindOrg,
					Value:    text[m[0]:m[1]],
					Position: m[0],
				},
			})
		}
	}
	return spans
}

// people reads each run of capitalized words as a name after dropping
// leading stop words. The name ends at the next stop word and keeps at most
// three words plus initials. Runs holding an organization suffix are left to
// orgs.
func (x *extractor) people(text string) []span {
	var spans []span
	for _, m := range x.person.FindAllStringSubmatchIndex(text, -1) {
		base := m[2]
		fields := wordPattern.FindAllStringIndex(text[base:m[3]], -1)
		word := func(i int) string { return text[base+fields[i][0] : base+fields[i][1]] }

		skip := 0
		for skip < len(fields) && x.isStop(word(skip)) {
			skip++
		}

		end, names, org := skip, 0, false
		for ; end < len(fields) && names < 3; end++ {
			w := word(end)
			if _, ok := x.suffixes[w]; ok {
				org = true
				break
			}
			if x.isStop(w) {
				break
			}
			if !strings.HasSuffix(w, ".") {
				names++
			}
		}
		if org || names < 2 {
			continue
		}
		for strings.HasSuffix(word(end-1), ".") {
			end--
		}

		start, stop := base+fields[skip][0], base+fields[end-1][1]
		spanStart := start
		if skip == 0 {
			spanStart = m[0]
		}
		spans = append(spans, span{
			start: spanStart,
			end:   stop,
			entity: Entity{
				Kind:     KindPerson,
				Value:    strings.Join(strings.Fields(text[start:stop]), " "),
				Position: start,
			},
		})
	}
	return spans
}

func (x *extractor) isStop(w string) bool {
	_, ok := x.stop[w]
	return ok
}

// metricEntities pairs each metric label with the numbers that follow it
// in the same clause. Flow metrics yield a growth entity for the first
// percentage and a level entity per plain figure, oldest first; ratio
// metrics take the first number. Numbers inside a recognized date are
// skipped.
func (x *extractor) metricEntities(text string, dates []span) []Entity {
	if x.metric == nil {
		return nil
	}

	labels := x.metric.FindAllStringIndex(text, -1)
	var entities []Entity

	for i, loc := range labels {
		def, ok := x.metrics[normalizeLabel(text[loc[0]:loc[1]])]
		if !ok {
			continue
		}

		limit := len(text)
		if i+1 < len(labels) {
			limit = labels[i+1][0]
		}
		window := clauseWindow(text, loc[1], limit)

		haveGrowth := false
		var levels []level
		for _, m := range metricNumberPattern.FindAllStringSubmatchIndex(window, -1) {
			currency := group(window, m, 1)
			unit := scaleKey(group(window, m, 3))
			v, ok := parseNumber(group(window, m, 2))
			if !ok {
				continue
			}
			if currency == "" && unit == "" && isYear(v) {
				continue
			}
			if within(dates, loc[1]+m[4]) {
				continue
			}

			if def.Kind == MetricRatio {
				entities = append(entities, metricEntity(def.Name, v, loc[0]))
				break
			}

			if unit == "%" || unit == "percent" {
				if haveGrowth {
					continue
				}
				if len(x.decrease.match(tokenize(window[:m[0]]))) > 0 {
					v = -v
				}
				entities = append(entities, metricEntity(def.Name+"_growth", v, loc[0]))
				haveGrowth = true
				continue
			}

			if s, ok := scales[unit]; ok {
				v *= s
			}
			levels = append(levels, level{value: v, start: m[0], end: m[1]})
		}

		for _, l := range chronological(window, levels) {
			entities = append(entities, metricEntity(def.Name, l.value, loc[0]))
		}
	}
	return entities
}

// level is a plain figure found in a metric window.
type level struct {
	value      float64
	start, end int
}

// chronological orders the figures of "to Y from X" phrasing as X, Y. Any
// other phrasing keeps text order.
func chronological(window string, levels []level) []level {
	if len(levels) < 2 {
		return levels
	}
	first, last := levels[0], levels[len(levels)-1]
	between := window[first.end:last.start]
	if hasWord(window[:first.start], "to") && hasWord(between, "from") && !hasWord(between, "to") {
		slices.Reverse(levels)
	}
	return levels
}

func hasWord(text, word string) bool {
	return slices.ContainsFunc(tokenize(text), func(t token) bool { return t.text == word })
}

func metricEntity(name string, v float64, pos int) Entity {
	return Entity{
		Kind:            KindMetric,
		Value:           name,
		NormalizedValue: &v,
		Position:        pos,
	}
}

// clauseWindow returns text[start:limit] cut at the first clause terminator
// and at most metricWindow bytes long.
func clauseWindow(text string, start, limit int) string {
	end := min(limit, start+metricWindow, len(text))
	for i := start; i < end; i++ {
		switch text[i] {
		case ';', '\n':
			return text[start:i]
		case '.':
			if i+1 == len(text) || unicode.IsSpace(rune(text[i+1])) {
				return text[start:i]
			}
		}
	}
	return text[start:end]
}

func within(spans []span, pos int) bool {
	for _, s := range spans {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}

func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isYear(v float64) bool {
	return v == float64(int(v)) && v >= 1900 && v <= 2100
}

func monthIndex(name string) int {
	if len(name) < 3 {
		return 0
	}
	switch strings.ToLower(name[:3]) {
	case "jan":
		return 1
	case "feb":
		return 2
	case "mar":
		return 3
	case "apr":
		return 4
	case "may":
		return 5
	case "jun":
		return 6
	case "jul":
		return 7
	case "aug":
		return 8
	case "sep":
		return 9
	case "oct":
		return 10
	case "nov":
		return 11
	case "dec":
		return 12
	}
	return 0
}

func makeDate(year string, month int, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || d < 1 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(month), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
