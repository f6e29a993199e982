package analysis

import (
	"regexp"
	"slices"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\pL\pN]+(?:[-'.,][\pL\pN]+)*`)

type token struct {
	text   string
	offset int
}

func tokenize(text string) []token {
	locs := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]token, len(locs))
	for i, loc := range locs {
		tokens[i] = token{
			text:   strings.ToLower(text[loc[0]:loc[1]]),
			offset: loc[0],
		}
	}
	return tokens
}

// termHit records one occurrence of a lexicon term in a token stream.
type termHit struct {
	term   string
	index  int
	offset int
}

// termMatcher finds lexicon terms, including multi-word terms, in a token
// stream. At each position the longest matching term wins and matched
// tokens are not reused.
type termMatcher struct {
	byFirst map[string][][]string
}

func newTermMatcher(terms []string) *termMatcher {
	m := &termMatcher{byFirst: make(map[string][][]string)}
	for _, term := range terms {
		words := strings.Fields(strings.ToLower(term))
		if len(words) == 0 {
			continue
		}
		m.byFirst[words[0]] = append(m.byFirst[words[0]], words)
	}
	for first, seqs := range m.byFirst {
		slices.SortStableFunc(seqs, func(a, b []string) int {
			return len(b) - len(a)
		})
		m.byFirst[first] = seqs
	}
	return m
}

func (m *termMatcher) match(tokens []token) []termHit {
	var hits []termHit
	for i := 0; i < len(tokens); {
		n := m.matchAt(tokens, i)
		if n == 0 {
			i++
			continue
		}
		words := make([]string, n)
		for j := range n {
			words[j] = tokens[i+j].text
		}
		hits = append(hits, termHit{
			term:   strings.Join(words, " "),
			index:  i,
			offset: tokens[i].offset,
		})
		i += n
	}
	return hits
}

func (m *termMatcher) matchAt(tokens []token, i int) int {
	for _, seq := range m.byFirst[tokens[i].text] {
		if i+len(seq) > len(tokens) {
			continue
		}
		ok := true
		for j, w := range seq {
			if tokens[i+j].text != w {
				ok = false
				break
			}
		}
		if ok {
			return len(seq)
		}
	}
	return 0
}

func mapKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func distinctTerms(hits []termHit) []string {
	seen := make(map[string]struct{}, len(hits))
	var terms []string
	for _, h := range hits {
		if _, ok := seen[h.term]; ok {
			continue
		}
		seen[h.term] = struct{}{}
		terms = append(terms, h.term)
	}
	return terms
}
