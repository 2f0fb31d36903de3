// Package namematch resolves free-text venue names (from document headers
// or filenames) against a pool of known venues. Matching is tiered: exact,
// then containment, then token overlap. The tier order is a contract —
// callers rely on "most specific first" semantics when several tiers could
// succeed.
package namematch

import "strings"

// Entry is one pool member the matcher can resolve to.
type Entry struct {
	ID   uint64
	Name string
}

// Normalize lower-cases s, collapses the separators "_" and "-" to spaces,
// strips every non-alphanumeric rune except spaces, collapses runs of
// whitespace and trims the result.
func Normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == ' ' || r == '\t':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// strategy is a single matching tier. Tiers see the already-normalized
// candidate and pool names.
type strategy func(cand string, names []string) int

// tiers, in contract order: exact, containment, token overlap. Each tier
// scans the pool in input order and returns the first satisfying index.
var tiers = []strategy{matchExact, matchContains, matchTokens}

// Match resolves candidate against pool, trying each tier in order, and
// returns the id of the first satisfying pool entry. The boolean is false
// when no tier succeeds.
func Match(candidate string, pool []Entry) (uint64, bool) {
	cand := Normalize(candidate)
	if cand == "" || len(pool) == 0 {
		return 0, false
	}
	names := make([]string, len(pool))
	for i, e := range pool {
		names[i] = Normalize(e.Name)
	}
	for _, tier := range tiers {
		if i := tier(cand, names); i >= 0 {
			return pool[i].ID, true
		}
	}
	return 0, false
}

func matchExact(cand string, names []string) int {
	for i, n := range names {
		if n != "" && n == cand {
			return i
		}
	}
	return -1
}

func matchContains(cand string, names []string) int {
	for i, n := range names {
		if n == "" {
			continue
		}
		if strings.Contains(cand, n) || strings.Contains(n, cand) {
			return i
		}
	}
	return -1
}

// matchTokens compares significant words (length > 2). A pool entry matches
// when it shares at least two such words with the candidate, or at least one
// when the candidate has two or fewer significant words.
func matchTokens(cand string, names []string) int {
	candWords := significantWords(cand)
	if len(candWords) == 0 {
		return -1
	}
	need := 2
	if len(candWords) <= 2 {
		need = 1
	}
	for i, n := range names {
		shared := 0
		for w := range significantWords(n) {
			if candWords[w] {
				shared++
				if shared >= need {
					return i
				}
			}
		}
	}
	return -1
}

func significantWords(s string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			words[w] = true
		}
	}
	return words
}
