package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum similarity for a name to be suggested.
const DefaultThreshold = 0.5

// DefaultLimit caps the number of suggestions attached to one diagnostic.
const DefaultLimit = 3

// Candidate is a scored suggestion.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name. Results are sorted by score,
// highest first, with ties broken by name. Exact matches are excluded.
func Rank(name string, candidates []string) []Candidate {
	want := Normalize(name)

	out := make([]Candidate, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if c == name {
			continue
		}

		if _, dup := seen[c]; dup {
			continue
		}

		seen[c] = struct{}{}

		got := Normalize(c)

		score := Similarity(want, got)
		if want != "" && got != "" && tokenSubset(Tokens(name), Tokens(c)) {
			score = max(score, 0.75)
		}

		out = append(out, Candidate{Name: c, Score: score})
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

// Suggest returns up to DefaultLimit names similar to name.
func Suggest(name string, candidates []string) []string {
	var out []string

	for _, c := range Rank(name, candidates) {
		if c.Score < DefaultThreshold || len(out) == DefaultLimit {
			break
		}

		out = append(out, c.Name)
	}

	return out
}

// tokenSubset reports whether every word of the shorter identifier appears in the longer one.
func tokenSubset(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	for _, t := range a {
		if !slices.Contains(b, t) {
			return false
		}
	}

	return true
}
