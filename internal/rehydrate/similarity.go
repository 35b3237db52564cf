package rehydrate

import "strings"

// TokenSimilarity computes the Jaccard similarity of the token sets of two
// text blobs: |intersection| / |union|. Inputs are lower-cased, stripped of
// non-word characters and split on whitespace. The metric is symmetric,
// order-independent and reflexive for non-empty input; an empty side yields 0.
func TokenSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// tokenSet lower-cases, strips non-word runes and splits on whitespace,
// dropping empty tokens.
func tokenSet(s string) map[string]struct{} {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			sb.WriteRune(' ')
		default:
			// Non-word characters are stripped, not treated as separators
		}
	}

	set := make(map[string]struct{})
	for _, tok := range strings.Fields(sb.String()) {
		set[tok] = struct{}{}
	}
	return set
}
