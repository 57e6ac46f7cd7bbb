package verify

import "strings"

// noiseTokens are caption words that carry no identity: party
// connectives, procedural abbreviations, corporate suffixes.
var noiseTokens = map[string]bool{
	"v": true, "vs": true, "versus": true,
	"et": true, "al": true, "the": true, "of": true, "and": true,
	"in": true, "re": true, "ex": true, "parte": true, "matter": true,
	"inc": true, "co": true, "corp": true, "llc": true, "ltd": true,
	"assn": true, "bros": true,
}

// NormalizeCaseName lowercases a caption and strips punctuation so
// similarity compares party identity, not typography.
func NormalizeCaseName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity scores two case names in [0,1]. It blends token overlap
// (robust to reordered or partially truncated captions) with edit
// distance over the normalized strings (robust to small misspellings).
func Similarity(a, b string) float64 {
	na, nb := NormalizeCaseName(a), NormalizeCaseName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return 0.5*tokenOverlap(na, nb) + 0.5*editRatio(na, nb)
}

// tokenOverlap is Jaccard similarity over identity-bearing tokens
func tokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		if !noiseTokens[tok] {
			set[tok] = true
		}
	}
	return set
}

// editRatio is 1 - levenshtein/maxlen
func editRatio(a, b string) float64 {
	dist := levenshtein(a, b)
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	if max == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(max)
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
