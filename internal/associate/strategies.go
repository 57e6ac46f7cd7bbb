package associate

import (
	"regexp"
	"strings"
)

// candidate is one possible case name for a citation span
type candidate struct {
	name       string
	confidence float64
	truncated  bool
}

// Party names are runs of capitalized words plus a few lowercase
// connectors. Requiring capitalization keeps a caption scan from crossing
// a sentence boundary into preceding prose, and excluding digits keeps it
// from swallowing a preceding citation's volume and page.
const (
	partyWord = `[A-Z][A-Za-z.,'&\-()]*`
	connector = `(?:of|the|&|ex rel\.)`
	party     = partyWord + `(?:\s+(?:` + partyWord + `|` + connector + `)){0,7}`
)

// caseNameRe matches adversarial captions ("Smith v. Jones") and
// single-party captions ("In re Aimster", "Ex parte Young") ending at the
// context-window boundary.
var caseNameRe = regexp.MustCompile(
	`((?:In re|Ex parte|Matter of)\s+` + party +
		`|` + party + `\s+v\.?\s+` + party + `)\s*,?\s*$`)

// signalWords are introductory citation signals stripped before a retry.
// Longest first so "see also" wins over "see".
var signalWords = []string{
	"see generally", "see, e.g.,", "see also", "but see", "see",
	"accord", "cf.", "compare", "contra", "quoting", "citing",
	"e.g.,", "e.g.", "as held in", "relying on",
}

// proceduralPhrases are leading noise stripped from a final name
var proceduralPhrases = []string{
	"in the matter of the application of",
	"on appeal from",
	"on remand from",
	"as modified by",
	"aff'd sub nom.",
	"rev'd sub nom.",
}

var (
	yearRe          = regexp.MustCompile(`\b(1[789]\d{2}|20\d{2})\b`)
	parentheticalRe = regexp.MustCompile(`\(([^()]{0,60}?)(1[789]\d{2}|20\d{2})\)`)
	// corporateFragmentRe flags a caption that starts mid-name: a bare
	// corporate suffix or a 1-3 letter capitalized token before "v.".
	corporateFragmentRe = regexp.MustCompile(`^(?:Co\.|Corp\.|Inc\.|Ltd\.|LLC|L\.L\.C\.|Ass'n|Bros\.|[A-Z][a-z]{0,2}\.?)\s+v\.?\s`)
)

// scanBackward looks for a caption ending immediately before the reporter
// volume number. This is the highest-confidence strategy: the caption
// sits flush against the citation with at most a comma between them.
// A caption still carrying a leading signal word is rejected here so the
// signal-stripped retry handles it instead. atDocStart reports that the
// window was not clipped, so a match flush against its start is complete.
func scanBackward(window string, atDocStart bool) (candidate, bool) {
	trimmed := strings.TrimRight(window, " \t\n,")
	m := caseNameRe.FindStringSubmatch(trimmed + ",")
	if m == nil {
		return candidate{}, false
	}
	if startsWithSignal(m[1]) {
		return candidate{}, false
	}
	name := cleanName(m[1])
	if name == "" {
		return candidate{}, false
	}
	return candidate{name: name, confidence: 0.9, truncated: looksTruncated(name, window, m[1], atDocStart)}, true
}

// stripSignals blanks citation signals out of the window so "see Smith v.
// Jones," scans the same as "Smith v. Jones,". Blanking preserves window
// length, keeping offsets and truncation checks stable.
func stripSignals(window string) (string, bool) {
	out := []byte(window)
	lower := []byte(strings.ToLower(window))
	stripped := false

	for _, sig := range signalWords {
		idx := strings.LastIndex(string(lower), sig)
		if idx < 0 {
			continue
		}
		end := idx + len(sig)
		if idx > 0 && isWordChar(lower[idx-1]) {
			continue
		}
		if end < len(lower) && isWordChar(lower[end]) {
			continue
		}
		for i := idx; i < end; i++ {
			out[i] = ' '
			lower[i] = ' '
		}
		stripped = true
	}

	if !stripped {
		return window, false
	}
	return string(out), true
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func startsWithSignal(name string) bool {
	lower := strings.ToLower(name)
	for _, sig := range signalWords {
		if strings.HasPrefix(lower, sig+" ") {
			return true
		}
	}
	return false
}

// cleanName post-processes a raw caption: trims punctuation and strips
// leading procedural phrases.
func cleanName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, ",")

	lower := strings.ToLower(name)
	for _, phrase := range proceduralPhrases {
		if strings.HasPrefix(lower, phrase) {
			name = strings.TrimSpace(name[len(phrase):])
			lower = strings.ToLower(name)
		}
	}
	return strings.TrimSpace(name)
}

// looksTruncated reports whether a caption appears cut off: it starts
// with a bare 1-3 letter token or corporate-suffix fragment before "v.",
// or the match begins at the clipped start of the context window.
func looksTruncated(name, window, rawMatch string, atDocStart bool) bool {
	if corporateFragmentRe.MatchString(name) {
		return true
	}
	if atDocStart {
		return false
	}
	// Caption flush against a clipped window start usually means the real
	// name continues beyond the boundary.
	idx := strings.Index(window, rawMatch)
	return idx == 0
}
