package locate

import (
	"regexp"
	"strings"

	"github.com/ovoronin/lexcite/internal/model"
)

// matcher is one tagged reporter-format pattern. Matchers are tried in
// registration order and the first matcher to claim a span wins.
type matcher struct {
	name         string
	family       model.ReporterFamily
	jurisdiction string // Expected jurisdiction, "" when the series spans several
	re           *regexp.Regexp
}

// All citation patterns share the volume/reporter/page shape. They match
// against whitespace-normalized text; offsets are mapped back afterwards.
const (
	volume = `(\d{1,4})`
	page   = `(\d{1,5})`
)

// defaultMatchers returns the built-in matcher registry, most specific
// series first, generic fallback last.
func defaultMatchers() []matcher {
	mk := func(name string, family model.ReporterFamily, jurisdiction, reporter string) matcher {
		return matcher{
			name:         name,
			family:       family,
			jurisdiction: jurisdiction,
			re:           regexp.MustCompile(`\b` + volume + ` (` + reporter + `) ` + page + `\b`),
		}
	}

	// Every abbreviation component is joined with an optional space.
	// PDF extraction routinely breaks a series ordinal onto the next
	// line ("100 F.\n3d 1"), which normalization turns into "F. 3d".
	return []matcher{
		mk("scotus", model.FamilyFederal, "U.S.",
			`U\. ?S\.|S\. ?Ct\.|L\. ?Ed\. ?2d|L\. ?Ed\.`),
		mk("federal", model.FamilyFederal, "U.S.",
			`F\. ?Supp\. ?3d|F\. ?Supp\. ?2d|F\. ?Supp\.|F\. ?App'x|Fed\. ?Appx\.|F\. ?4th|F\. ?3d|F\. ?2d|F\.|Fed\. ?Cl\.|B\. ?R\.`),
		mk("regional", model.FamilyRegional, "",
			`A\. ?3d|A\. ?2d|P\. ?3d|P\. ?2d|N\. ?E\. ?3d|N\. ?E\. ?2d|N\. ?W\. ?2d|S\. ?E\. ?2d|S\. ?W\. ?3d|S\. ?W\. ?2d|So\. ?3d|So\. ?2d`),
		mk("california", model.FamilyState, "Cal.",
			`Cal\. ?App\. ?5th|Cal\. ?App\. ?4th|Cal\. ?App\. ?3d|Cal\. ?App\. ?2d|Cal\. ?Rptr\. ?3d|Cal\. ?Rptr\. ?2d|Cal\. ?Rptr\.|Cal\. ?5th|Cal\. ?4th|Cal\. ?3d|Cal\. ?2d`),
		mk("new-york", model.FamilyState, "N.Y.",
			`N\. ?Y\. ?S\. ?3d|N\. ?Y\. ?S\. ?2d|N\. ?Y\. ?3d|N\. ?Y\. ?2d|A\. ?D\. ?3d|A\. ?D\. ?2d|Misc\. ?3d|Misc\. ?2d`),
		mk("massachusetts", model.FamilyState, "Mass.",
			`Mass\. ?App\. ?Ct\.|Mass\.`),
		mk("illinois", model.FamilyState, "Ill.",
			`Ill\. ?App\. ?3d|Ill\. ?App\. ?2d|Ill\. ?Dec\.|Ill\. ?2d`),
		mk("texas", model.FamilyState, "Tex.",
			`Tex\. ?Crim\. ?App\.|Tex\. ?App\.|Tex\.`),
		mk("washington", model.FamilyState, "Wash.",
			`Wn\. ?App\. ?2d|Wn\. ?App\.|Wn\. ?2d|Wash\. ?2d|Wash\.`),
		{
			name:   "westlaw",
			family: model.FamilyUnpublished,
			re:     regexp.MustCompile(`\b(\d{4}) (WL) (\d{3,10})\b`),
		},
		{
			name:         "lexis",
			family:       model.FamilyUnpublished,
			jurisdiction: "U.S.",
			re:           regexp.MustCompile(`\b(\d{4}) (U\.S\. ?Dist\. ?LEXIS|U\.S\. ?App\. ?LEXIS) (\d{1,10})\b`),
		},
		// Generic fallback: any volume/abbreviation/page triple. Candidate
		// reporter tokens go through rejectReporter before acceptance.
		mk("generic", model.FamilyUnknown, "",
			`[A-Z][A-Za-z0-9.' ]{0,28}?\.`),
	}
}

// nonReporterTokens are abbreviations that fit the volume/page shape but
// cite statutes, regulations, or record material rather than decisions.
var nonReporterTokens = map[string]bool{
	"U.S.C.":     true,
	"U.S.C.A.":   true,
	"C.F.R.":     true,
	"Stat.":      true,
	"Fed. Reg.":  true,
	"Cong. Rec.": true,
	"L. Rev.":    true,
	"J.":         true,
	"Id.":        true,
	"No.":        true,
	"Nos.":       true,
	"Ch.":        true,
	"Sec.":       true,
	"Art.":       true,
	"Tr.":        true,
	"R.":         true,
	"Ex.":        true,
	"Doc.":       true,
}

// proseWords are ordinary capitalized English words. A candidate reporter
// containing one is a sentence fragment, not a series abbreviation.
var proseWords = map[string]bool{
	"The": true, "A": true, "An": true, "In": true, "Of": true,
	"At": true, "On": true, "And": true, "Or": true, "But": true,
	"For": true, "To": true, "See": true, "Court": true, "Judge": true,
	"Page": true, "Part": true, "Section": true, "Chapter": true,
}

// rejectReporter filters generic-fallback candidates that are signal
// words, sentence fragments, or non-decision abbreviations.
func rejectReporter(token string) bool {
	if nonReporterTokens[token] {
		return true
	}
	words := strings.Fields(token)
	// A real reporter abbreviation is short; a long multi-word token is
	// almost always a captured sentence fragment.
	if len(words) > 4 {
		return true
	}
	for _, w := range words {
		if proseWords[strings.TrimSuffix(w, ".")] {
			return true
		}
	}
	return false
}
