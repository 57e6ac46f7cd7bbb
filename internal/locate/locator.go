package locate

import (
	"sort"
	"unicode/utf8"

	"github.com/ovoronin/lexcite/internal/model"
)

// Locator finds citation spans in raw text. It maintains an ordered list
// of pattern matchers (one per reporter format family plus a generic
// fallback); the first matcher to claim a text position wins. It never
// fails on no-match: an empty input or citation-free text yields an
// empty slice.
type Locator struct {
	matchers []matcher
}

// NewLocator creates a locator with the built-in matcher registry
func NewLocator() *Locator {
	return &Locator{matchers: defaultMatchers()}
}

// Locate returns all citation spans in document order. Whitespace and
// line-break artifacts inside a citation are tolerated: matching runs on
// normalized text and offsets are mapped back to the original.
func (l *Locator) Locate(text string) []*model.Citation {
	if text == "" {
		return []*model.Citation{}
	}

	norm, backmap := normalizeWhitespace(text)

	var citations []*model.Citation
	claimed := make([]span, 0)

	for _, m := range l.matchers {
		for _, loc := range m.re.FindAllStringSubmatchIndex(norm, -1) {
			s := span{start: loc[0], end: loc[1]}
			if overlapsAny(s, claimed) {
				continue
			}
			reporter := norm[loc[4]:loc[5]]
			if m.family == model.FamilyUnknown && rejectReporter(reporter) {
				continue
			}

			origStart := backmap[s.start]
			origEnd := backmap[s.end-1] + 1
			claimed = append(claimed, s)

			citations = append(citations, &model.Citation{
				Text:               text[origStart:origEnd],
				StartOffset:        origStart,
				EndOffset:          origEnd,
				ReporterFamily:     m.family,
				Reporter:           reporter,
				Jurisdiction:       m.jurisdiction,
				ExtractedCaseName:  model.Unknown,
				ExtractedYear:      model.Unknown,
				ClusterID:          -1,
				VerificationStatus: model.StatusUnverified,
			})
		}
	}

	// Matchers ran in priority order; callers get document order.
	sort.Slice(citations, func(i, j int) bool {
		return citations[i].StartOffset < citations[j].StartOffset
	})
	for i, c := range citations {
		c.ID = i
	}

	return citations
}

// Classify runs the matcher registry against a single citation string
// and returns its reporter family and jurisdiction hint. Used by the
// verification gates to classify a candidate's parallel citations.
func (l *Locator) Classify(citation string) (model.ReporterFamily, string) {
	norm, _ := normalizeWhitespace(citation)
	for _, m := range l.matchers {
		if loc := m.re.FindStringSubmatchIndex(norm); loc != nil {
			if m.family == model.FamilyUnknown && rejectReporter(norm[loc[4]:loc[5]]) {
				continue
			}
			return m.family, m.jurisdiction
		}
	}
	return model.FamilyUnknown, ""
}

// IsText reports whether the input looks like processable text. Binary
// data (NUL bytes) and invalid UTF-8 are rejected as malformed input.
func IsText(input []byte) bool {
	if !utf8.Valid(input) {
		return false
	}
	for _, b := range input {
		if b == 0 {
			return false
		}
	}
	return true
}

type span struct {
	start, end int
}

func overlapsAny(s span, claimed []span) bool {
	for _, c := range claimed {
		if s.start < c.end && c.start < s.end {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses every whitespace run into a single space
// and returns the normalized text plus a map from each normalized byte
// index to its originating byte index in the input.
func normalizeWhitespace(text string) (string, []int) {
	buf := make([]byte, 0, len(text))
	backmap := make([]int, 0, len(text))

	inSpace := false
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v' {
			if !inSpace && len(buf) > 0 {
				buf = append(buf, ' ')
				backmap = append(backmap, i)
				inSpace = true
			}
			continue
		}
		inSpace = false
		buf = append(buf, b)
		backmap = append(backmap, i)
	}

	return string(buf), backmap
}
