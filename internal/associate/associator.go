package associate

import (
	"strings"

	"github.com/ovoronin/lexcite/internal/model"
)

// Associator attaches a case name and decision year to each located
// citation span. Strategies are evaluated in a fixed order with
// deterministic early exit; the first confident result wins. A partial
// or truncated name found by any strategy is never discarded to the
// unknown sentinel when no better candidate exists.
type Associator struct {
	contextWindow  int
	wideMultiplier int
	yearBound      int
}

// Strategy names recorded on each citation for audit
const (
	StrategyVolumeAnchor   = "volume_anchor"
	StrategySignalStripped = "signal_stripped"
	StrategyWideWindow     = "wide_window"
	StrategyFallback       = "fallback_partial"
)

// NewAssociator creates an associator with the given context window size
func NewAssociator(cfg model.PipelineConfig) *Associator {
	window := cfg.ContextWindowSize
	if window <= 0 {
		window = 300
	}
	mult := cfg.WideWindowMultiplier
	if mult <= 1 {
		mult = 2
	}
	bound := cfg.YearSearchBound
	if bound <= 0 {
		bound = 120
	}
	return &Associator{contextWindow: window, wideMultiplier: mult, yearBound: bound}
}

// Associate fills in ExtractedCaseName, ExtractedYear, StrategyUsed, and
// Confidence for every citation, mutating them in place.
func (a *Associator) Associate(text string, citations []*model.Citation) {
	for _, c := range citations {
		a.associateOne(text, c)
	}
}

func (a *Associator) associateOne(text string, c *model.Citation) {
	window := a.window(text, c, a.contextWindow)
	atDocStart := c.StartOffset <= a.contextWindow

	best := candidate{}
	bestStrategy := ""

	record := func(cand candidate, strategy string) {
		if cand.confidence > best.confidence {
			best = cand
			bestStrategy = strategy
		}
	}

	// 1. Volume-anchored backward scan.
	if cand, ok := scanBackward(window, atDocStart); ok {
		record(cand, StrategyVolumeAnchor)
	}

	// 2. Signal-word-stripped retry.
	if best.confidence < 0.9 {
		if stripped, changed := stripSignals(window); changed {
			if cand, ok := scanBackward(stripped, atDocStart); ok {
				cand.confidence = 0.8
				record(cand, StrategySignalStripped)
			}
		}
	}

	// 3. Wide-window scan across an expanded boundary. The wider retry
	// replaces a truncated result only when it actually recovered
	// something longer; the original partial value is kept otherwise.
	if best.confidence == 0 || best.truncated {
		wide := a.window(text, c, a.contextWindow*a.wideMultiplier)
		wideAtDocStart := c.StartOffset <= a.contextWindow*a.wideMultiplier
		if cand, ok := scanBackward(wide, wideAtDocStart); ok {
			cand.confidence = 0.7
			if best.truncated && len(cand.name) > len(best.name) {
				best = cand
				bestStrategy = StrategyWideWindow
			} else if best.confidence == 0 {
				record(cand, StrategyWideWindow)
			}
		}
	}

	// 4. Fallback: keep the best candidate found so far, even truncated,
	// rather than emitting the unknown sentinel.
	if best.confidence == 0 {
		if cand, ok := bestPartial(window); ok {
			record(cand, StrategyFallback)
		}
	}

	if best.name != "" {
		c.ExtractedCaseName = best.name
		c.NameMayBeTruncated = best.truncated
		c.StrategyUsed = bestStrategy
		c.Confidence = best.confidence
		if best.confidence < 0.5 {
			c.Ambiguous = true
		}
	} else {
		c.ExtractedCaseName = model.Unknown
		c.Ambiguous = true
	}

	a.associateYear(text, c)
}

// associateYear applies the year source priority: a parenthetical
// immediately trailing the citation wins; else the nearest forward year
// within the search bound.
func (a *Associator) associateYear(text string, c *model.Citation) {
	end := c.EndOffset
	bound := end + a.yearBound
	if bound > len(text) {
		bound = len(text)
	}
	forward := text[end:bound]

	if m := parentheticalRe.FindStringSubmatch(forward); m != nil {
		c.ExtractedYear = m[2]
		return
	}
	if m := yearRe.FindString(forward); m != "" {
		c.ExtractedYear = m
		return
	}
	c.ExtractedYear = model.Unknown
	if c.HasExtractedName() {
		c.Ambiguous = true
	}
}

// bestPartial scavenges the window for any caption-shaped fragment,
// accepting low-confidence partial names over nothing.
func bestPartial(window string) (candidate, bool) {
	idx := strings.LastIndex(window, " v. ")
	if idx < 0 {
		idx = strings.LastIndex(window, " v ")
	}
	if idx < 0 {
		return candidate{}, false
	}
	// Take the capitalized run on each side of the "v.".
	left := lastCapitalizedRun(window[:idx])
	rest := window[idx:]
	m := caseNameRe.FindStringSubmatch(strings.TrimSpace(left+rest) + ",")
	if m == nil {
		return candidate{}, false
	}
	name := cleanName(m[1])
	if name == "" {
		return candidate{}, false
	}
	return candidate{name: name, confidence: 0.3, truncated: true}, true
}

func lastCapitalizedRun(s string) string {
	words := strings.Fields(s)
	start := len(words)
	for i := len(words) - 1; i >= 0; i-- {
		w := words[i]
		if w[0] >= 'A' && w[0] <= 'Z' {
			start = i
			continue
		}
		break
	}
	if start == len(words) {
		return ""
	}
	return strings.Join(words[start:], " ")
}

// window returns the backward context for a citation, clipped to the text
func (a *Associator) window(text string, c *model.Citation, size int) string {
	start := c.StartOffset - size
	if start < 0 {
		start = 0
	}
	return text[start:c.StartOffset]
}
