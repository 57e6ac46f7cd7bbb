package verify

import (
	"fmt"
	"strconv"

	"github.com/ovoronin/lexcite/internal/locate"
	"github.com/ovoronin/lexcite/internal/model"
)

// gates applies the mandatory validation gates to every candidate before
// acceptance. Gate order: jurisdiction, name similarity, year
// consistency. All classification of parallel citations reuses the
// locator's matcher registry.
type gates struct {
	classifier    *locate.Locator
	nameThreshold float64
	yearTolerance int
}

func newGates(cfg model.VerifyConfig) *gates {
	threshold := cfg.NameSimilarityThreshold
	if threshold <= 0 {
		threshold = 0.6
	}
	tolerance := cfg.YearTolerance
	if tolerance <= 0 {
		tolerance = 2
	}
	return &gates{
		classifier:    locate.NewLocator(),
		nameThreshold: threshold,
		yearTolerance: tolerance,
	}
}

// check returns whether the candidate passes all gates, plus any
// advisory notices. A rejected candidate never becomes verified.
func (g *gates) check(c *model.Citation, cand Candidate) (bool, []string) {
	var notices []string

	pass, notice := g.jurisdictionGate(c, cand)
	if notice != "" {
		notices = append(notices, notice)
	}
	if !pass {
		return false, notices
	}

	if !g.nameGate(c, cand) {
		return false, notices
	}
	if !g.yearGate(c, cand) {
		return false, notices
	}
	return true, notices
}

// jurisdictionGate infers the expected jurisdiction from the citation's
// reporter family. Jurisdiction-specific reporters hard-reject a
// candidate whose own parallel citations contain no
// consistent-jurisdiction entry; broadly-scoped regional reporters only
// soft-warn.
func (g *gates) jurisdictionGate(c *model.Citation, cand Candidate) (bool, string) {
	expected := c.Jurisdiction
	if expected == "" {
		if c.ReporterFamily == model.FamilyRegional {
			// A regional series spans several states; identity cannot be
			// pinned to one jurisdiction, so only warn.
			if cand.Jurisdiction != "" {
				return true, fmt.Sprintf("regional reporter %s: jurisdiction %s accepted unchecked", c.Reporter, cand.Jurisdiction)
			}
			return true, ""
		}
		return true, ""
	}

	if cand.Jurisdiction == expected {
		return true, ""
	}
	if cand.Jurisdiction == "" && len(cand.ParallelCitations) == 0 {
		// Nothing to check against; the name and year gates still apply.
		return true, fmt.Sprintf("candidate %q carries no jurisdiction data", cand.CaseName)
	}
	for _, parallel := range cand.ParallelCitations {
		if _, jurisdiction := g.classifier.Classify(parallel); jurisdiction == expected {
			return true, ""
		}
	}
	return false, ""
}

// nameGate requires normalized similarity above the threshold when the
// extracted name is known
func (g *gates) nameGate(c *model.Citation, cand Candidate) bool {
	if !c.HasExtractedName() {
		return true
	}
	return Similarity(c.ExtractedCaseName, cand.CaseName) >= g.nameThreshold
}

// yearGate bounds the gap between extracted and candidate year when
// both are known
func (g *gates) yearGate(c *model.Citation, cand Candidate) bool {
	if !c.HasExtractedYear() {
		return true
	}
	candYear := cand.Year()
	if candYear == "" {
		return true
	}

	extracted, err1 := strconv.Atoi(c.ExtractedYear)
	offered, err2 := strconv.Atoi(candYear)
	if err1 != nil || err2 != nil {
		return true
	}

	gap := extracted - offered
	if gap < 0 {
		gap = -gap
	}
	return gap <= g.yearTolerance
}
