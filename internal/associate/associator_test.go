package associate

import (
	"testing"

	"github.com/ovoronin/lexcite/internal/locate"
	"github.com/ovoronin/lexcite/internal/model"
)

func associateText(t *testing.T, cfg model.PipelineConfig, text string) []*model.Citation {
	t.Helper()
	citations := locate.NewLocator().Locate(text)
	if len(citations) == 0 {
		t.Fatal("Expected at least one citation in the fixture text")
	}
	NewAssociator(cfg).Associate(text, citations)
	return citations
}

func TestAssociator_AdjacentCaption(t *testing.T) {
	text := "Smith v. Jones, 100 F.3d 1, 5 (9th Cir. 1996), controls here."
	citations := associateText(t, model.PipelineConfig{}, text)

	c := citations[0]
	if c.ExtractedCaseName != "Smith v. Jones" {
		t.Errorf("Expected 'Smith v. Jones', got '%s'", c.ExtractedCaseName)
	}
	if c.ExtractedYear != "1996" {
		t.Errorf("Expected year '1996', got '%s'", c.ExtractedYear)
	}
	if c.StrategyUsed != StrategyVolumeAnchor {
		t.Errorf("Expected strategy '%s', got '%s'", StrategyVolumeAnchor, c.StrategyUsed)
	}
	if c.NameMayBeTruncated {
		t.Error("Expected name not flagged truncated")
	}
	if c.Ambiguous {
		t.Error("Expected unambiguous extraction")
	}
}

func TestAssociator_InReCaption(t *testing.T) {
	text := "In re Aimster Copyright Litigation, 334 F.3d 643, 645 (7th Cir. 2003)."
	citations := associateText(t, model.PipelineConfig{}, text)

	c := citations[0]
	if c.ExtractedCaseName != "In re Aimster Copyright Litigation" {
		t.Errorf("Expected 'In re Aimster Copyright Litigation', got '%s'", c.ExtractedCaseName)
	}
	if c.ExtractedYear != "2003" {
		t.Errorf("Expected year '2003', got '%s'", c.ExtractedYear)
	}
}

func TestAssociator_SignalStripped(t *testing.T) {
	text := "The plaintiff relies on older cases. See Smith v. Jones, 100 F.3d 1 (1996)."
	citations := associateText(t, model.PipelineConfig{}, text)

	c := citations[0]
	if c.ExtractedCaseName != "Smith v. Jones" {
		t.Errorf("Expected signal word stripped from 'Smith v. Jones', got '%s'", c.ExtractedCaseName)
	}
	if c.StrategyUsed != StrategySignalStripped {
		t.Errorf("Expected strategy '%s', got '%s'", StrategySignalStripped, c.StrategyUsed)
	}
	if c.ExtractedYear != "1996" {
		t.Errorf("Expected year '1996', got '%s'", c.ExtractedYear)
	}
}

func TestAssociator_TruncatedNameKeptNeverDiscarded(t *testing.T) {
	// The caption is preceded only by lowercase prose, so every strategy
	// sees at best the corporate-suffix fragment. The partial name must
	// survive with the truncation flag, not degrade to unknown.
	text := "the assets were transferred to holdco Co. v. Smith, 100 F.3d 1 (1996)."
	citations := associateText(t, model.PipelineConfig{}, text)

	c := citations[0]
	if c.ExtractedCaseName == model.Unknown {
		t.Fatal("Partial name must never be discarded to the unknown sentinel")
	}
	if c.ExtractedCaseName != "Co. v. Smith" {
		t.Errorf("Expected partial 'Co. v. Smith', got '%s'", c.ExtractedCaseName)
	}
	if !c.NameMayBeTruncated {
		t.Error("Expected truncation flag on a corporate-suffix fragment")
	}
}

func TestAssociator_WideWindowRecoversTruncatedName(t *testing.T) {
	// A context window cutting the caption at "Co." triggers the widened
	// retry, which recovers the full name across the boundary.
	text := "We rely on Consolidated Co. v. Smith, 100 F.3d 1 (1996)."
	cfg := model.PipelineConfig{ContextWindowSize: 14, WideWindowMultiplier: 2}
	citations := associateText(t, cfg, text)

	c := citations[0]
	if c.ExtractedCaseName != "Consolidated Co. v. Smith" {
		t.Errorf("Expected wide window to recover 'Consolidated Co. v. Smith', got '%s'", c.ExtractedCaseName)
	}
	if c.StrategyUsed != StrategyWideWindow {
		t.Errorf("Expected strategy '%s', got '%s'", StrategyWideWindow, c.StrategyUsed)
	}
	if c.NameMayBeTruncated {
		t.Error("Expected truncation flag cleared after recovery")
	}
}

func TestAssociator_YearFromTrailingParenthetical(t *testing.T) {
	text := "Smith v. Jones, 100 F.3d 1 (9th Cir. 1996), cert. denied, 520 U.S. 1040 (1997)."
	citations := associateText(t, model.PipelineConfig{}, text)

	if len(citations) != 2 {
		t.Fatalf("Expected 2 citations, got %d", len(citations))
	}
	if citations[0].ExtractedYear != "1996" {
		t.Errorf("Expected year '1996' for first citation, got '%s'", citations[0].ExtractedYear)
	}
	if citations[1].ExtractedYear != "1997" {
		t.Errorf("Expected year '1997' for second citation, got '%s'", citations[1].ExtractedYear)
	}
}

func TestAssociator_MissingYearMarksAmbiguous(t *testing.T) {
	text := "Smith v. Jones, 100 F.3d 1, is discussed further below without more."
	citations := associateText(t, model.PipelineConfig{}, text)

	c := citations[0]
	if c.ExtractedYear != model.Unknown {
		t.Errorf("Expected unknown year, got '%s'", c.ExtractedYear)
	}
	if !c.Ambiguous {
		t.Error("Expected citation flagged ambiguous when the year is missing")
	}
}

func TestAssociator_NoCaptionYieldsUnknown(t *testing.T) {
	text := "the relevant authority appears at 100 F.3d 1 (1996) in the record."
	citations := associateText(t, model.PipelineConfig{}, text)

	c := citations[0]
	if c.ExtractedCaseName != model.Unknown {
		t.Errorf("Expected unknown name, got '%s'", c.ExtractedCaseName)
	}
	if !c.Ambiguous {
		t.Error("Expected citation flagged ambiguous without a case name")
	}
	if c.ExtractedYear != "1996" {
		t.Errorf("Year extraction is independent of the name, got '%s'", c.ExtractedYear)
	}
}

func TestScanBackward_RejectsSignalPrefixedCaption(t *testing.T) {
	if _, ok := scanBackward("See Smith v. Jones, ", true); ok {
		t.Error("Expected signal-prefixed caption rejected by the anchored scan")
	}
	cand, ok := scanBackward("Smith v. Jones, ", true)
	if !ok {
		t.Fatal("Expected clean caption accepted")
	}
	if cand.name != "Smith v. Jones" {
		t.Errorf("Expected 'Smith v. Jones', got '%s'", cand.name)
	}
}

func TestStripSignals(t *testing.T) {
	stripped, changed := stripSignals("but see Smith v. Jones, ")
	if !changed {
		t.Fatal("Expected signal words to be stripped")
	}
	if len(stripped) != len("but see Smith v. Jones, ") {
		t.Error("Stripping must preserve window length")
	}
	cand, ok := scanBackward(stripped, true)
	if !ok || cand.name != "Smith v. Jones" {
		t.Errorf("Expected 'Smith v. Jones' after stripping, got '%s' (ok=%v)", cand.name, ok)
	}

	if _, changed := stripSignals("Smith v. Jones, "); changed {
		t.Error("Expected no change without signal words")
	}
}
