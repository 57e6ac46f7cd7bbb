package locate

import (
	"strings"
	"testing"

	"github.com/ovoronin/lexcite/internal/model"
)

func TestLocator_SingleCitation(t *testing.T) {
	locator := NewLocator()

	text := "Smith v. Jones, 100 F.3d 1, 5 (9th Cir. 1996), controls here."
	citations := locator.Locate(text)

	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}

	c := citations[0]
	if c.Text != "100 F.3d 1" {
		t.Errorf("Expected citation text '100 F.3d 1', got '%s'", c.Text)
	}
	if c.ReporterFamily != model.FamilyFederal {
		t.Errorf("Expected federal family, got '%s'", c.ReporterFamily)
	}
	if c.Reporter != "F.3d" {
		t.Errorf("Expected reporter 'F.3d', got '%s'", c.Reporter)
	}
	if c.Jurisdiction != "U.S." {
		t.Errorf("Expected jurisdiction 'U.S.', got '%s'", c.Jurisdiction)
	}

	want := strings.Index(text, "100 F.3d 1")
	if c.StartOffset != want {
		t.Errorf("Expected start offset %d, got %d", want, c.StartOffset)
	}
	if text[c.StartOffset:c.EndOffset] != c.Text {
		t.Errorf("Offsets do not slice back to citation text: '%s'", text[c.StartOffset:c.EndOffset])
	}
}

func TestLocator_InitialSentinels(t *testing.T) {
	locator := NewLocator()

	citations := locator.Locate("See 384 U.S. 436.")
	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}

	c := citations[0]
	if c.ExtractedCaseName != model.Unknown {
		t.Errorf("Expected unknown case name before association, got '%s'", c.ExtractedCaseName)
	}
	if c.ExtractedYear != model.Unknown {
		t.Errorf("Expected unknown year before association, got '%s'", c.ExtractedYear)
	}
	if c.ClusterID != -1 {
		t.Errorf("Expected cluster ID -1 before clustering, got %d", c.ClusterID)
	}
	if c.VerificationStatus != model.StatusUnverified {
		t.Errorf("Expected unverified status, got '%s'", c.VerificationStatus)
	}
}

func TestLocator_ParallelCitations(t *testing.T) {
	locator := NewLocator()

	text := "Miranda v. Arizona, 384 U.S. 436, 86 S. Ct. 1602 (1966)."
	citations := locator.Locate(text)

	if len(citations) != 2 {
		t.Fatalf("Expected 2 citations, got %d", len(citations))
	}
	if citations[0].Text != "384 U.S. 436" {
		t.Errorf("Expected first citation '384 U.S. 436', got '%s'", citations[0].Text)
	}
	if citations[1].Text != "86 S. Ct. 1602" {
		t.Errorf("Expected second citation '86 S. Ct. 1602', got '%s'", citations[1].Text)
	}
	for _, c := range citations {
		if c.ReporterFamily != model.FamilyFederal {
			t.Errorf("Expected federal family for '%s', got '%s'", c.Text, c.ReporterFamily)
		}
	}
}

func TestLocator_WhitespaceTolerance(t *testing.T) {
	locator := NewLocator()

	text := "As held in Miranda, 384 U.S.\n   436, the warnings are required."
	citations := locator.Locate(text)

	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation across a line break, got %d", len(citations))
	}

	c := citations[0]
	if !strings.Contains(c.Text, "\n") {
		t.Errorf("Expected citation text to preserve original bytes, got '%s'", c.Text)
	}
	if text[c.StartOffset:c.EndOffset] != c.Text {
		t.Errorf("Offsets must address the original text, got '%s'", text[c.StartOffset:c.EndOffset])
	}
}

func TestLocator_LineBreakInsideReporterAbbreviation(t *testing.T) {
	locator := NewLocator()

	// PDF extraction often breaks the series ordinal onto its own line.
	tests := []struct {
		text   string
		family model.ReporterFamily
	}{
		{"Smith v. Jones, 100 F.\n3d 1 (2001).", model.FamilyFederal},
		{"People v. Doe, 50 Cal.\n5th 100 (2019).", model.FamilyState},
		{"Roe v. Doe, 12 N.Y.\n3d 45 (2009).", model.FamilyState},
		{"State v. Lee, 200 A.\n3d 15 (2018).", model.FamilyRegional},
		{"The court agreed. 384 U.\nS. 436 settled the point.", model.FamilyFederal},
	}
	for _, tt := range tests {
		citations := locator.Locate(tt.text)
		if len(citations) != 1 {
			t.Errorf("Locate(%q): expected 1 citation, got %d", tt.text, len(citations))
			continue
		}
		c := citations[0]
		if c.ReporterFamily != tt.family {
			t.Errorf("Locate(%q): expected family '%s', got '%s'", tt.text, tt.family, c.ReporterFamily)
		}
		if tt.text[c.StartOffset:c.EndOffset] != c.Text {
			t.Errorf("Locate(%q): offsets do not slice back to citation text", tt.text)
		}
	}
}

func TestLocator_RejectsStatutesAndRecordCites(t *testing.T) {
	locator := NewLocator()

	inputs := []string{
		"The claim arises under 42 U.S.C. 1983 and its case law.",
		"See 28 C.F.R. 35 for the implementing regulation.",
		"The testimony appears at 3 Tr. 45 of the record.",
		"Congress responded, 110 Stat. 56.",
	}
	for _, text := range inputs {
		if got := locator.Locate(text); len(got) != 0 {
			t.Errorf("Expected no citations in %q, got %d (%q)", text, len(got), got[0].Text)
		}
	}
}

func TestLocator_WestlawCitation(t *testing.T) {
	locator := NewLocator()

	text := "Doe v. Roe, 2015 WL 1234567, at *3 (S.D.N.Y. Mar. 2, 2015)."
	citations := locator.Locate(text)

	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}
	c := citations[0]
	if c.Text != "2015 WL 1234567" {
		t.Errorf("Expected '2015 WL 1234567', got '%s'", c.Text)
	}
	if c.ReporterFamily != model.FamilyUnpublished {
		t.Errorf("Expected unpublished family, got '%s'", c.ReporterFamily)
	}
}

func TestLocator_DocumentOrder(t *testing.T) {
	locator := NewLocator()

	text := "Compare 100 P.3d 200 (Wash. 2004) with the later holding in 150 Wn.2d 300."
	citations := locator.Locate(text)

	if len(citations) != 2 {
		t.Fatalf("Expected 2 citations, got %d", len(citations))
	}
	for i, c := range citations {
		if c.ID != i {
			t.Errorf("Expected sequential ID %d, got %d", i, c.ID)
		}
	}
	if citations[0].StartOffset >= citations[1].StartOffset {
		t.Error("Expected citations in document order")
	}
}

func TestLocator_EmptyAndCitationFreeInput(t *testing.T) {
	locator := NewLocator()

	if got := locator.Locate(""); got == nil || len(got) != 0 {
		t.Errorf("Expected empty slice for empty input, got %v", got)
	}
	if got := locator.Locate("No citations appear anywhere in this paragraph."); len(got) != 0 {
		t.Errorf("Expected no citations, got %d", len(got))
	}
}

func TestLocator_Classify(t *testing.T) {
	locator := NewLocator()

	tests := []struct {
		citation     string
		family       model.ReporterFamily
		jurisdiction string
	}{
		{"384 U.S. 436", model.FamilyFederal, "U.S."},
		{"100 F.3d 1", model.FamilyFederal, "U.S."},
		{"100 P.3d 200", model.FamilyRegional, ""},
		{"50 Cal.4th 100", model.FamilyState, "Cal."},
		{"12 N.Y.3d 45", model.FamilyState, "N.Y."},
		{"2015 WL 1234567", model.FamilyUnpublished, ""},
		{"42 U.S.C. 1983", model.FamilyUnknown, ""},
	}

	for _, tt := range tests {
		family, jurisdiction := locator.Classify(tt.citation)
		if family != tt.family {
			t.Errorf("Classify(%q): expected family '%s', got '%s'", tt.citation, tt.family, family)
		}
		if jurisdiction != tt.jurisdiction {
			t.Errorf("Classify(%q): expected jurisdiction '%s', got '%s'", tt.citation, tt.jurisdiction, jurisdiction)
		}
	}
}

func TestIsText(t *testing.T) {
	if !IsText([]byte("Smith v. Jones, 100 F.3d 1")) {
		t.Error("Expected plain text to be accepted")
	}
	if IsText([]byte{0x50, 0x4b, 0x00, 0x01}) {
		t.Error("Expected NUL bytes to be rejected")
	}
	if IsText([]byte{0xff, 0xfe, 0x41}) {
		t.Error("Expected invalid UTF-8 to be rejected")
	}
}
