package model

// Unknown is the sentinel value for an extracted field the associator
// could not determine. It is never a valid case name or year.
const Unknown = "unknown"

// Citation represents one located reference to a reported legal decision
type Citation struct {
	ID          int    `json:"id"`                  // Document-order index assigned by the locator
	Text        string `json:"citation_text"`       // The citation as it appears in the text
	StartOffset int    `json:"start_offset"`        // Byte offset of the first character
	EndOffset   int    `json:"end_offset"`          // Byte offset one past the last character

	ReporterFamily ReporterFamily `json:"reporter_family"`         // Publishing series classification
	Reporter       string         `json:"reporter,omitempty"`      // Reporter abbreviation (e.g. "F.3d")
	Jurisdiction   string         `json:"jurisdiction,omitempty"`  // Jurisdiction hint inferred from the reporter

	ExtractedCaseName  string `json:"extracted_case_name"`     // Case name found near the span, or Unknown
	ExtractedYear      string `json:"extracted_year"`          // Year found near the span, or Unknown
	NameMayBeTruncated bool   `json:"name_may_be_truncated"`   // Name looks cut off at a window boundary
	StrategyUsed       string `json:"strategy_used,omitempty"` // Which association strategy produced the name
	Ambiguous          bool   `json:"ambiguous,omitempty"`     // Low-confidence extraction, flagged not failed

	ClusterID int `json:"cluster_id"` // Cluster this citation belongs to (at most one)

	VerificationStatus VerificationStatus `json:"verification_status"`
	CanonicalName      string             `json:"canonical_name,omitempty"` // Authoritative case name, when verified
	CanonicalDate      string             `json:"canonical_date,omitempty"` // Authoritative decision date, when verified
	CanonicalURL       string             `json:"canonical_url,omitempty"`  // Authoritative record URL, when verified
	Source             string             `json:"source,omitempty"`         // Which verification source confirmed it
	Confidence         float64            `json:"confidence"`               // Combined extraction/verification confidence
}

// ReporterFamily classifies a citation's publishing series
type ReporterFamily string

const (
	FamilyFederal     ReporterFamily = "federal"     // F., F.2d, F. Supp., U.S., S. Ct.
	FamilyState       ReporterFamily = "state"       // State-specific series (Cal. App., N.Y.S.2d)
	FamilyRegional    ReporterFamily = "regional"    // Regional series spanning several states (P.3d, N.E.2d)
	FamilyUnpublished ReporterFamily = "unpublished" // WL and LEXIS slip opinions
	FamilyUnknown     ReporterFamily = "unknown"     // Generic fallback match
)

// VerificationStatus is the outcome of resolving a citation against external sources
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"   // A candidate passed every validation gate
	StatusUnverified VerificationStatus = "unverified" // No source had any record of the citation
	StatusRejected   VerificationStatus = "rejected"   // Sources offered matches, all failed validation
)

// HasExtractedName reports whether the associator produced a usable case name
func (c *Citation) HasExtractedName() bool {
	return c.ExtractedCaseName != "" && c.ExtractedCaseName != Unknown
}

// HasExtractedYear reports whether the associator produced a usable year
func (c *Citation) HasExtractedYear() bool {
	return c.ExtractedYear != "" && c.ExtractedYear != Unknown
}
