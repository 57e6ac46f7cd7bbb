package model

import "time"

// Report is the complete result of one citation check run
type Report struct {
	DocumentName string    `json:"document_name,omitempty"` // Input file or identifier, when known
	CheckedAt    time.Time `json:"checked_at"`              // When the run completed

	Citations []*Citation `json:"citations"` // All located citations, document order
	Clusters  []*Cluster  `json:"clusters"`  // Parallel-citation clusters, document order

	// Notices record degraded verification availability (timeouts, rate
	// limits, robots denials). They are advisory metadata, never errors.
	Notices []string `json:"verification_notices,omitempty"`

	Stats Stats `json:"stats"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narrative summary (never affects results)
}

// Stats summarizes the run for quick inspection
type Stats struct {
	CitationCount int `json:"citation_count"`
	ClusterCount  int `json:"cluster_count"`
	Verified      int `json:"verified"`
	Unverified    int `json:"unverified"`
	Rejected      int `json:"rejected"`
}

// ComputeStats recomputes the summary counters from the report contents
func (r *Report) ComputeStats() {
	s := Stats{
		CitationCount: len(r.Citations),
		ClusterCount:  len(r.Clusters),
	}
	for _, c := range r.Citations {
		switch c.VerificationStatus {
		case StatusVerified:
			s.Verified++
		case StatusRejected:
			s.Rejected++
		default:
			s.Unverified++
		}
	}
	r.Stats = s
}

// LLMSummary contains an optional LLM-generated narrative summary.
// CRITICAL: This never affects citation status or confidence and is
// clearly separated from the verified data.
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"` // Whether URL allowlist enforcement was enabled
	SummaryMD      string   `json:"summary_md,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
