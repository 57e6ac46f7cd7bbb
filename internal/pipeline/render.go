package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ovoronin/lexcite/internal/model"
)

// Renderer writes reports as JSON, Markdown, and a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Citation Check: %s\n\n", report.DocumentName)
	fmt.Fprintf(&b, "Checked: %s\n\n", report.CheckedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "| Citations | Clusters | Verified | Unverified | Rejected |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n\n",
		report.Stats.CitationCount, report.Stats.ClusterCount,
		report.Stats.Verified, report.Stats.Unverified, report.Stats.Rejected)

	byID := make(map[int]*model.Citation, len(report.Citations))
	for _, c := range report.Citations {
		byID[c.ID] = c
	}

	for _, cluster := range report.Clusters {
		fmt.Fprintf(&b, "## Cluster %d: %s (%s) — %s\n\n",
			cluster.ID, cluster.RepresentativeName, cluster.RepresentativeYear,
			cluster.AggregateVerificationStatus)
		for _, id := range cluster.MemberIDs {
			c := byID[id]
			fmt.Fprintf(&b, "- `%s` [%s]", c.Text, c.VerificationStatus)
			if c.CanonicalName != "" {
				fmt.Fprintf(&b, " → %s (%s)", c.CanonicalName, c.CanonicalDate)
			}
			if c.CanonicalURL != "" {
				fmt.Fprintf(&b, " <%s>", c.CanonicalURL)
			}
			if c.NameMayBeTruncated {
				b.WriteString(" (name may be truncated)")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(report.Notices) > 0 {
		b.WriteString("## Notices\n\n")
		for _, notice := range report.Notices {
			fmt.Fprintf(&b, "- %s\n", notice)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("## Summary (LLM-generated, advisory only)\n\n")
		b.WriteString(report.LLM.SummaryMD)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n_Generated by lexcite. Verification statuses reflect external source availability at check time._\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short stdout summary
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\nCitations: %d  Clusters: %d\n",
		report.Stats.CitationCount, report.Stats.ClusterCount)
	fmt.Printf("Verified: %d  Unverified: %d  Rejected: %d\n",
		report.Stats.Verified, report.Stats.Unverified, report.Stats.Rejected)
	if len(report.Notices) > 0 {
		fmt.Printf("Notices: %d (degraded source availability; see report)\n", len(report.Notices))
	}
}
