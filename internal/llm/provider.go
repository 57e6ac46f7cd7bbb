package llm

import (
	"context"
	"fmt"

	"github.com/ovoronin/lexcite/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative summary of the report with strict
	// evidence mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the completed citation-check report to summarize
	Report *model.Report

	// EvidenceURLs is the STRICT allowlist of URLs the LLM can cite.
	// Only canonical URLs from verified citations belong here; the LLM
	// cannot reference any URL not in this list.
	EvidenceURLs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedURLs are the URLs the LLM actually cited (for verification)
	CitedURLs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence enforces the URL allowlist (should always be true)
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        30,
		StrictEvidence: true, // CRITICAL: Always enforce
		MaxTokens:      1000,
	}
}

// BuildPrompt constructs the default summarization prompt with strict
// evidence mode. The summary describes verification outcomes; it never
// re-litigates them.
func BuildPrompt(report *model.Report, evidenceURLs []string) string {
	prompt := fmt.Sprintf(`You are summarizing a legal citation check report. The checker verifies whether citations resolve to real decisions - it NEVER assesses the legal argument.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT infer, speculate, or cite external sources beyond this list.
3. DO NOT change, dispute, or re-grade any verification status.
4. If a citation is unverified, say the sources had no record; if rejected, say the record did not match. Never call either one "fake" or "correct".
5. Focus on what the checker found, not on the law.

Report Summary:
- Document: %s
- Citations Located: %d
- Parallel-Citation Clusters: %d
- Verified: %d, Unverified: %d, Rejected: %d
`, joinURLs(evidenceURLs), report.DocumentName,
		report.Stats.CitationCount, report.Stats.ClusterCount,
		report.Stats.Verified, report.Stats.Unverified, report.Stats.Rejected)

	// Name the clusters that need attention first
	flagged := 0
	for _, cluster := range report.Clusters {
		if cluster.AggregateVerificationStatus == model.StatusVerified {
			continue
		}
		if flagged == 0 {
			prompt += "\nClusters Needing Attention:\n"
		}
		prompt += fmt.Sprintf("- %s (%s): %s\n",
			cluster.RepresentativeName, cluster.RepresentativeYear,
			cluster.AggregateVerificationStatus)
		flagged++
		if flagged >= 10 {
			break
		}
	}

	if len(report.Notices) > 0 {
		prompt += fmt.Sprintf("\nSource availability was degraded during this run (%d notices); unverified statuses may reflect that.\n", len(report.Notices))
	}

	prompt += "\nProvide a 3-4 sentence summary of the check results for the document's author."

	return prompt
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No verified citation URLs available)"
	}
	result := ""
	for i, url := range urls {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more URLs", len(urls)-20)
			break
		}
		result += fmt.Sprintf("\n- %s", url)
	}
	return result
}
