package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovoronin/lexcite/internal/model"
)

// Summarizer generates optional narrative summaries of citation check
// reports. It runs after the results are final and its output never
// affects citation status, confidence, or clustering. A nil or failed
// provider degrades to warnings, never to a run error.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer. An empty provider name yields a
// disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces a narrative summary of a completed report.
// Every failure path returns warnings instead of an error: the report is
// already complete and the summary must never fail the run.
func (s *Summarizer) GenerateSummary(ctx context.Context, report *model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:        false,
			Provider:       s.provider.Name(),
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("LLM provider %s is not available; summary skipped", s.provider.Name())},
		}, nil
	}

	evidenceURLs := collectEvidenceURLs(report)

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       report,
		EvidenceURLs: evidenceURLs,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		return &model.LLMSummary{
			Enabled:        true,
			Provider:       s.provider.Name(),
			Model:          s.config.Model,
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("summary generation failed: %v", err)},
		}, nil
	}

	warnings := []string{
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d of %d URL citations against the allowlist", len(resp.CitedURLs), len(evidenceURLs)),
	}

	return &model.LLMSummary{
		Enabled:        true,
		Provider:       s.provider.Name(),
		Model:          resp.Model,
		StrictEvidence: s.config.StrictEvidence,
		SummaryMD:      resp.Summary,
		Warnings:       warnings,
	}, nil
}

// collectEvidenceURLs builds the strict allowlist from canonical URLs of
// verified citations. Unverified and rejected citations contribute
// nothing the LLM may cite.
func collectEvidenceURLs(report *model.Report) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, c := range report.Citations {
		if c.VerificationStatus != model.StatusVerified || c.CanonicalURL == "" {
			continue
		}
		if !seen[c.CanonicalURL] {
			seen[c.CanonicalURL] = true
			urls = append(urls, c.CanonicalURL)
		}
	}
	return urls
}

// RenderSeparateMarkdown renders the summary as its own Markdown block,
// clearly labeled as generated and advisory
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled || summary.SummaryMD == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("## AI Summary (advisory)\n\n")
	fmt.Fprintf(&b, "_Generated by %s", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, " (%s)", summary.Model)
	}
	b.WriteString(". This narrative never affects verification results._\n\n")
	b.WriteString(summary.SummaryMD)
	b.WriteString("\n")
	return b.String()
}
