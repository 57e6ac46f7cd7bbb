package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ovoronin/lexcite/internal/associate"
	"github.com/ovoronin/lexcite/internal/cache"
	"github.com/ovoronin/lexcite/internal/cluster"
	"github.com/ovoronin/lexcite/internal/llm"
	"github.com/ovoronin/lexcite/internal/locate"
	"github.com/ovoronin/lexcite/internal/model"
	"github.com/ovoronin/lexcite/internal/verify"
	"github.com/ovoronin/lexcite/internal/worker"
)

// ProgressFunc receives per-stage progress (0-100). It is called at
// least once per stage, always between stages, so wrappers can check
// cancellation there.
type ProgressFunc func(stage string, percent int)

// Pipeline is the single implementation of the four processing stages:
// locate, associate, cluster, verify. Both the synchronous and the
// queued-worker entry points invoke it identically; only delivery
// differs. Keeping one implementation is deliberate: the stages must
// never diverge between modes.
type Pipeline struct {
	locator    *locate.Locator
	associator *associate.Associator
	clusterer  *cluster.Clusterer
	resolver   *verify.Resolver
	summarizer *llm.Summarizer
	renderer   *Renderer
	config     *model.Config
}

// New creates a pipeline from configuration, wiring the verification
// source chain, the lookup cache, and the optional summarizer.
func New(cfg *model.Config) *Pipeline {
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)

	var sources []verify.Source
	for _, name := range cfg.Verify.SourcePriorityOrder {
		switch name {
		case "courtlistener":
			sources = append(sources,
				verify.NewCourtListener(cfg.Verify.PrimaryBaseURL, cfg.Verify.PerSourceTimeout, cfg.HTTP, limiter))
		case "caselaw-direct":
			sources = append(sources,
				verify.NewDirectLookup("caselaw-direct", "https://case.law", 0.8, cfg.Verify.PerSourceTimeout, cfg.HTTP, limiter))
		}
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err == nil {
			summarizer = s
		}
	}

	return &Pipeline{
		locator:    locate.NewLocator(),
		associator: associate.NewAssociator(cfg.Pipeline),
		clusterer:  cluster.NewClusterer(cfg.Pipeline),
		resolver:   verify.NewResolver(cfg, cache.New(cfg.Cache), sources...),
		summarizer: summarizer,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}
}

// Run processes one document through all four stages in order and
// returns a complete report. A failure on one citation never aborts the
// rest: the report always contains every citation that survived its own
// stage, and degraded-source conditions surface as notices, never
// errors. The only input error is malformed (non-text) input.
func (p *Pipeline) Run(ctx context.Context, docName, text string, progress ProgressFunc) (*model.Report, error) {
	if progress == nil {
		progress = func(string, int) {}
	}
	if !locate.IsText([]byte(text)) {
		return nil, model.ErrMalformedInput
	}

	// 1. Locate citation spans. An empty result is a valid outcome, not
	// an error.
	if err := stageGate(ctx); err != nil {
		return nil, err
	}
	progress(model.StageLocate, 0)
	citations := p.locator.Locate(text)
	progress(model.StageLocate, 100)

	// 2. Associate case names and years.
	if err := stageGate(ctx); err != nil {
		return nil, err
	}
	progress(model.StageAssociate, 0)
	p.associator.Associate(text, citations)
	progress(model.StageAssociate, 100)

	// 3. Cluster parallel citations.
	if err := stageGate(ctx); err != nil {
		return nil, err
	}
	progress(model.StageCluster, 0)
	clusters := p.clusterer.Cluster(citations)
	progress(model.StageCluster, 100)

	// 4. Verify against external sources, then run the post-hoc split
	// check. Verification never merges clusters.
	var notices []string
	if err := stageGate(ctx); err != nil {
		return nil, err
	}
	progress(model.StageVerify, 0)
	if p.config.Verify.Enabled && len(p.resolverSources()) > 0 {
		notices = p.resolver.ResolveAll(ctx, citations)
		clusters = cluster.SplitByCanonicalIdentity(clusters, citations)
	}
	progress(model.StageVerify, 100)

	report := &model.Report{
		DocumentName: docName,
		CheckedAt:    time.Now().UTC(),
		Citations:    citations,
		Clusters:     clusters,
		Notices:      notices,
	}
	report.ComputeStats()

	// Optional narrative summary, generated AFTER the results are final
	// so it can never affect them.
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, report)
		if err == nil && summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// RenderReport writes a report to the requested output paths
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote Markdown: %s\n", mdPath)
		}
	}

	// The LLM summary gets its own file so it never mixes with verified data
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if md := llm.RenderSeparateMarkdown(report.LLM); md != "" {
			if err := os.WriteFile(llmMdPath, []byte(md), 0644); err != nil {
				fmt.Printf("Warning: failed to write LLM summary: %v\n", err)
			} else if verbose {
				fmt.Printf("Wrote LLM summary: %s\n", llmMdPath)
			}
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}

func (p *Pipeline) resolverSources() []verify.Source {
	if p.resolver == nil {
		return nil
	}
	return p.resolver.Sources()
}

// stageGate enforces cancellation and deadline checks between stages
func stageGate(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%w: %v", model.ErrJobCancelled, ctx.Err())
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", model.ErrJobTimeout, ctx.Err())
	}
	return nil
}
