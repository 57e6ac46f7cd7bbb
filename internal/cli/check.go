package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ovoronin/lexcite/internal/model"
	"github.com/ovoronin/lexcite/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	checkTimeout   time.Duration
	userAgent      string
	httpProxy      string
	httpsProxy     string
	noCache        bool
	noFooter       bool
	noVerify       bool
	forceSync      bool
	forceAsync     bool
	proximity      int
	nameSimilarity float64
	yearTolerance  int
	llmEnabled     bool
	llmProvider    string
	llmModel       string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check citations in a single document",
	Long: `Check processes one document through all four stages:
- Locate case citation spans (volume/reporter/page patterns)
- Associate each citation with its case name and year
- Group parallel citations referring to the same decision
- Verify each citation against external case-law sources

Example:
  lexcite check brief.txt
  lexcite check brief.txt --json report.json --md report.md
  lexcite check brief.txt --no-verify
  lexcite check brief.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&forceSync, "sync", false, "force synchronous processing regardless of document size")
	checkCmd.Flags().BoolVar(&forceAsync, "async", false, "force queued processing regardless of document size")

	// Everything buildConfig reads is persistent: check and batch share
	// the pipeline, HTTP, and LLM configuration surface.
	pf := rootCmd.PersistentFlags()

	pf.IntVar(&proximity, "proximity", 200, "max character gap for a parallel-citation merge")
	pf.Float64Var(&nameSimilarity, "name-similarity", 0.6, "minimum case-name similarity for verification")
	pf.IntVar(&yearTolerance, "year-tolerance", 2, "allowed difference between extracted and canonical year")

	pf.StringVar(&userAgent, "ua", "Lexcite/0.1 (+https://github.com/ovoronin/lexcite)", "HTTP User-Agent")
	pf.StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	pf.StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	pf.BoolVar(&noCache, "no-cache", false, "disable the verification lookup cache")
	pf.BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	pf.BoolVar(&noVerify, "no-verify", false, "skip external verification (extract and cluster only)")

	pf.BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	pf.StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	pf.StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	text, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s (%d bytes)\n", file, len(text))
		fmt.Fprintf(os.Stderr, "Verification: %v\n", cfg.Verify.Enabled)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg)
	orch := pipeline.NewOrchestrator(cfg, p)

	mode := pipeline.ModeAuto
	switch {
	case forceSync && forceAsync:
		return fmt.Errorf("--sync and --async are mutually exclusive")
	case forceSync:
		mode = pipeline.ModeSync
	case forceAsync:
		mode = pipeline.ModeAsync
	}

	docName := filepath.Base(file)
	report, jobID, err := orch.Process(ctx, docName, string(text), mode)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	// Async delivery: wait for the job, then fetch its report
	if report == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Queued as job %s\n", jobID)
		}
		orch.Wait()
		status, err := orch.Status(jobID)
		if err != nil {
			return fmt.Errorf("job status: %w", err)
		}
		if status.Error != "" {
			return fmt.Errorf("check failed: %s", status.Error)
		}
		report = status.Result
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Located %d citations in %d clusters\n",
			report.Stats.CitationCount, report.Stats.ClusterCount)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig layers defaults, the config file, environment variables,
// and flags, highest priority last
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Verify.Enabled = cfg.Verify.Enabled && !noVerify
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if cmd.Flags().Changed("proximity") {
		cfg.Pipeline.ProximityThreshold = proximity
	}
	if cmd.Flags().Changed("name-similarity") {
		cfg.Verify.NameSimilarityThreshold = nameSimilarity
	}
	if cmd.Flags().Changed("year-tolerance") {
		cfg.Verify.YearTolerance = yearTolerance
	}

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".lexcite", "cache")
		}
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictEvidence = true // Always enforce

		switch strings.ToLower(llmProvider) {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
	}

	return cfg, nil
}
