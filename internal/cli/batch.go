package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovoronin/lexcite/internal/pipeline"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Check multiple documents in parallel",
	Long: `Batch queues every document through the async worker pool:
- Each document runs the same four stages as a single check
- Documents are processed in parallel with a configurable worker count
- Individual JSON and Markdown reports are written per document

Example:
  lexcite batch brief1.txt brief2.txt
  lexcite batch briefs/*.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./lexcite-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	fmt.Fprintf(os.Stderr, "Batch: %d documents, %d workers, output %s\n\n", len(args), concurrency, outputDir)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.New(cfg)
	orch := pipeline.NewOrchestrator(cfg, p)

	type queued struct {
		file  string
		jobID string
	}

	var jobs []queued
	for _, file := range args {
		text, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "SKIP %s: %v\n", file, err)
			continue
		}
		jobs = append(jobs, queued{file: file, jobID: orch.Submit(filepath.Base(file), string(text))})
	}

	orch.Wait()

	successCount := 0
	failureCount := 0
	for _, job := range jobs {
		status, err := orch.Status(job.jobID)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", job.file, err)
			continue
		}
		if status.Error != "" || status.Result == nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %s\n", job.file, status.Error)
			continue
		}
		successCount++

		slug := sanitizeFilename(filepath.Base(job.file))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
		if err := renderer.RenderJSON(status.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write JSON: %v\n", job.file, err)
			continue
		}
		if err := renderer.RenderMarkdown(status.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write Markdown: %v\n", job.file, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "OK   %s: %d citations, %d verified\n",
			job.file, status.Result.Stats.CitationCount, status.Result.Stats.Verified)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d succeeded, %d failed, reports in %s\n",
		successCount, failureCount, outputDir)

	return nil
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = strings.TrimSuffix(s, filepath.Ext(s))
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}
	return s
}
