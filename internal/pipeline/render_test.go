package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ovoronin/lexcite/internal/model"
)

func renderableReport() *model.Report {
	report := &model.Report{
		DocumentName: "brief.txt",
		CheckedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Citations: []*model.Citation{
			{
				ID:                 0,
				Text:               "384 U.S. 436",
				ExtractedCaseName:  "Miranda v. Arizona",
				ExtractedYear:      "1966",
				ClusterID:          0,
				VerificationStatus: model.StatusVerified,
				CanonicalName:      "Miranda v. Arizona",
				CanonicalDate:      "1966-06-13",
				CanonicalURL:       "https://example.com/miranda",
			},
			{
				ID:                 1,
				Text:               "999 F.3d 999",
				ExtractedCaseName:  "Co. v. Smith",
				ExtractedYear:      "2021",
				ClusterID:          1,
				NameMayBeTruncated: true,
				VerificationStatus: model.StatusUnverified,
			},
		},
		Clusters: []*model.Cluster{
			{
				ID:                          0,
				MemberIDs:                   []int{0},
				RepresentativeName:          "Miranda v. Arizona",
				RepresentativeYear:          "1966",
				AggregateVerificationStatus: model.StatusVerified,
			},
			{
				ID:                          1,
				MemberIDs:                   []int{1},
				RepresentativeName:          "Co. v. Smith",
				RepresentativeYear:          "2021",
				AggregateVerificationStatus: model.StatusUnverified,
			},
		},
		Notices: []string{"courtlistener returned 503"},
	}
	report.ComputeStats()
	return report
}

func TestRenderer_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewRenderer(false).RenderJSON(renderableReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Stats.CitationCount != 2 || decoded.Stats.Verified != 1 {
		t.Errorf("Expected stats round-tripped, got %+v", decoded.Stats)
	}
	if len(decoded.Notices) != 1 {
		t.Errorf("Expected notices round-tripped, got %v", decoded.Notices)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(true).RenderMarkdown(renderableReport(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Citation Check: brief.txt",
		"Miranda v. Arizona",
		"`384 U.S. 436` [verified]",
		"https://example.com/miranda",
		"`999 F.3d 999` [unverified]",
		"(name may be truncated)",
		"## Notices",
		"courtlistener returned 503",
		"_Generated by lexcite.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestRenderer_MarkdownWithoutFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(false).RenderMarkdown(renderableReport(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by lexcite") {
		t.Error("Expected no footer when disabled")
	}
}
