package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/seen"
)

func testGenerator(t *testing.T) (*Generator, string, string) {
	t.Helper()
	base := t.TempDir()
	reportDir := filepath.Join(base, "reports")
	pagesDir := filepath.Join(base, "docs")

	gen, err := New(reportDir, pagesDir, zap.NewNop())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return gen, reportDir, pagesDir
}

func TestGenerateWritesAllArtifacts(t *testing.T) {
	gen, reportDir, pagesDir := testGenerator(t)
	postings := &job.Postings{Items: []*job.Posting{
		{
			Title:    "Senior Strategy Manager",
			Company:  "Acme Health",
			Location: "Berlin",
			URL:      "https://a.com/1",
			Source:   "LinkedIn",
			Score:    85,
			Reasons:  []string{"Title match: 'strategy manager'", "Location: 'berlin'"},
		},
		{Title: "Product Manager", Company: "Beta GmbH", Location: "Hamburg", Score: 55},
	}}

	path, err := gen.Generate(postings, seen.Stats{TotalReported: 12})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	for _, f := range []string{
		filepath.Join(reportDir, "job-report-"+today+".html"),
		filepath.Join(reportDir, "latest-report.html"),
		filepath.Join(reportDir, "latest-report.md"),
		filepath.Join(pagesDir, "report-"+today+".html"),
		filepath.Join(pagesDir, "index.html"),
	} {
		if _, err := os.Stat(f); err != nil {
			t.Fatalf("missing artifact %s: %v", f, err)
		}
	}
	if path != filepath.Join(reportDir, "latest-report.html") {
		t.Fatalf("unexpected report path: %s", path)
	}

	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"Senior Strategy Manager", "Acme Health", "Title match"} {
		if !strings.Contains(string(html), want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestGenerateEmptyListStillProducesArtifacts(t *testing.T) {
	gen, reportDir, pagesDir := testGenerator(t)

	if _, err := gen.Generate(&job.Postings{}, seen.Stats{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(reportDir, "latest-report.html")); err != nil {
		t.Fatalf("empty run must still write the report: %v", err)
	}
	if _, err := os.Stat(filepath.Join(pagesDir, "index.html")); err != nil {
		t.Fatalf("empty run must still refresh the dashboard: %v", err)
	}
}

func TestUpdateIndexListsNewestFirst(t *testing.T) {
	gen, _, pagesDir := testGenerator(t)
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, date := range []string{"2026-08-29", "2026-08-31", "2026-08-30"} {
		name := filepath.Join(pagesDir, "report-"+date+".html")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("seed report: %v", err)
		}
	}

	if err := gen.updateIndex(3, "2026-08-31", seen.Stats{TotalReported: 9}); err != nil {
		t.Fatalf("update index: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(pagesDir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	content := string(index)
	first := strings.Index(content, "report-2026-08-31.html")
	last := strings.Index(content, "report-2026-08-29.html")
	if first == -1 || last == -1 || first > last {
		t.Fatalf("index entries not newest first")
	}
}

func TestBuildMarkdownSummaryLine(t *testing.T) {
	postings := &job.Postings{Items: []*job.Posting{
		{Title: "A", Company: "X", Score: 90},
		{Title: "B", Company: "Y", Score: 40},
	}}

	out := buildMarkdown(postings, "2026-08-31")
	if !strings.Contains(out, "**2** new matches | **1** high relevance") {
		t.Fatalf("summary line wrong:\n%s", out)
	}
	if !strings.Contains(out, "### 1. A") || !strings.Contains(out, "### 2. B") {
		t.Fatalf("postings not numbered in order:\n%s", out)
	}
}

func TestScoreColorBands(t *testing.T) {
	if scoreColor(70) != "#16a34a" || scoreColor(50) != "#ca8a04" || scoreColor(49.9) != "#94a3b8" {
		t.Fatalf("score color bands wrong")
	}
}

func TestRenderMarkdownProducesList(t *testing.T) {
	out := string(renderMarkdown("- one\n- two\n"))
	if !strings.Contains(out, "<li>one</li>") || !strings.Contains(out, "<li>two</li>") {
		t.Fatalf("markdown not rendered: %s", out)
	}
}
