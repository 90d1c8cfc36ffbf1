// Package report turns the final ranked posting list into the human-facing
// artifacts: dated HTML reports, a markdown twin and the GitHub Pages
// dashboard. It consumes the pipeline's output and never writes back into
// pipeline state.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/seen"
)

//go:embed templates/*.html
var templateFS embed.FS

var md = goldmark.New()

const (
	highRelevance   = 70
	mediumRelevance = 50
	maxIndexEntries = 60
)

// Generator writes report artifacts into the report and pages directories.
type Generator struct {
	reportDir string
	pagesDir  string
	logger    *zap.Logger
	templates *template.Template
}

// New creates a Generator writing into reportDir (per-run artifacts) and
// pagesDir (the GitHub Pages dashboard).
func New(reportDir, pagesDir string, logger *zap.Logger) (*Generator, error) {
	funcMap := template.FuncMap{
		"markdown":   renderMarkdown,
		"scoreColor": scoreColor,
	}

	templates, err := template.New("report").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing report templates: %w", err)
	}

	return &Generator{
		reportDir: reportDir,
		pagesDir:  pagesDir,
		logger:    logger,
		templates: templates,
	}, nil
}

type reportJob struct {
	Rank    int
	Posting *job.Posting
	// Reasons pre-rendered as a markdown bullet list.
	ReasonsMarkdown string
}

type reportData struct {
	Date      string
	Time      string
	Jobs      []reportJob
	HighCount int
}

type indexEntry struct {
	Name    string
	Date    string
	IsToday bool
}

type indexData struct {
	TodayCount    int
	TotalReported int
	ReportCount   int
	Entries       []indexEntry
}

// Generate writes all report artifacts for the already-ranked, already-
// truncated postings and returns the path of the latest HTML report. An
// empty list still produces every artifact so the dashboard stays current.
func (g *Generator) Generate(postings *job.Postings, stats seen.Stats) (string, error) {
	now := time.Now()
	today := now.Format("2006-01-02")

	for _, dir := range []string{g.reportDir, g.pagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating report directory: %w", err)
		}
	}

	html, err := g.buildHTML(postings, today, now.Format("15:04"))
	if err != nil {
		return "", err
	}

	datedPath := filepath.Join(g.reportDir, "job-report-"+today+".html")
	latestPath := filepath.Join(g.reportDir, "latest-report.html")
	pagesReport := filepath.Join(g.pagesDir, "report-"+today+".html")
	for _, path := range []string{datedPath, latestPath, pagesReport} {
		if err := os.WriteFile(path, html, 0o644); err != nil {
			return "", fmt.Errorf("writing report %s: %w", path, err)
		}
	}

	markdown := buildMarkdown(postings, today)
	mdPath := filepath.Join(g.reportDir, "latest-report.md")
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing markdown report: %w", err)
	}

	if err := g.updateIndex(postings.Len(), today, stats); err != nil {
		return "", err
	}

	g.logger.Info("reports saved",
		zap.String("report", datedPath),
		zap.String("pages", pagesReport),
	)
	return latestPath, nil
}

func (g *Generator) buildHTML(postings *job.Postings, date, timeStr string) ([]byte, error) {
	data := reportData{Date: date, Time: timeStr}

	for i, posting := range postings.Items {
		var reasons strings.Builder
		for _, reason := range posting.Reasons {
			fmt.Fprintf(&reasons, "- %s\n", reason)
		}

		data.Jobs = append(data.Jobs, reportJob{
			Rank:            i + 1,
			Posting:         posting,
			ReasonsMarkdown: reasons.String(),
		})
		if posting.Score >= highRelevance {
			data.HighCount++
		}
	}

	var buf bytes.Buffer
	if err := g.templates.ExecuteTemplate(&buf, "report.html", data); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// updateIndex rebuilds the dashboard page listing every generated report.
func (g *Generator) updateIndex(todayCount int, today string, stats seen.Stats) error {
	matches, err := filepath.Glob(filepath.Join(g.pagesDir, "report-*.html"))
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	if len(matches) > maxIndexEntries {
		matches = matches[:maxIndexEntries]
	}

	data := indexData{
		TodayCount:    todayCount,
		TotalReported: stats.TotalReported,
		ReportCount:   len(matches),
	}
	for _, match := range matches {
		name := filepath.Base(match)
		date := strings.TrimSuffix(strings.TrimPrefix(name, "report-"), ".html")
		data.Entries = append(data.Entries, indexEntry{
			Name:    name,
			Date:    date,
			IsToday: date == today,
		})
	}

	var buf bytes.Buffer
	if err := g.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}

	return os.WriteFile(filepath.Join(g.pagesDir, "index.html"), buf.Bytes(), 0o644)
}

func buildMarkdown(postings *job.Postings, date string) string {
	high := 0
	for _, posting := range postings.Items {
		if posting.Score >= highRelevance {
			high++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Job Report — %s\n\n", date)
	fmt.Fprintf(&b, "**%d** new matches | **%d** high relevance\n\n---\n\n", postings.Len(), high)

	for i, posting := range postings.Items {
		fmt.Fprintf(&b, "### %d. %s\n", i+1, posting.Title)
		fmt.Fprintf(&b, "**%s** · %s · Score: %.0f/100\n", posting.Company, posting.Location, posting.Score)
		if posting.SalaryInfo != "" {
			fmt.Fprintf(&b, "%s\n", posting.SalaryInfo)
		}
		fmt.Fprintf(&b, "[%s](%s)\n", posting.Source, posting.URL)
		for _, reason := range posting.Reasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

func scoreColor(score float64) string {
	switch {
	case score >= highRelevance:
		return "#16a34a"
	case score >= mediumRelevance:
		return "#ca8a04"
	default:
		return "#94a3b8"
	}
}
