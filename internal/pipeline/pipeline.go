// Package pipeline sequences one full run: fetch, dedup, score, filter,
// persist, rank, report. The run is strictly linear; a failing source
// degrades coverage but never aborts the run.
package pipeline

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/ci"
	"github.com/mhaensel/jobradar/internal/filtering"
	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/profile"
	"github.com/mhaensel/jobradar/internal/report"
	"github.com/mhaensel/jobradar/internal/scoring"
	"github.com/mhaensel/jobradar/internal/seen"
	"github.com/mhaensel/jobradar/internal/source"
)

// Pipeline wires the run components together.
type Pipeline struct {
	prof          *profile.Profile
	store         *seen.Store
	adapters      []source.Adapter
	reporter      *report.Generator
	logger        *zap.Logger
	retentionDays int
	includeSeen   bool
}

// Config carries everything a run needs. All fields are required except
// IncludeSeen and RetentionDays (which falls back to the default window).
type Config struct {
	Profile       *profile.Profile
	Store         *seen.Store
	Adapters      []source.Adapter
	Reporter      *report.Generator
	Logger        *zap.Logger
	RetentionDays int
	IncludeSeen   bool
}

// Summary reports what happened during a run.
type Summary struct {
	Raw        int
	Deduped    int
	Relevant   int
	NewCount   int
	Reported   int
	ReportPath string
}

func New(cfg Config) *Pipeline {
	retention := cfg.RetentionDays
	if retention <= 0 {
		retention = seen.DefaultRetentionDays
	}

	return &Pipeline{
		prof:          cfg.Profile,
		store:         cfg.Store,
		adapters:      cfg.Adapters,
		reporter:      cfg.Reporter,
		logger:        cfg.Logger,
		retentionDays: retention,
		includeSeen:   cfg.IncludeSeen,
	}
}

// Run executes one full pipeline pass. It always produces a report
// artifact, even an empty one, unless persisting state or writing the
// report itself fails.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	// Expired entries must go before any novelty check so postings can
	// legitimately reappear after the retention window.
	p.store.Cleanup(p.retentionDays)

	all := &job.Postings{}
	for _, result := range source.FetchAll(ctx, p.adapters, p.logger) {
		if result.Err != nil {
			p.logger.Warn("source failed",
				zap.String("source", result.Source),
				zap.Error(result.Err),
			)
			continue
		}
		all.Append(result.Postings...)
	}
	p.logger.Info("total raw results", zap.Int("count", all.Len()))

	deduped := all.Dedupe()
	p.logger.Info("after deduplication", zap.Int("count", deduped.Len()))

	scored := &job.Postings{Items: make([]*job.Posting, 0, deduped.Len())}
	for _, posting := range deduped.Items {
		rescored := *posting
		rescored.Score, rescored.Reasons = scoring.Score(posting, p.prof)
		scored.Append(&rescored)
	}

	deps := filtering.Deps{Profile: p.prof, Seen: p.store, Logger: p.logger}
	steps := []filtering.Filter{
		filtering.NewThreshold(),
		filtering.NewNovelty(p.includeSeen),
	}

	retained, err := filtering.Run(ctx, deps, steps, scored)
	if err != nil {
		return nil, err
	}

	// Only postings that are actually new get marked, even when seen ones
	// were kept in the report; re-marking would restart their retention
	// clock.
	newCount := 0
	for _, posting := range retained.Items {
		if p.store.IsNew(posting) {
			p.store.MarkSeen(posting)
			newCount++
		}
	}
	p.logger.Info("new postings", zap.Int("count", newCount))

	p.store.UpdateStats(newCount)
	if err := p.store.Save(); err != nil {
		return nil, err
	}

	relevant := retained.Len()
	retained.SortByScore()
	retained.Truncate(p.prof.MaxResults)

	reportPath, err := p.reporter.Generate(retained, p.store.Stats())
	if err != nil {
		return nil, err
	}

	p.signalCI(newCount)

	return &Summary{
		Raw:        all.Len(),
		Deduped:    deduped.Len(),
		Relevant:   relevant,
		NewCount:   newCount,
		Reported:   retained.Len(),
		ReportPath: reportPath,
	}, nil
}

// signalCI exports the count of newly reported postings, counted before
// truncation. Re-reported postings kept by include-seen are not counted.
func (p *Pipeline) signalCI(newCount int) {
	today := time.Now().Format("2006-01-02")
	if err := ci.SetEnv("REPORT_DATE", today); err != nil {
		p.logger.Warn("setting REPORT_DATE for CI", zap.Error(err))
	}
	if err := ci.SetEnv("JOB_COUNT", strconv.Itoa(newCount)); err != nil {
		p.logger.Warn("setting JOB_COUNT for CI", zap.Error(err))
	}
}
