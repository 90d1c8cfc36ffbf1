package filtering

import (
	"context"
	"fmt"

	"github.com/mhaensel/jobradar/internal/job"
)

type thresholdFilter struct{}

// NewThreshold creates a filter that drops postings scoring below the
// profile's minimum relevance score.
func NewThreshold() Filter {
	return &thresholdFilter{}
}

func (f *thresholdFilter) Name() string { return "threshold" }

func (f *thresholdFilter) Disable(string) {}

func (f *thresholdFilter) IsEnabled() bool { return true }

func (f *thresholdFilter) Apply(_ context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error) {
	if deps.Profile == nil {
		return p, Step{}, fmt.Errorf("profile is required")
	}

	initial := p.Len()
	kept := &job.Postings{Items: make([]*job.Posting, 0, initial)}
	for _, posting := range p.Items {
		if posting.Score >= deps.Profile.MinScore {
			kept.Items = append(kept.Items, posting)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}
