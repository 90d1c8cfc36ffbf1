package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
)

const includeSeenMsg = "include-seen flag is set"

type noveltyFilter struct {
	ignore bool
}

// NewNovelty creates a filter that drops postings already present in the
// seen state. When ignore is set, previously seen postings stay in the
// report; the pipeline still never re-marks them.
func NewNovelty(ignore bool) Filter {
	return &noveltyFilter{ignore: ignore}
}

func (f *noveltyFilter) Name() string { return "novelty" }

func (f *noveltyFilter) Disable(string) {}

func (f *noveltyFilter) IsEnabled() bool { return true }

func (f *noveltyFilter) Apply(_ context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error) {
	initial := p.Len()
	if f.ignore {
		if deps.Logger != nil {
			deps.Logger.Info("keeping already seen postings", zap.String("reason", includeSeenMsg))
		}
		return p, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	if deps.Seen == nil {
		return p, Step{}, fmt.Errorf("seen store is required")
	}

	kept := &job.Postings{Items: make([]*job.Posting, 0, initial)}
	for _, posting := range p.Items {
		if deps.Seen.IsNew(posting) {
			kept.Items = append(kept.Items, posting)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}
