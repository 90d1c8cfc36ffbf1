package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/profile"
	"github.com/mhaensel/jobradar/internal/seen"
)

// Filter represents a single filtering step applied to scored postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Profile *profile.Profile
	Seen    *seen.Store
	Logger  *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially, returning the postings
// that survived every enabled step.
func Run(ctx context.Context, deps Deps, steps []Filter, p *job.Postings) (*job.Postings, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		p = next
	}

	return p, nil
}
