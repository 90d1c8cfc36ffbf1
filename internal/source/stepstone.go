package source

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/logger"
	"github.com/mhaensel/jobradar/internal/profile"
)

const (
	stepStoneSource     = "StepStone"
	stepStoneBaseURL    = "https://www.stepstone.de"
	stepStoneMaxQueries = 5
	stepStoneMaxCards   = 10
)

type stepStone struct {
	session *Session
	prof    *profile.Profile
	logger  *zap.Logger
}

// NewStepStone creates the StepStone adapter.
func NewStepStone(session *Session, prof *profile.Profile, log *zap.Logger) Adapter {
	return &stepStone{session: session, prof: prof, logger: log}
}

func (a *stepStone) Name() string { return "stepstone" }

func (a *stepStone) Fetch(ctx context.Context) ([]*job.Posting, error) {
	postings := make([]*job.Posting, 0)

	for _, query := range firstN(a.prof.SearchQueries, stepStoneMaxQueries) {
		searchURL := stepStoneBaseURL + "/jobs/" + url.QueryEscape(query) + "?age=1&sort=date"

		a.logger.Info("searching stepstone",
			zap.String("query", logger.TruncateForLog(query, 50)),
		)

		doc, err := a.session.Document(ctx, searchURL)
		if err != nil {
			a.logger.Warn("stepstone query failed", zap.Error(err))
			if derr := a.session.Delay(ctx, backoffMin, backoffMax); derr != nil {
				return postings, derr
			}
			continue
		}

		postings = append(postings, a.parseCards(doc)...)

		if err := a.session.PoliteDelay(ctx); err != nil {
			return postings, err
		}
	}

	a.logger.Info("stepstone raw results", zap.Int("count", len(postings)))
	return postings, nil
}

func (a *stepStone) parseCards(doc *goquery.Document) []*job.Posting {
	postings := make([]*job.Posting, 0)

	cards := doc.Find("[data-testid='job-item'], .res-1p8ewa0, article")
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= stepStoneMaxCards {
			return false
		}

		title := cardText(card, "[data-testid='job-item-title'], h2, .res-nehv70")
		company := cardText(card, "[data-testid='job-item-company'], .res-1r68bfv")
		if title == "" || company == "" {
			a.logger.Debug("dropping card without title or company", zap.String("source", stepStoneSource))
			return true
		}

		location := cardText(card, "[data-testid='job-item-location'], .res-1w6cxnr")
		if location == "" {
			location = "Germany"
		}

		href, _ := card.Find("a[href*='stellenangebote'], a[href*='/jobs/']").First().Attr("href")
		href = absoluteURL(href, stepStoneBaseURL)

		postings = append(postings, job.New(job.Posting{
			Title:    title,
			Company:  company,
			Location: location,
			URL:      href,
			Source:   stepStoneSource,
		}))
		return true
	})

	return postings
}
