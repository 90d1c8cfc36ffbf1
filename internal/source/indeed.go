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
	indeedSource     = "Indeed"
	indeedBaseURL    = "https://de.indeed.com"
	indeedMaxQueries = 6
	indeedMaxCards   = 10
)

type indeed struct {
	session *Session
	prof    *profile.Profile
	logger  *zap.Logger
}

// NewIndeed creates the Indeed Germany adapter.
func NewIndeed(session *Session, prof *profile.Profile, log *zap.Logger) Adapter {
	return &indeed{session: session, prof: prof, logger: log}
}

func (a *indeed) Name() string { return "indeed" }

func (a *indeed) Fetch(ctx context.Context) ([]*job.Posting, error) {
	postings := make([]*job.Posting, 0)

	for _, query := range firstN(a.prof.SearchQueries, indeedMaxQueries) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("l", "Deutschland")
		params.Set("fromage", "1")
		params.Set("sort", "date")

		a.logger.Info("searching indeed",
			zap.String("query", logger.TruncateForLog(query, 50)),
		)

		doc, err := a.session.Document(ctx, indeedBaseURL+"/jobs?"+params.Encode())
		if err != nil {
			a.logger.Warn("indeed query failed", zap.Error(err))
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

	a.logger.Info("indeed raw results", zap.Int("count", len(postings)))
	return postings, nil
}

func (a *indeed) parseCards(doc *goquery.Document) []*job.Posting {
	postings := make([]*job.Posting, 0)

	cards := doc.Find(".job_seen_beacon, .jobsearch-ResultsList > li, .result")
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= indeedMaxCards {
			return false
		}

		title := cardText(card, ".jobTitle span, h2.jobTitle, .jcs-JobTitle")
		company := cardText(card, ".companyName, [data-testid='company-name'], .company")
		if title == "" || company == "" {
			a.logger.Debug("dropping card without title or company", zap.String("source", indeedSource))
			return true
		}

		location := cardText(card, ".companyLocation, [data-testid='text-location']")
		if location == "" {
			location = "Germany"
		}

		href, _ := card.Find("a[href*='/rc/clk'], a[href*='viewjob'], h2 a").First().Attr("href")
		href = absoluteURL(href, indeedBaseURL)

		postings = append(postings, job.New(job.Posting{
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        href,
			Source:     indeedSource,
			SalaryInfo: cardText(card, ".salary-snippet-container, .estimated-salary"),
		}))
		return true
	})

	return postings
}
