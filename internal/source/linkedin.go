package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/logger"
	"github.com/mhaensel/jobradar/internal/profile"
)

const (
	linkedInSource     = "LinkedIn"
	linkedInSearchURL  = "https://www.linkedin.com/jobs/search/"
	linkedInMaxQueries = 8
	linkedInMaxCards   = 10
)

type linkedIn struct {
	session *Session
	prof    *profile.Profile
	logger  *zap.Logger
}

// NewLinkedIn creates the LinkedIn public job search adapter.
func NewLinkedIn(session *Session, prof *profile.Profile, log *zap.Logger) Adapter {
	return &linkedIn{session: session, prof: prof, logger: log}
}

func (a *linkedIn) Name() string { return "linkedin" }

func (a *linkedIn) Fetch(ctx context.Context) ([]*job.Posting, error) {
	postings := make([]*job.Posting, 0)

	for _, query := range firstN(a.prof.SearchQueries, linkedInMaxQueries) {
		params := url.Values{}
		params.Set("keywords", query)
		params.Set("location", "Germany")
		params.Set("geoId", "101282230")
		params.Set("f_TPR", "r86400") // posted in the last 24h
		params.Set("f_E", "4,5")
		params.Set("sortBy", "DD")
		params.Set("position", "1")
		params.Set("pageNum", "0")

		a.logger.Info("searching linkedin",
			zap.String("query", logger.TruncateForLog(query, 50)),
		)

		doc, err := a.session.Document(ctx, linkedInSearchURL+"?"+params.Encode())
		if err != nil {
			a.logger.Warn("linkedin query failed", zap.Error(err))
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

	a.logger.Info("linkedin raw results", zap.Int("count", len(postings)))
	return postings, nil
}

func (a *linkedIn) parseCards(doc *goquery.Document) []*job.Posting {
	postings := make([]*job.Posting, 0)

	cards := doc.Find(".base-card, .job-search-card, .result-card")
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= linkedInMaxCards {
			return false
		}

		title := cardText(card, ".base-search-card__title, .result-card__title, h3")
		company := cardText(card, ".base-search-card__subtitle, .result-card__subtitle, h4")
		if title == "" || company == "" {
			a.logger.Debug("dropping card without title or company", zap.String("source", linkedInSource))
			return true
		}

		location := cardText(card, ".job-search-card__location, .job-result-card__location")
		if location == "" {
			location = "Germany"
		}

		href, _ := card.Find("a.base-card__full-link, a").First().Attr("href")
		// Tracking params carry no identity and would break dedup.
		href = strings.SplitN(href, "?", 2)[0]

		datePosted, _ := card.Find("time").First().Attr("datetime")

		postings = append(postings, job.New(job.Posting{
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        href,
			Source:     linkedInSource,
			DatePosted: datePosted,
		}))
		return true
	})

	return postings
}
