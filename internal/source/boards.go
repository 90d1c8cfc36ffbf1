package source

import (
	"context"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/profile"
)

const (
	berlinStartupSource  = "BerlinStartupJobs"
	berlinStartupBaseURL = "https://berlinstartupjobs.com"
	germanTechSource     = "GermanTechJobs"
	germanTechBaseURL    = "https://germantechjobs.de"

	berlinStartupMaxCards = 15
	germanTechMaxCards    = 10
)

var (
	berlinStartupCategories = []string{"business", "management", "product"}
	germanTechQueries       = []string{"healthcare", "health", "pharma", "medical", "strategy", "business development"}
)

type boards struct {
	session *Session
	prof    *profile.Profile
	logger  *zap.Logger
}

// NewBoards creates the adapter covering the startup job boards.
func NewBoards(session *Session, prof *profile.Profile, log *zap.Logger) Adapter {
	return &boards{session: session, prof: prof, logger: log}
}

func (a *boards) Name() string { return "boards" }

func (a *boards) Fetch(ctx context.Context) ([]*job.Posting, error) {
	postings, err := a.fetchBerlinStartupJobs(ctx)
	if err != nil {
		return postings, err
	}

	german, err := a.fetchGermanTechJobs(ctx)
	postings = append(postings, german...)

	a.logger.Info("startup boards raw results", zap.Int("count", len(postings)))
	return postings, err
}

func (a *boards) fetchBerlinStartupJobs(ctx context.Context) ([]*job.Posting, error) {
	postings := make([]*job.Posting, 0)

	for _, category := range berlinStartupCategories {
		a.logger.Info("checking berlinstartupjobs", zap.String("category", category))

		doc, err := a.session.Document(ctx, berlinStartupBaseURL+"/skill-areas/"+category+"/")
		if err != nil {
			a.logger.Warn("berlinstartupjobs failed", zap.Error(err))
			continue
		}

		cards := doc.Find(".bsj-jb, .job-listing, article")
		cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
			if i >= berlinStartupMaxCards {
				return false
			}

			titleLink := card.Find("h4 a, .bsj-jb__title a, h3 a").First()
			title := trimmedText(titleLink)
			company := cardText(card, ".bsj-jb__company, .company-name")
			if title == "" || company == "" {
				a.logger.Debug("dropping card without title or company", zap.String("source", berlinStartupSource))
				return true
			}

			href, _ := titleLink.Attr("href")

			postings = append(postings, job.New(job.Posting{
				Title:    title,
				Company:  company,
				Location: "Berlin, Germany",
				URL:      href,
				Source:   berlinStartupSource,
			}))
			return true
		})

		if err := a.session.Delay(ctx, 1*time.Second, 2*time.Second); err != nil {
			return postings, err
		}
	}

	return postings, nil
}

func (a *boards) fetchGermanTechJobs(ctx context.Context) ([]*job.Posting, error) {
	postings := make([]*job.Posting, 0)

	for _, query := range germanTechQueries {
		a.logger.Info("checking germantechjobs", zap.String("query", query))

		doc, err := a.session.Document(ctx, germanTechBaseURL+"/jobs?search="+url.QueryEscape(query))
		if err != nil {
			a.logger.Warn("germantechjobs failed", zap.Error(err))
			continue
		}

		cards := doc.Find(".card, .job-card, article, .job-listing")
		cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
			if i >= germanTechMaxCards {
				return false
			}

			titleLink := card.Find("h2 a, h3 a, .card-title a, a.job-title").First()
			title := trimmedText(titleLink)
			company := cardText(card, ".company, .card-subtitle, .employer")
			if title == "" || company == "" {
				a.logger.Debug("dropping card without title or company", zap.String("source", germanTechSource))
				return true
			}

			location := cardText(card, ".location, .city")
			if location == "" {
				location = "Germany"
			}

			href, _ := titleLink.Attr("href")
			href = absoluteURL(href, germanTechBaseURL)

			postings = append(postings, job.New(job.Posting{
				Title:    title,
				Company:  company,
				Location: location,
				URL:      href,
				Source:   germanTechSource,
			}))
			return true
		})

		if err := a.session.Delay(ctx, 1*time.Second, 2*time.Second); err != nil {
			return postings, err
		}
	}

	return postings, nil
}
