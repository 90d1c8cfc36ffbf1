package source

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/profile"
)

const careersSource = "Direct"

// Link-harvest selectors covering the common ATS providers target companies
// embed on their careers pages.
var careersSelectors = []string{
	"a[href*='job'], a[href*='position'], a[href*='career']",
	".job-listing a, .opening a, .position a",
	"[class*='job'] a, [class*='opening'] a, [class*='position'] a",
	"li a[href*='lever.co'], li a[href*='greenhouse.io'], li a[href*='workable.com']",
	"li a[href*='smartrecruiters'], li a[href*='recruitee']",
	"a[href*='ashbyhq.com'], a[href*='personio']",
}

type careers struct {
	session *Session
	prof    *profile.Profile
	logger  *zap.Logger
}

// NewCareers creates the adapter that walks the careers pages of the
// configured target companies directly.
func NewCareers(session *Session, prof *profile.Profile, log *zap.Logger) Adapter {
	return &careers{session: session, prof: prof, logger: log}
}

func (a *careers) Name() string { return "careers" }

func (a *careers) Fetch(ctx context.Context) ([]*job.Posting, error) {
	postings := make([]*job.Posting, 0)

	for _, company := range a.prof.TargetCompanies {
		a.logger.Info("checking careers page", zap.String("company", company.Name))

		doc, err := a.session.Document(ctx, company.CareersURL)
		if err != nil {
			// Careers pages are the flakiest source; a miss is routine.
			a.logger.Debug("careers page failed",
				zap.String("company", company.Name),
				zap.Error(err),
			)
			continue
		}

		postings = append(postings, a.parsePage(doc, company)...)

		if err := a.session.Delay(ctx, 1*time.Second, 2*time.Second); err != nil {
			return postings, err
		}
	}

	a.logger.Info("direct careers raw results", zap.Int("count", len(postings)))
	return postings, nil
}

func (a *careers) parsePage(doc *goquery.Document, company profile.TargetCompany) []*job.Posting {
	postings := make([]*job.Posting, 0)
	found := make(map[string]struct{})

	location := company.HQ
	if location == "" {
		location = "Germany"
	}

	for _, selector := range careersSelectors {
		doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
			href, _ := el.Attr("href")
			text := trimmedText(el)

			// Short anchor texts are navigation, not job titles.
			if len(text) <= 5 {
				return
			}
			if _, ok := found[href]; ok {
				return
			}
			found[href] = struct{}{}

			postings = append(postings, job.New(job.Posting{
				Title:    text,
				Company:  company.Name,
				Location: location,
				URL:      absoluteURL(href, company.CareersURL),
				Source:   careersSource + " (" + company.Name + ")",
			}))
		})
	}

	return postings
}
