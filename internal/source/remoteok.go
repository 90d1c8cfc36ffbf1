package source

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
)

const (
	remoteOKSource   = "RemoteOK"
	remoteOKFeedURL  = "https://remoteok.com/remote-healthcare-jobs.rss"
	remoteOKMaxItems = 15
)

type remoteOK struct {
	session *Session
	parser  *gofeed.Parser
	logger  *zap.Logger
}

// NewRemoteOK creates the adapter reading RemoteOK's healthcare feed.
func NewRemoteOK(session *Session, log *zap.Logger) Adapter {
	return &remoteOK{session: session, parser: gofeed.NewParser(), logger: log}
}

func (a *remoteOK) Name() string { return "remoteok" }

func (a *remoteOK) Fetch(ctx context.Context) ([]*job.Posting, error) {
	a.logger.Info("checking remoteok feed")

	feed, err := a.parser.ParseURLWithContext(remoteOKFeedURL, ctx)
	if err != nil {
		return nil, err
	}

	postings := make([]*job.Posting, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(postings) >= remoteOKMaxItems {
			break
		}

		posting := a.parseItem(item)
		if posting == nil {
			continue
		}
		postings = append(postings, posting)
	}

	if err := a.session.PoliteDelay(ctx); err != nil {
		return postings, err
	}

	a.logger.Info("remote boards raw results", zap.Int("count", len(postings)))
	return postings, nil
}

// parseItem splits the feed's "Position at Company" titles. Items that do
// not carry a recognizable company are dropped per the producer contract.
func (a *remoteOK) parseItem(item *gofeed.Item) *job.Posting {
	title, company := splitPositionAtCompany(item.Title)
	if title == "" || company == "" {
		a.logger.Debug("dropping feed item without title or company", zap.String("source", remoteOKSource))
		return nil
	}

	datePosted := ""
	if item.PublishedParsed != nil {
		datePosted = item.PublishedParsed.Format("2006-01-02")
	}

	return job.New(job.Posting{
		Title:       title,
		Company:     company,
		Location:    "Remote",
		URL:         item.Link,
		Source:      remoteOKSource,
		Description: item.Description,
		DatePosted:  datePosted,
	})
}

func splitPositionAtCompany(s string) (title, company string) {
	idx := strings.LastIndex(s, " at ")
	if idx < 0 {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(" at "):])
}
