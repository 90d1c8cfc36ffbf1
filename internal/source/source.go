// Package source contains the site adapters producing raw posting
// candidates. Adapters are deliberately invoked one at a time so the
// pacing delays between requests to the same host are honored.
package source

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/profile"
)

// Adapter is a source-specific collector. Fetch returns only candidates
// carrying at least a title and a company; anything less is dropped before
// returning.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]*job.Posting, error)
}

// Result is the outcome of one adapter's fetch. A failed adapter surfaces
// its error here instead of aborting the run.
type Result struct {
	Source   string
	Postings []*job.Posting
	Err      error
}

// All returns every adapter in its fixed execution order.
func All(session *Session, prof *profile.Profile, logger *zap.Logger) []Adapter {
	return []Adapter{
		NewLinkedIn(session, prof, logger),
		NewIndeed(session, prof, logger),
		NewStepStone(session, prof, logger),
		NewCareers(session, prof, logger),
		NewBoards(session, prof, logger),
		NewRemoteOK(session, logger),
		NewArbeitnow(session, prof, logger),
	}
}

// Names lists the adapter names in execution order.
func Names(adapters []Adapter) []string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		names = append(names, adapter.Name())
	}
	return names
}

// Select narrows the adapter list to the one with the given name.
func Select(adapters []Adapter, name string) (Adapter, bool) {
	for _, adapter := range adapters {
		if adapter.Name() == name {
			return adapter, true
		}
	}
	return nil, false
}

// FetchAll runs the adapters sequentially. Each adapter is fault isolated:
// its error is recorded and the next adapter still runs.
func FetchAll(ctx context.Context, adapters []Adapter, logger *zap.Logger) []Result {
	results := make([]Result, 0, len(adapters))
	for _, adapter := range adapters {
		logger.Info("fetching source", zap.String("source", adapter.Name()))

		postings, err := adapter.Fetch(ctx)
		results = append(results, Result{
			Source:   adapter.Name(),
			Postings: postings,
			Err:      err,
		})
	}
	return results
}

// Pacing after a failed request, giving the host extra room.
const (
	backoffMin = 3 * time.Second
	backoffMax = 6 * time.Second
)

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

// cardText returns the trimmed text of the first element matching the
// selector list inside the card.
func cardText(card *goquery.Selection, selector string) string {
	return trimmedText(card.Find(selector).First())
}

func trimmedText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// absoluteURL resolves a scraped href against the site base when it is
// site-relative.
func absoluteURL(href, base string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}
