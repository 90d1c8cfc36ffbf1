package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 15 * time.Second

	// A browser-like user agent; job boards answer differently to obvious
	// bots.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Session is the shared HTTP state for all adapters: one client with a
// fixed per-request timeout and the common header set.
type Session struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

func NewSession(logger *zap.Logger) *Session {
	return &Session{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: browserUserAgent,
		logger:    logger,
	}
}

// Document fetches the url and parses the body as HTML.
func (s *Session) Document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := s.get(ctx, url, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

// GetJSON fetches the url and decodes the JSON body into target.
func (s *Session) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := s.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	return json.Unmarshal(data, target)
}

func (s *Session) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,de;q=0.8")

	s.logger.Debug("make request", zap.String("url", url))
	return s.client.Do(req)
}

// Delay sleeps for a random duration between min and max, the politeness
// throttle between requests to the same host. It returns early when the
// context is canceled.
func (s *Session) Delay(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	return wait(ctx, d)
}

// PoliteDelay applies the default pacing of 1.5 to 3.5 seconds.
func (s *Session) PoliteDelay(ctx context.Context) error {
	return s.Delay(ctx, 1500*time.Millisecond, 3500*time.Millisecond)
}

var sleep = time.Sleep

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
