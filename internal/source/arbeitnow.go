package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/profile"
)

const (
	arbeitnowSource   = "Arbeitnow"
	arbeitnowAPIURL   = "https://www.arbeitnow.com/api/job-board-api"
	arbeitnowMaxItems = 30
)

type arbeitnow struct {
	session *Session
	prof    *profile.Profile
	logger  *zap.Logger
}

// NewArbeitnow creates the adapter for the Arbeitnow job board API, the
// only source that speaks JSON instead of HTML.
func NewArbeitnow(session *Session, prof *profile.Profile, log *zap.Logger) Adapter {
	return &arbeitnow{session: session, prof: prof, logger: log}
}

func (a *arbeitnow) Name() string { return "arbeitnow" }

// arbeitnowJob mirrors one listing in the API response. Items arrive as
// loosely typed JSON and are decoded below via mapstructure.
type arbeitnowJob struct {
	Title       string `json:"title"`
	Company     string `json:"company_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Remote      bool   `json:"remote"`
	CreatedAt   int64  `json:"created_at"`
}

func (a *arbeitnow) Fetch(ctx context.Context) ([]*job.Posting, error) {
	a.logger.Info("checking arbeitnow api")

	var response struct {
		Data []interface{} `json:"data"`
	}
	if err := a.session.GetJSON(ctx, arbeitnowAPIURL, &response); err != nil {
		return nil, fmt.Errorf("arbeitnow api: %w", err)
	}

	var items []arbeitnowJob
	cfg := &mapstructure.DecoderConfig{
		Result:  &items,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Data); err != nil {
		return nil, fmt.Errorf("decoding arbeitnow items: %w", err)
	}

	postings := make([]*job.Posting, 0, len(items))
	for _, item := range items {
		if len(postings) >= arbeitnowMaxItems {
			break
		}
		if item.Title == "" || item.Company == "" {
			a.logger.Debug("dropping item without title or company", zap.String("source", arbeitnowSource))
			continue
		}

		location := item.Location
		if location == "" {
			if item.Remote {
				location = "Remote"
			} else {
				location = "Germany"
			}
		}

		datePosted := ""
		if item.CreatedAt > 0 {
			datePosted = time.Unix(item.CreatedAt, 0).Format("2006-01-02")
		}

		postings = append(postings, job.New(job.Posting{
			Title:       item.Title,
			Company:     item.Company,
			Location:    location,
			URL:         item.URL,
			Source:      arbeitnowSource,
			Description: item.Description,
			DatePosted:  datePosted,
		}))
	}

	if err := a.session.PoliteDelay(ctx); err != nil {
		return postings, err
	}

	a.logger.Info("arbeitnow raw results", zap.Int("count", len(postings)))
	return postings, nil
}
