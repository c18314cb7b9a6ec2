package adapter

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"jobscout/internal/config"
	"jobscout/internal/model"
	"jobscout/internal/ratelimit"
)

// rssItem represents a single <item> in an RSS 2.0 feed.
type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// rssDocument is the top-level RSS envelope.
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

// RSSAdapter polls configured RSS job feeds, one request per feed.
type RSSAdapter struct {
	feeds  []config.FeedConfig
	pacer  *ratelimit.Pacer
	client *http.Client
	logger *slog.Logger
}

// NewRSSAdapter creates an adapter over the given feed list.
func NewRSSAdapter(feeds []config.FeedConfig, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) *RSSAdapter {
	return &RSSAdapter{
		feeds:  feeds,
		pacer:  pacer,
		client: client,
		logger: logger,
	}
}

func (a *RSSAdapter) Name() string { return "rss" }

// Fetch polls every feed and normalizes matching items. Broken feeds are
// logged and skipped.
func (a *RSSAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	var jobs []model.Job

	for _, feed := range a.feeds {
		if err := a.pacer.Wait(ctx); err != nil {
			return jobs, err
		}

		feedJobs, err := a.fetchFeed(ctx, feed, q.Keywords)
		if err != nil {
			if ctx.Err() != nil {
				return jobs, fmt.Errorf("rss fetch: %w", ctx.Err())
			}
			a.logger.Debug("rss feed skipped", "feed", feed.Name, "error", err)
			continue
		}
		jobs = append(jobs, feedJobs...)
	}

	return jobs, nil
}

func (a *RSSAdapter) fetchFeed(ctx context.Context, feed config.FeedConfig, keywords []string) ([]model.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("rss fetch for %s: %w", feed.Name, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rss fetch for %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("rss fetch for %s: unexpected status %d", feed.Name, resp.StatusCode),
		}
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("rss fetch for %s: %w", feed.Name, err)
	}

	jobs := make([]model.Job, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		description := extractText(item.Description)
		if !matchesKeywords(item.Title+" "+description, keywords) {
			continue
		}

		company, title := splitFeedTitle(item.Title, feed.Name)

		// Feed items carry no location element; use the configured feed
		// location, falling back to a remote hint in the text.
		location := feed.Location
		if location == "" {
			location = locationHint(item.Title, description)
		}

		externalID := ""
		switch {
		case item.GUID != "":
			externalID = "rss_" + item.GUID
		case item.Link != "":
			externalID = "rss_" + item.Link
		}

		jobs = append(jobs, model.Job{
			ExternalID:  externalID,
			Source:      "rss",
			Title:       title,
			Company:     company,
			Location:    location,
			Description: description,
			URL:         item.Link,
			PostedDate:  parseTimeOrNow(item.PubDate),
			Status:      model.StatusNew,
		})
	}

	return jobs, nil
}

// splitFeedTitle pulls a company name out of "Company: Title" style feed
// items. When the item has no such prefix the feed name stands in for the
// company.
func splitFeedTitle(raw, feedName string) (company, title string) {
	if before, after, ok := strings.Cut(raw, ": "); ok && before != "" && after != "" {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return feedName, strings.TrimSpace(raw)
}
