package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"jobscout/internal/model"
	"jobscout/internal/ratelimit"
)

const indeedBaseURL = "https://api.indeed.com/ads/apisearch"

// indeedJob represents a single result in the Indeed API response.
type indeedJob struct {
	JobKey            string `json:"jobkey"`
	JobTitle          string `json:"jobtitle"`
	Company           string `json:"company"`
	FormattedLocation string `json:"formattedLocation"`
	Snippet           string `json:"snippet"`
	URL               string `json:"url"`
	Date              string `json:"date"`
}

// indeedResponse is the top-level Indeed API response.
type indeedResponse struct {
	Results []indeedJob `json:"results"`
}

// IndeedAdapter fetches jobs from the Indeed publisher API, one request per
// keyword×location pair.
type IndeedAdapter struct {
	publisherID string
	pacer       *ratelimit.Pacer
	client      *http.Client
	logger      *slog.Logger
}

// NewIndeedAdapter creates an adapter using the given publisher ID.
func NewIndeedAdapter(publisherID string, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) *IndeedAdapter {
	return &IndeedAdapter{
		publisherID: publisherID,
		pacer:       pacer,
		client:      client,
		logger:      logger,
	}
}

func (a *IndeedAdapter) Name() string { return "indeed" }

// Fetch runs the keyword×location query grid and normalizes the results.
func (a *IndeedAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	if a.publisherID == "" {
		return nil, fmt.Errorf("indeed fetch: publisher ID not configured")
	}

	var jobs []model.Job
	for _, keyword := range q.Keywords {
		for _, location := range q.Locations {
			if err := a.pacer.Wait(ctx); err != nil {
				return jobs, err
			}

			page, err := a.search(ctx, keyword, location)
			if err != nil {
				if ctx.Err() != nil {
					return jobs, fmt.Errorf("indeed fetch: %w", ctx.Err())
				}
				a.logger.Debug("indeed query skipped", "keyword", keyword, "location", location, "error", err)
				continue
			}
			jobs = append(jobs, page...)
		}
	}

	return jobs, nil
}

func (a *IndeedAdapter) search(ctx context.Context, keyword, location string) ([]model.Job, error) {
	params := url.Values{}
	params.Set("publisher", a.publisherID)
	params.Set("q", keyword)
	params.Set("l", location)
	params.Set("limit", "50")
	params.Set("format", "json")
	params.Set("v", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indeedBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("indeed search %q: %w", keyword, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indeed search %q: %w", keyword, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("indeed search %q: unexpected status %d", keyword, resp.StatusCode),
		}
	}

	var inResp indeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&inResp); err != nil {
		return nil, fmt.Errorf("indeed search %q: %w", keyword, err)
	}

	jobs := make([]model.Job, 0, len(inResp.Results))
	for _, ij := range inResp.Results {
		externalID := ""
		if ij.JobKey != "" {
			externalID = "indeed_" + ij.JobKey
		}

		jobs = append(jobs, model.Job{
			ExternalID:  externalID,
			Source:      "indeed",
			Title:       ij.JobTitle,
			Company:     ij.Company,
			Location:    ij.FormattedLocation,
			Description: extractText(ij.Snippet),
			URL:         ij.URL,
			PostedDate:  parseTimeOrNow(ij.Date),
			Status:      model.StatusNew,
		})
	}

	return jobs, nil
}
