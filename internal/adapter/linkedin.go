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

const linkedinBaseURL = "https://api.linkedin.com/v2/jobs"

// linkedinJob represents a single element in the LinkedIn Jobs API response.
type linkedinJob struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	CompanyName    string `json:"companyName"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	URL            string `json:"url"`
	ListedAt       int64  `json:"listedAt"`
	EmploymentType string `json:"employmentType"`
}

// linkedinResponse is the top-level LinkedIn Jobs API response.
type linkedinResponse struct {
	Elements []linkedinJob `json:"elements"`
}

// LinkedInAdapter fetches jobs from the LinkedIn Jobs API, one request per
// keyword×location pair, serialized through its own pacer.
type LinkedInAdapter struct {
	apiKey string
	pacer  *ratelimit.Pacer
	client *http.Client
	logger *slog.Logger
}

// NewLinkedInAdapter creates an adapter using the given bearer token.
func NewLinkedInAdapter(apiKey string, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) *LinkedInAdapter {
	return &LinkedInAdapter{
		apiKey: apiKey,
		pacer:  pacer,
		client: client,
		logger: logger,
	}
}

func (a *LinkedInAdapter) Name() string { return "linkedin" }

// Fetch runs the keyword×location query grid and normalizes the results.
// Individual query failures are logged and skipped; the whole call fails only
// on cancellation.
func (a *LinkedInAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("linkedin fetch: api key not configured")
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
					return jobs, fmt.Errorf("linkedin fetch: %w", ctx.Err())
				}
				a.logger.Debug("linkedin query skipped", "keyword", keyword, "location", location, "error", err)
				continue
			}
			jobs = append(jobs, page...)
		}
	}

	return jobs, nil
}

func (a *LinkedInAdapter) search(ctx context.Context, keyword, location string) ([]model.Job, error) {
	params := url.Values{}
	params.Set("keywords", keyword)
	params.Set("location", location)
	params.Set("limit", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedinBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin search %q: %w", keyword, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin search %q: %w", keyword, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("linkedin search %q: unexpected status %d", keyword, resp.StatusCode),
		}
	}

	var liResp linkedinResponse
	if err := json.NewDecoder(resp.Body).Decode(&liResp); err != nil {
		return nil, fmt.Errorf("linkedin search %q: %w", keyword, err)
	}

	jobs := make([]model.Job, 0, len(liResp.Elements))
	for _, lj := range liResp.Elements {
		externalID := ""
		if lj.ID != 0 {
			externalID = fmt.Sprintf("linkedin_%d", lj.ID)
		}

		jobs = append(jobs, model.Job{
			ExternalID:  externalID,
			Source:      "linkedin",
			Title:       lj.Title,
			Company:     lj.CompanyName,
			Location:    lj.Location,
			Description: extractText(lj.Description),
			URL:         lj.URL,
			JobType:     lj.EmploymentType,
			PostedDate:  unixMilliOrNow(lj.ListedAt),
			Status:      model.StatusNew,
		})
	}

	return jobs, nil
}
