package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"jobscout/internal/model"
	"jobscout/internal/ratelimit"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby API response.
type ashbyJob struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	DescriptionRaw string `json:"descriptionHtml"`
	JobURL         string `json:"jobUrl"`
	EmploymentType string `json:"employmentType"`
	PublishedAt    string `json:"publishedAt"`
	IsListed       bool   `json:"isListed"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// AshbyAdapter fetches jobs from the Ashby public job board API, one request
// per tracked board.
type AshbyAdapter struct {
	boards []string
	pacer  *ratelimit.Pacer
	client *http.Client
	logger *slog.Logger
}

// NewAshbyAdapter creates an adapter over the given board tokens.
func NewAshbyAdapter(boards []string, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) *AshbyAdapter {
	return &AshbyAdapter{
		boards: boards,
		pacer:  pacer,
		client: client,
		logger: logger,
	}
}

func (a *AshbyAdapter) Name() string { return "ashby" }

// Fetch retrieves jobs from every tracked board. Unlisted postings are
// dropped before normalization.
func (a *AshbyAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	var jobs []model.Job

	for _, board := range a.boards {
		if err := a.pacer.Wait(ctx); err != nil {
			return jobs, err
		}

		boardJobs, err := a.fetchBoard(ctx, board, q.Keywords)
		if err != nil {
			if ctx.Err() != nil {
				return jobs, fmt.Errorf("ashby fetch: %w", ctx.Err())
			}
			a.logger.Debug("ashby board skipped", "board", board, "error", err)
			continue
		}
		jobs = append(jobs, boardJobs...)
	}

	return jobs, nil
}

func (a *AshbyAdapter) fetchBoard(ctx context.Context, board string, keywords []string) ([]model.Job, error) {
	url := fmt.Sprintf("%s/%s?includeCompensation=true", ashbyBaseURL, board)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", board, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", board, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("ashby fetch for %s: unexpected status %d", board, resp.StatusCode),
		}
	}

	var ashbyResp ashbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&ashbyResp); err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", board, err)
	}

	jobs := make([]model.Job, 0, len(ashbyResp.Jobs))
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}

		description := extractText(aj.DescriptionRaw)
		if !matchesKeywords(aj.Title+" "+description, keywords) {
			continue
		}

		externalID := ""
		if aj.ID != "" {
			externalID = "ashby_" + aj.ID
		}

		jobs = append(jobs, model.Job{
			ExternalID:  externalID,
			Source:      "ashby",
			Title:       aj.Title,
			Company:     board,
			Location:    aj.Location,
			Description: description,
			URL:         aj.JobURL,
			JobType:     aj.EmploymentType,
			PostedDate:  parseTimeOrNow(aj.PublishedAt),
			Status:      model.StatusNew,
		})
	}

	return jobs, nil
}
