package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"jobscout/internal/model"
	"jobscout/internal/ratelimit"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever job.
type leverCategories struct {
	Team         string   `json:"team"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverJob represents a single job in the Lever API response.
type leverJob struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	DescriptionPlain string          `json:"descriptionPlain"`
	Categories       leverCategories `json:"categories"`
	CreatedAt        int64           `json:"createdAt"`
	HostedURL        string          `json:"hostedUrl"`
}

// LeverAdapter fetches jobs from the Lever public postings API, one request
// per tracked board.
type LeverAdapter struct {
	boards []string
	pacer  *ratelimit.Pacer
	client *http.Client
	logger *slog.Logger
}

// NewLeverAdapter creates an adapter over the given board slugs.
func NewLeverAdapter(boards []string, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) *LeverAdapter {
	return &LeverAdapter{
		boards: boards,
		pacer:  pacer,
		client: client,
		logger: logger,
	}
}

func (a *LeverAdapter) Name() string { return "lever" }

// Fetch retrieves jobs from every tracked board and normalizes them into the
// canonical Job shape.
func (a *LeverAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	var jobs []model.Job

	for _, board := range a.boards {
		if err := a.pacer.Wait(ctx); err != nil {
			return jobs, err
		}

		boardJobs, err := a.fetchBoard(ctx, board, q.Keywords)
		if err != nil {
			if ctx.Err() != nil {
				return jobs, fmt.Errorf("lever fetch: %w", ctx.Err())
			}
			a.logger.Debug("lever board skipped", "board", board, "error", err)
			continue
		}
		jobs = append(jobs, boardJobs...)
	}

	return jobs, nil
}

func (a *LeverAdapter) fetchBoard(ctx context.Context, board string, keywords []string) ([]model.Job, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, board)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", board, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", board, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("lever fetch for %s: unexpected status %d", board, resp.StatusCode),
		}
	}

	var leverJobs []leverJob
	if err := json.NewDecoder(resp.Body).Decode(&leverJobs); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", board, err)
	}

	jobs := make([]model.Job, 0, len(leverJobs))
	for _, lj := range leverJobs {
		if !matchesKeywords(lj.Text+" "+lj.DescriptionPlain, keywords) {
			continue
		}

		// Prefer allLocations when present; fall back to the single location.
		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, ", ")
		}

		jobs = append(jobs, model.Job{
			ExternalID:  "lever_" + lj.ID,
			Source:      "lever",
			Title:       lj.Text,
			Company:     board,
			Location:    location,
			Description: lj.DescriptionPlain,
			URL:         lj.HostedURL,
			JobType:     lj.Categories.Commitment,
			PostedDate:  unixMilliOrNow(lj.CreatedAt),
			Status:      model.StatusNew,
		})
	}

	return jobs, nil
}
