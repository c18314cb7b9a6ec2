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

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	Content     string             `json:"content"`
	AbsoluteURL string             `json:"absolute_url"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseAdapter fetches jobs from the Greenhouse public boards API,
// one request per tracked board, paced by its own limiter.
type GreenhouseAdapter struct {
	boards []string
	pacer  *ratelimit.Pacer
	client *http.Client
	logger *slog.Logger
}

// NewGreenhouseAdapter creates an adapter over the given board slugs.
func NewGreenhouseAdapter(boards []string, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		boards: boards,
		pacer:  pacer,
		client: client,
		logger: logger,
	}
}

func (a *GreenhouseAdapter) Name() string { return "greenhouse" }

// Fetch retrieves jobs from every tracked board and normalizes them into the
// canonical Job shape. Boards without a public board (404 and friends) are
// skipped with a debug log; the error return is reserved for total failure
// such as context cancellation.
func (a *GreenhouseAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	var jobs []model.Job

	for _, board := range a.boards {
		if err := a.pacer.Wait(ctx); err != nil {
			return jobs, err
		}

		boardJobs, err := a.fetchBoard(ctx, board, q.Keywords)
		if err != nil {
			if ctx.Err() != nil {
				return jobs, fmt.Errorf("greenhouse fetch: %w", ctx.Err())
			}
			// Companies without a public board are expected; keep going.
			a.logger.Debug("greenhouse board skipped", "board", board, "error", err)
			continue
		}
		jobs = append(jobs, boardJobs...)
	}

	return jobs, nil
}

func (a *GreenhouseAdapter) fetchBoard(ctx context.Context, board string, keywords []string) ([]model.Job, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, board)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", board, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", board, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("greenhouse fetch for %s: unexpected status %d", board, resp.StatusCode),
		}
	}

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", board, err)
	}

	jobs := make([]model.Job, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		description := extractText(gj.Content)
		if !matchesKeywords(gj.Title+" "+description, keywords) {
			continue
		}

		jobs = append(jobs, model.Job{
			ExternalID:  fmt.Sprintf("greenhouse_%d", gj.ID),
			Source:      "greenhouse",
			Title:       gj.Title,
			Company:     board,
			Location:    gj.Location.Name,
			Description: description,
			URL:         gj.AbsoluteURL,
			PostedDate:  parseTimeOrNow(gj.UpdatedAt),
			Status:      model.StatusNew,
		})
	}

	return jobs, nil
}
