package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/config"
	"jobscout/internal/model"
	"jobscout/internal/ratelimit"
)

// CareersAdapter scrapes company careers pages using per-page CSS selectors.
type CareersAdapter struct {
	pages  []config.PageConfig
	pacer  *ratelimit.Pacer
	client *http.Client
	logger *slog.Logger
}

// NewCareersAdapter creates an adapter over the given page configurations.
func NewCareersAdapter(pages []config.PageConfig, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) *CareersAdapter {
	return &CareersAdapter{
		pages:  pages,
		pacer:  pacer,
		client: client,
		logger: logger,
	}
}

func (a *CareersAdapter) Name() string { return "careers" }

// Fetch scrapes every configured page. Pages that fail to load or parse are
// logged and skipped; selector misses on individual postings drop only that
// posting.
func (a *CareersAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	var jobs []model.Job

	for _, page := range a.pages {
		if err := a.pacer.Wait(ctx); err != nil {
			return jobs, err
		}

		pageJobs, err := a.scrapePage(ctx, page, q.Keywords)
		if err != nil {
			if ctx.Err() != nil {
				return jobs, fmt.Errorf("careers fetch: %w", ctx.Err())
			}
			a.logger.Debug("careers page skipped", "company", page.Company, "error", err)
			continue
		}
		jobs = append(jobs, pageJobs...)
	}

	return jobs, nil
}

func (a *CareersAdapter) scrapePage(ctx context.Context, page config.PageConfig, keywords []string) ([]model.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("careers fetch for %s: %w", page.Company, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("careers fetch for %s: %w", page.Company, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("careers fetch for %s: unexpected status %d", page.Company, resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("careers parse for %s: %w", page.Company, err)
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, fmt.Errorf("careers fetch for %s: %w", page.Company, err)
	}

	var jobs []model.Job
	doc.Find(page.JobSelector).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(page.TitleSelector).First().Text())
		if title == "" {
			return
		}
		if !matchesKeywords(title, keywords) {
			return
		}

		location := strings.TrimSpace(s.Find(page.LocationSelector).First().Text())

		link := absoluteLink(s, page.LinkSelector, base)
		externalID := ""
		if link != "" {
			externalID = "careers_" + link
		}

		jobs = append(jobs, model.Job{
			ExternalID: externalID,
			Source:     "careers",
			Title:      title,
			Company:    page.Company,
			Location:   location,
			URL:        link,
			PostedDate: time.Now().UTC(),
			Status:     model.StatusNew,
		})
	})

	return jobs, nil
}

// absoluteLink resolves the posting link against the page URL. The link
// selector may match the posting element itself (when it is an <a>) or a
// descendant.
func absoluteLink(s *goquery.Selection, selector string, base *url.URL) string {
	href, ok := s.Find(selector).First().Attr("href")
	if !ok {
		href, ok = s.Attr("href")
	}
	if !ok || href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
