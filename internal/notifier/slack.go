package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobscout/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends job digests to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each job to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends one message per job, urgent matches first with a distinct
// header. Returns an error only if ALL messages fail; individual failures
// are logged.
func (s *SlackNotifier) Notify(jobs []model.Job, urgent []model.Job) error {
	total := len(urgent) + len(jobs)
	if total == 0 {
		return nil
	}

	urgentIDs := make(map[string]struct{}, len(urgent))
	for _, j := range urgent {
		urgentIDs[j.ExternalID] = struct{}{}
	}

	failures := 0
	sent := 0
	send := func(j model.Job, isUrgent bool) {
		if sent+failures > 0 {
			time.Sleep(500 * time.Millisecond)
		}
		if err := s.sendMessage(j, isUrgent); err != nil {
			s.logger.Error("slack notification failed", "company", j.Company, "title", j.Title, "error", err)
			failures++
			return
		}
		sent++
	}

	for _, j := range urgent {
		send(j, true)
	}
	for _, j := range jobs {
		// Urgent matches already went out with the urgent header.
		if _, dup := urgentIDs[j.ExternalID]; dup {
			continue
		}
		send(j, false)
	}

	if sent == 0 && failures > 0 {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(j model.Job, urgent bool) error {
	payload := buildPayload(j, urgent)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a dummy job notification to verify the integration
// works.
func SendTestMessage(n model.Notifier) error {
	testJob := model.Job{
		ExternalID:    "test-001",
		Source:        "test",
		Company:       "JobScout Test",
		Title:         "Test Notification — Integration Verified",
		Location:      "Everywhere",
		URL:           "https://example.com/jobs",
		PostedDate:    time.Now(),
		MatchScore:    100,
		LocationScore: 100,
	}
	return n.Notify([]model.Job{testJob}, nil)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildPayload(j model.Job, urgent bool) slackPayload {
	company := capitalize(j.Company)
	source := capitalize(j.Source)

	header := "💼 " + company + ": " + j.Title
	if urgent {
		header = "🔥 Urgent: " + company + ": " + j.Title
	}

	scoreText := fmt.Sprintf("%.0f / 100", j.MatchScore)

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: header},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + company},
				{Type: "mrkdwn", Text: "*Location:*\n" + j.Location},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Match Score:*\n" + scoreText},
				{Type: "mrkdwn", Text: "*Source:*\n" + source},
			},
		},
	}

	if j.MatchReasoning != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "_" + j.MatchReasoning + "_"},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Apply Now"},
					URL:   j.URL,
					Style: "primary",
				},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}
