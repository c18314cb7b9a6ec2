package notifier

import (
	"log/slog"

	"jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes ranked matches to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs urgent matches at warn level and the rest at info, preserving
// rank order. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.Job, urgent []model.Job) error {
	for _, j := range urgent {
		n.logger.Warn("urgent match",
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"match_score", j.MatchScore,
			"url", j.URL,
		)
	}
	for _, j := range jobs {
		n.logger.Info("new match",
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"match_score", j.MatchScore,
			"location_score", j.LocationScore,
			"url", j.URL,
		)
	}
	return nil
}
