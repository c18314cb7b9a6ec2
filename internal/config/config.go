package config

import (
	"fmt"
	"os"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"

	// keyringService is the service name used for secret fallback lookups.
	keyringService = "jobscout"
)

// Config is the root configuration for the jobscout pipeline.
type Config struct {
	Search       SearchConfig
	Fetch        FetchConfig
	Sources      SourcesConfig
	Filters      FilterConfig
	Scoring      ScoringConfig
	Profile      ProfileConfig
	Notification NotificationConfig
	Schedule     ScheduleConfig
	HTTP         HTTPConfig
	StorePath    string
}

// SearchConfig holds the query parameters handed to every source adapter.
type SearchConfig struct {
	Keywords  []string `yaml:"keywords"`
	Locations []string `yaml:"locations"`
}

// FetchConfig controls the fetch orchestrator.
type FetchConfig struct {
	GlobalDeadline time.Duration // soft deadline for the whole fetch phase
	DefaultTimeout time.Duration // per-source call timeout unless overridden
	DefaultDelay   time.Duration // per-source inter-request delay unless overridden
}

// SourceConfig is the per-source policy shared by all adapters.
type SourceConfig struct {
	Enabled  bool
	Timeout  time.Duration // zero means FetchConfig.DefaultTimeout
	MinDelay time.Duration // zero means FetchConfig.DefaultDelay
	Retries  int           // bounded retry attempts after the first failure

	// Source-specific settings; unused fields stay zero.
	APIKey          string       // linkedin bearer token, indeed publisher ID
	Boards          []string     // greenhouse/lever/ashby board slugs
	Feeds           []FeedConfig // rss
	Pages           []PageConfig // careers
	IMAPAddr        string       // emailalert
	IMAPUser        string
	IMAPPass        string
	Mailbox         string
	AlertSender     string
	DefaultLocation string // stamped on jobs whose source carries no location
}

// FeedConfig names one RSS/Atom feed to poll. Location is stamped on items
// that carry no location of their own; most job feeds are region-scoped.
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Location string `yaml:"location"`
}

// PageConfig describes one careers page and the CSS selectors that locate
// postings on it.
type PageConfig struct {
	Company          string `yaml:"company"`
	URL              string `yaml:"url"`
	JobSelector      string `yaml:"job_selector"`
	TitleSelector    string `yaml:"title_selector"`
	LocationSelector string `yaml:"location_selector"`
	LinkSelector     string `yaml:"link_selector"`
}

// SourcesConfig holds per-source policy keyed by adapter name.
type SourcesConfig map[string]SourceConfig

// FilterConfig holds the eligibility predicate data. All matching is
// case-insensitive substring containment; the filter package is a generic
// evaluator over these lists.
type FilterConfig struct {
	Location LocationRules
	Role     RoleRules
}

// LocationRules drives the location predicate and the tiered location score.
type LocationRules struct {
	AlwaysAccept     []string `yaml:"always_accept"`     // remote indicators, score 50
	PreferredAreas   []string `yaml:"preferred_areas"`   // most-preferred sub-area, score 100
	PreferredStreets []string `yaml:"preferred_streets"` // street tokens implying the preferred sub-area when paired with a primary/generic token
	PrimaryAreas     []string `yaml:"primary_areas"`     // broader acceptable area, score 80
	SecondaryAreas   []string `yaml:"secondary_areas"`   // second allowed region, score 60
	GenericTokens    []string `yaml:"generic_tokens"`    // city+state heuristics, score 75
	ExcludeTokens    []string `yaml:"exclude_tokens"`    // always override inclusion
}

// RoleRules drives the two-phase role predicate and the seniority ladder.
type RoleRules struct {
	RejectKeywords    []string `yaml:"reject_keywords"`
	FunctionKeyword   string   `yaml:"function_keyword"`
	QualifierKeywords []string `yaml:"qualifier_keywords"`
	MinSeniority      string   `yaml:"min_seniority"`
}

// ScoringConfig controls the LLM scoring collaborator.
type ScoringConfig struct {
	Enabled       bool
	BaseURL       string
	Model         string
	APIKey        string
	Timeout       time.Duration
	MinMatchScore float64
}

// ProfileConfig is the candidate profile fed into the scoring prompt.
type ProfileConfig struct {
	Name            string   `yaml:"name"`
	CurrentRole     string   `yaml:"current_role"`
	YearsExperience int      `yaml:"years_experience"`
	Skills          []string `yaml:"skills"`
	Industries      []string `yaml:"industries"`
	SalaryMin       int      `yaml:"salary_min"`
	Summary         string   `yaml:"summary"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type            string  `yaml:"type"`        // "log" or "slack"
	WebhookURL      string  `yaml:"webhook_url"` // required if type is "slack"
	UrgentThreshold float64 `yaml:"urgent_threshold"`
	UrgentLimit     int     `yaml:"urgent_limit"`
}

// ScheduleConfig lists the wall-clock run times for daemon mode ("HH:MM").
type ScheduleConfig struct {
	Times []string `yaml:"times"`
}

// HTTPConfig controls the optional read-only API served in daemon mode.
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// rawConfig is used for YAML unmarshaling (snake_case, durations as strings).
type rawConfig struct {
	Search       SearchConfig               `yaml:"search"`
	Fetch        rawFetchConfig             `yaml:"fetch"`
	Sources      map[string]rawSourceConfig `yaml:"sources"`
	Filters      FilterConfig               `yaml:"filters"`
	Scoring      rawScoringConfig           `yaml:"scoring"`
	Profile      ProfileConfig              `yaml:"profile"`
	Notification NotificationConfig         `yaml:"notification"`
	Schedule     ScheduleConfig             `yaml:"schedule"`
	HTTP         HTTPConfig                 `yaml:"http"`
	StorePath    string                     `yaml:"store_path"`
}

type rawFetchConfig struct {
	GlobalDeadline string `yaml:"global_deadline"`
	DefaultTimeout string `yaml:"default_timeout"`
	DefaultDelay   string `yaml:"default_delay"`
}

type rawSourceConfig struct {
	Enabled         bool         `yaml:"enabled"`
	Timeout         string       `yaml:"timeout"`
	MinDelay        string       `yaml:"min_delay"`
	Retries         int          `yaml:"retries"`
	APIKey          string       `yaml:"api_key"`
	Boards          []string     `yaml:"boards"`
	Feeds           []FeedConfig `yaml:"feeds"`
	Pages           []PageConfig `yaml:"pages"`
	IMAPAddr        string       `yaml:"imap_addr"`
	IMAPUser        string       `yaml:"imap_user"`
	IMAPPass        string       `yaml:"imap_pass"`
	Mailbox         string       `yaml:"mailbox"`
	AlertSender     string       `yaml:"alert_sender"`
	DefaultLocation string       `yaml:"default_location"`
}

type rawScoringConfig struct {
	Enabled       bool    `yaml:"enabled"`
	BaseURL       string  `yaml:"base_url"`
	Model         string  `yaml:"model"`
	APIKey        string  `yaml:"api_key"`
	Timeout       string  `yaml:"timeout"`
	MinMatchScore float64 `yaml:"min_match_score"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variables in the file are expanded before
// parsing; the scoring API key additionally falls back to the OS keyring.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	globalDeadline, err := parseDuration(raw.Fetch.GlobalDeadline, 4*time.Minute, "fetch.global_deadline")
	if err != nil {
		return nil, err
	}
	defaultTimeout, err := parseDuration(raw.Fetch.DefaultTimeout, 60*time.Second, "fetch.default_timeout")
	if err != nil {
		return nil, err
	}
	defaultDelay, err := parseDuration(raw.Fetch.DefaultDelay, 500*time.Millisecond, "fetch.default_delay")
	if err != nil {
		return nil, err
	}

	sources := make(SourcesConfig, len(raw.Sources))
	for name, rs := range raw.Sources {
		timeout, err := parseDuration(rs.Timeout, 0, fmt.Sprintf("sources.%s.timeout", name))
		if err != nil {
			return nil, err
		}
		minDelay, err := parseDuration(rs.MinDelay, 0, fmt.Sprintf("sources.%s.min_delay", name))
		if err != nil {
			return nil, err
		}
		sources[name] = SourceConfig{
			Enabled:         rs.Enabled,
			Timeout:         timeout,
			MinDelay:        minDelay,
			Retries:         rs.Retries,
			APIKey:          rs.APIKey,
			Boards:          rs.Boards,
			Feeds:           rs.Feeds,
			Pages:           rs.Pages,
			IMAPAddr:        rs.IMAPAddr,
			IMAPUser:        rs.IMAPUser,
			IMAPPass:        rs.IMAPPass,
			Mailbox:         rs.Mailbox,
			AlertSender:     rs.AlertSender,
			DefaultLocation: rs.DefaultLocation,
		}
	}

	scoringTimeout, err := parseDuration(raw.Scoring.Timeout, 30*time.Second, "scoring.timeout")
	if err != nil {
		return nil, err
	}

	scoringBaseURL := raw.Scoring.BaseURL
	if scoringBaseURL == "" {
		scoringBaseURL = defaultOpenAIBaseURL
	}

	scoringKey := raw.Scoring.APIKey
	if scoringKey == "" && raw.Scoring.Enabled {
		// Best effort: the key may live in the OS keyring instead of env/file.
		if k, err := keyring.Get(keyringService, "openai_api_key"); err == nil {
			scoringKey = k
		}
	}

	minScore := raw.Scoring.MinMatchScore
	if minScore == 0 {
		minScore = 70
	}

	storePath := raw.StorePath
	if storePath == "" {
		storePath = "jobs.db"
	}

	cfg := &Config{
		Search: raw.Search,
		Fetch: FetchConfig{
			GlobalDeadline: globalDeadline,
			DefaultTimeout: defaultTimeout,
			DefaultDelay:   defaultDelay,
		},
		Sources: sources,
		Filters: applyFilterDefaults(raw.Filters),
		Scoring: ScoringConfig{
			Enabled:       raw.Scoring.Enabled,
			BaseURL:       scoringBaseURL,
			Model:         raw.Scoring.Model,
			APIKey:        scoringKey,
			Timeout:       scoringTimeout,
			MinMatchScore: minScore,
		},
		Profile:      raw.Profile,
		Notification: raw.Notification,
		Schedule:     raw.Schedule,
		HTTP:         raw.HTTP,
		StorePath:    storePath,
	}

	if cfg.Notification.UrgentThreshold == 0 {
		cfg.Notification.UrgentThreshold = 85
	}
	if cfg.Notification.UrgentLimit == 0 {
		cfg.Notification.UrgentLimit = 3
	}
	if len(cfg.Schedule.Times) == 0 {
		cfg.Schedule.Times = []string{"08:00", "18:00"}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseDuration parses s, returning def when s is empty.
func parseDuration(s string, def time.Duration, field string) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if len(cfg.Search.Keywords) == 0 {
		return fmt.Errorf("search.keywords must not be empty")
	}

	enabled := 0
	for _, s := range cfg.Sources {
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if cfg.Fetch.GlobalDeadline <= 0 {
		return fmt.Errorf("fetch.global_deadline must be positive, got %v", cfg.Fetch.GlobalDeadline)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		const prefix = "https://hooks.slack.com/"
		if len(cfg.Notification.WebhookURL) < len(prefix) || cfg.Notification.WebhookURL[:len(prefix)] != prefix {
			return fmt.Errorf("notification.webhook_url must start with %s", prefix)
		}
	}

	if cfg.Scoring.Enabled {
		if cfg.Scoring.APIKey == "" {
			return fmt.Errorf("scoring.api_key is required when scoring.enabled is true (env, config, or keyring)")
		}
		if cfg.Scoring.Model == "" {
			return fmt.Errorf("scoring.model is required when scoring.enabled is true")
		}
	}

	if cfg.Scoring.MinMatchScore < 0 || cfg.Scoring.MinMatchScore > 100 {
		return fmt.Errorf("scoring.min_match_score must be within 0–100, got %v", cfg.Scoring.MinMatchScore)
	}

	for _, t := range cfg.Schedule.Times {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("parse schedule.times entry %q: %w", t, err)
		}
	}

	if cfg.Filters.Role.FunctionKeyword == "" {
		return fmt.Errorf("filters.role.function_keyword must not be empty")
	}

	return nil
}
