package adapter

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime/quotedprintable"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"jobscout/internal/config"
	"jobscout/internal/model"
)

const maxAlertMessages = 50

var jobViewLinkRegex = regexp.MustCompile(`linkedin\.com/jobs/view/(\d+)`)

// EmailAlertAdapter reads unseen job-alert emails over IMAP and extracts the
// postings they link to. Messages are fetched with BODY.PEEK so the mailbox
// is left untouched.
type EmailAlertAdapter struct {
	cfg    config.SourceConfig
	logger *slog.Logger

	// dial is swapped in tests.
	dial func(ctx context.Context) (alertMailbox, error)
}

// alertMailbox is the slice of IMAP the adapter needs.
type alertMailbox interface {
	UnseenFrom(ctx context.Context, sender string, max int) ([]alertMessage, error)
	Close() error
}

// alertMessage is one fetched alert email.
type alertMessage struct {
	Subject string
	Date    time.Time
	Body    []byte
}

// NewEmailAlertAdapter creates an adapter over the configured mailbox.
func NewEmailAlertAdapter(cfg config.SourceConfig, logger *slog.Logger) *EmailAlertAdapter {
	a := &EmailAlertAdapter{cfg: cfg, logger: logger}
	a.dial = a.dialIMAP
	return a
}

func (a *EmailAlertAdapter) Name() string { return "emailalert" }

// Fetch opens the mailbox, reads unseen alerts from the configured sender,
// and extracts job postings from each message body.
func (a *EmailAlertAdapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	if a.cfg.IMAPAddr == "" || a.cfg.IMAPUser == "" || a.cfg.IMAPPass == "" {
		return nil, fmt.Errorf("emailalert fetch: imap credentials not configured")
	}

	mbox, err := a.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("emailalert fetch: %w", err)
	}
	defer mbox.Close()

	msgs, err := mbox.UnseenFrom(ctx, a.cfg.AlertSender, maxAlertMessages)
	if err != nil {
		return nil, fmt.Errorf("emailalert fetch: %w", err)
	}

	var jobs []model.Job
	for _, msg := range msgs {
		extracted := extractAlertJobs(msg, q.Keywords, a.cfg.DefaultLocation)
		if len(extracted) == 0 {
			a.logger.Debug("alert email had no postings", "subject", msg.Subject)
			continue
		}
		jobs = append(jobs, extracted...)
	}

	return jobs, nil
}

// extractAlertJobs parses one alert email body and returns the postings it
// links to. Alert emails are HTML with anchors pointing at job-view URLs; the
// anchor text carries title, company, and usually a location. Jobs whose
// anchor has no location get defaultLocation.
func extractAlertJobs(msg alertMessage, keywords []string, defaultLocation string) []model.Job {
	body := decodeQuotedPrintable(msg.Body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	posted := msg.Date
	if posted.IsZero() {
		posted = time.Now().UTC()
	}

	seen := make(map[string]struct{})
	var jobs []model.Job
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := jobViewLinkRegex.FindStringSubmatch(href)
		if m == nil {
			return
		}
		jobID := m[1]
		if _, dup := seen[jobID]; dup {
			return
		}

		title, company, location := splitAnchorText(s.Text())
		if title == "" || !matchesKeywords(title, keywords) {
			return
		}
		seen[jobID] = struct{}{}

		if location == "" {
			location = defaultLocation
		}
		if location == "" {
			location = locationHint(title)
		}

		jobs = append(jobs, model.Job{
			ExternalID: "linkedin_" + jobID,
			Source:     "emailalert",
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        "https://www.linkedin.com/jobs/view/" + jobID,
			PostedDate: posted,
			Status:     model.StatusNew,
		})
	})

	return jobs
}

// decodeQuotedPrintable undoes quoted-printable transfer encoding. Alert
// bodies arrive with soft line breaks splitting URLs mid-token, so decoding
// has to happen before link extraction. Non-QP bodies pass through unchanged.
func decodeQuotedPrintable(raw []byte) string {
	var b strings.Builder
	r := quotedprintable.NewReader(strings.NewReader(string(raw)))
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		b.Write(buf[:n])
		if err != nil {
			break
		}
	}
	if b.Len() == 0 {
		return string(raw)
	}
	return b.String()
}

// splitAnchorText separates "Title · Company · Location" (or "Title - Company")
// anchor text into its parts. Plain anchor text becomes the title alone.
func splitAnchorText(raw string) (title, company, location string) {
	text := strings.Join(strings.Fields(raw), " ")
	for _, sep := range []string{" · ", " - "} {
		parts := strings.Split(text, sep)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		title = strings.TrimSpace(parts[0])
		company = strings.TrimSpace(parts[1])
		if len(parts) > 2 {
			location = strings.TrimSpace(strings.Join(parts[2:], sep))
		}
		return title, company, location
	}
	return text, "", ""
}

// imapMailbox adapts imapclient to the alertMailbox interface.
type imapMailbox struct {
	client *imapclient.Client
}

func (a *EmailAlertAdapter) dialIMAP(ctx context.Context) (alertMailbox, error) {
	host := a.cfg.IMAPAddr
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}

	c, err := imapclient.DialTLS(a.cfg.IMAPAddr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(a.cfg.IMAPUser, a.cfg.IMAPPass).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}

	mailbox := a.cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	return &imapMailbox{client: c}, nil
}

func (m *imapMailbox) Close() error {
	if err := m.client.Logout().Wait(); err != nil {
		_ = m.client.Close()
		return err
	}
	return m.client.Close()
}

// UnseenFrom fetches up to max unseen messages from the given sender, newest
// first, reading the full body with BODY.PEEK.
func (m *imapMailbox) UnseenFrom(ctx context.Context, sender string, max int) ([]alertMessage, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -1, 0),
	}
	if sender != "" {
		criteria.Header = []imap.SearchCriteriaHeaderField{{Key: "From", Value: sender}}
	}

	searchData, err := m.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodySection := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := m.client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	var msgs []alertMessage
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch: %w", err)
		}

		var msg alertMessage
		if buf.Envelope != nil {
			msg.Subject = buf.Envelope.Subject
			msg.Date = buf.Envelope.Date
		}
		if b := buf.FindBodySection(bodySection); b != nil {
			msg.Body = append([]byte(nil), b...)
		}
		msgs = append(msgs, msg)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return msgs, nil
}
