package adapter

import (
	"html"
	"regexp"
	"strings"
	"time"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles Greenhouse's double-encoding;
// no-op on already-real HTML), strips all tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// matchesKeywords reports whether any keyword appears in the combined job
// text, case-insensitively. An empty keyword list matches everything.
func matchesKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// remoteTokens are the work-arrangement phrases scanned for when a source
// carries no structured location field.
var remoteTokens = []string{
	"remote", "work from home", "wfh", "anywhere", "distributed",
}

// locationHint returns "Remote" when any remote-family token appears in the
// given texts, otherwise "". Sources without a location field use this so
// remote postings still carry an acceptable location downstream.
func locationHint(texts ...string) string {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, tok := range remoteTokens {
			if strings.Contains(lower, tok) {
				return "Remote"
			}
		}
	}
	return ""
}

// timeLayouts are tried in order when a source gives a string timestamp.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimeOrNow parses a source timestamp, falling back to the current time.
// A bad timestamp never fails the record.
func parseTimeOrNow(s string) time.Time {
	if s != "" {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Now().UTC()
}

// unixMilliOrNow converts a Unix-milliseconds timestamp, falling back to the
// current time for zero/negative values.
func unixMilliOrNow(ms int64) time.Time {
	if ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Now().UTC()
}
