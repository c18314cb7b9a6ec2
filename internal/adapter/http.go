package adapter

import (
	"net/http"
	"strconv"
	"time"
)

// parseRetryAfter converts a Retry-After header into a wait duration. Both
// RFC 9110 forms are handled: delta-seconds ("120") and an HTTP-date. Absent
// or malformed values, negative deltas, and dates already in the past all
// yield zero.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
