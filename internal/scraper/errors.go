package scraper

import (
	"errors"
	"fmt"
)

// SkipReason explains why a fetched detail page produced no record. Skips are
// soft: the page is logged and counted, the run continues.
type SkipReason string

// Skip reasons reported in the run summary.
const (
	SkipNoTitle SkipReason = "no_title"
)

// SkipError wraps a SkipReason as an error so the extractor keeps Go's
// (value, error) contract while callers can still branch on the reason.
type SkipError struct {
	Reason SkipReason
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("extraction skipped: %s", e.Reason)
}

// AsSkip returns the skip reason carried by err, if any.
func AsSkip(err error) (SkipReason, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip.Reason, true
	}
	return "", false
}

// HTTPError marks a fetch that completed with a non-success status code.
// 5xx and 429 are treated as transient by the retry policy; everything else
// is permanent for that URL.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
}

// Transient reports whether the status is worth retrying.
func (e *HTTPError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
