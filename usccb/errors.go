package usccb

import (
	"fmt"
	"net/http"
	"time"
)

// FetchError reports a transport-level failure while retrieving a page.
// The client never retries internally; callers decide whether the status
// is worth retrying. A not-found response is usually not surfaced as a
// FetchError at all, since absent pages resolve to "no mass" results.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the failure was the page simply not existing,
// as opposed to a genuine transport or server failure.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

// ExtractionError reports a page that contained none of the recognized
// reading landmarks. This signals a markup or layout change upstream, not
// a missing optional reading.
type ExtractionError struct {
	URL string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: no recognized reading sections in page", e.URL)
}

// InvalidRangeError reports a date-range query with a non-positive step.
// It is returned before any fetch occurs.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range (%s .. %s, step %s)",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"), e.Step)
}
