package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// MissingInputError is returned before any request is made when a
// required parameter is empty.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// RateLimitInfo is taken from the X-RateLimit-* response headers.
type RateLimitInfo struct {
	Remaining int
	Limit     int
	Reset     time.Time
}

// UpstreamError is a non-2xx response from the search endpoint.
type UpstreamError struct {
	Page       int
	StatusCode int
	Status     string
	Message    string
	RateLimit  *RateLimitInfo
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("failed to fetch pull requests: %s", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RateLimit != nil && e.RateLimit.Remaining == 0 && !e.RateLimit.Reset.IsZero() {
		msg += fmt.Sprintf(" (rate limit resets at %s)", e.RateLimit.Reset.Format(time.RFC3339))
	}
	return msg
}

// PartialResultError reports that paging stopped early. The pull requests
// fetched before the failure are returned alongside it.
type PartialResultError struct {
	Fetched int
	Pages   int
	Err     error
}

func (e *PartialResultError) Error() string {
	return fmt.Sprintf("partial results: kept %d pull requests from %d page(s): %v", e.Fetched, e.Pages, e.Err)
}

func (e *PartialResultError) Unwrap() error {
	return e.Err
}

// IsPartial reports whether err carries partial results.
func IsPartial(err error) bool {
	var partial *PartialResultError
	return errors.As(err, &partial)
}

// IsMissingInput reports whether err is a *MissingInputError.
func IsMissingInput(err error) bool {
	var missing *MissingInputError
	return errors.As(err, &missing)
}

const maxErrorBody = 64 << 10

func newUpstreamError(resp *http.Response, page int) *UpstreamError {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	upstream := &UpstreamError{
		Page:       page,
		StatusCode: resp.StatusCode,
		Status:     status,
	}

	var body struct {
		Message string `json:"message"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		if json.Unmarshal(data, &body) == nil {
			upstream.Message = body.Message
		}
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		upstream.RateLimit = extractRateLimitInfo(resp)
	}

	return upstream
}

func extractRateLimitInfo(resp *http.Response) *RateLimitInfo {
	remainingStr := resp.Header.Get("X-RateLimit-Remaining")
	if remainingStr == "" {
		return nil
	}

	info := &RateLimitInfo{}
	if remaining, err := strconv.Atoi(remainingStr); err == nil {
		info.Remaining = remaining
	}
	if limit, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit")); err == nil {
		info.Limit = limit
	}
	if resetUnix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		info.Reset = time.Unix(resetUnix, 0).UTC()
	}
	return info
}
