// Package github retrieves open pull requests from the GitHub issue
// search endpoint.
package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cli/go-gh"
	"github.com/cli/go-gh/pkg/api"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/leonardo-bento/githubprs/github/search"
)

const (
	// DefaultHost is the public GitHub host.
	DefaultHost = "github.com"

	// PageSize is the largest page the search endpoint serves.
	PageSize = 100

	// searchResultCap is the most results the search endpoint returns for
	// one query; page 11 at 100 per page is rejected.
	searchResultCap = 1000

	searchPath = "search/issues"
)

// Observer is told about every page request. status is 0 when no HTTP
// response was received.
type Observer interface {
	ObservePage(status int, items int, elapsed time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHost targets a GitHub Enterprise Server host instead of github.com.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" {
			c.host = host
		}
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithTimeout bounds each page request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for page-level debug output and
// malformed item warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithObserver registers a page observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// Client fetches pull requests. It holds no per-call state and is safe
// for concurrent use.
type Client struct {
	host      string
	transport http.RoundTripper
	timeout   time.Duration
	log       logrus.FieldLogger
	observer  Observer
}

// NewClient returns a Client for github.com unless WithHost says otherwise.
func NewClient(opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		host: DefaultHost,
		log:  discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the GitHub host the client talks to.
func (c *Client) Host() string {
	return c.host
}

// FetchOpenPullRequests pages through the search results for params and
// returns every pull request in the order GitHub returned them. Pages are
// requested one at a time, 100 items each, until a short page is seen.
//
// A failure on the first page returns a nil slice and the error. A failure
// on a later page, or cancellation of ctx between pages, returns what was
// already fetched together with a *PartialResultError.
func (c *Client) FetchOpenPullRequests(ctx context.Context, params QueryParameters) ([]PullRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	httpClient, err := gh.HTTPClient(&api.ClientOptions{
		Host:      c.host,
		AuthToken: params.Token,
		Transport: c.transport,
		Timeout:   c.timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GitHub HTTP client")
	}

	query := search.OpenPullRequests(params.Organization, params.Authors, params.Since).Build()
	headers := BuildAuthHeaders(params.Token)
	log := c.log.WithFields(logrus.Fields{
		"org":     params.Organization,
		"authors": len(params.Authors),
		"since":   params.Since.String(),
	})

	prs := make([]PullRequest, 0)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return c.abort(prs, page, errors.Wrap(err, "search cancelled"))
		}

		items, err := c.fetchPage(ctx, httpClient, headers, query, page)
		if err != nil {
			return c.abort(prs, page, err)
		}

		for _, item := range items {
			pr, err := item.toPullRequest()
			if err != nil {
				log.WithError(err).WithField("page", page).Warn("Skipping malformed search item")
				continue
			}
			prs = append(prs, pr)
		}

		log.WithFields(logrus.Fields{
			"page":  page,
			"items": len(items),
			"total": len(prs),
		}).Debug("Fetched search page")

		if len(items) < PageSize || page*PageSize >= searchResultCap {
			break
		}
	}

	return prs, nil
}

// abort decides between a hard failure and a partial result.
func (c *Client) abort(prs []PullRequest, page int, err error) ([]PullRequest, error) {
	if page == 1 {
		return nil, err
	}
	return prs, &PartialResultError{
		Fetched: len(prs),
		Pages:   page - 1,
		Err:     err,
	}
}

func (c *Client) fetchPage(ctx context.Context, httpClient *http.Client, headers map[string]string, query string, page int) ([]searchItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build search request")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(PageSize))
	params.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = params.Encode()

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		c.observe(0, 0, time.Since(start))
		return nil, errors.Wrapf(err, "search request for page %d failed", page)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(resp.StatusCode, 0, time.Since(start))
		return nil, newUpstreamError(resp, page)
	}

	var body searchPage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.observe(resp.StatusCode, 0, time.Since(start))
		return nil, errors.Wrapf(err, "failed to decode search page %d", page)
	}

	c.observe(resp.StatusCode, len(body.Items), time.Since(start))
	return body.Items, nil
}

func (c *Client) observe(status, items int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObservePage(status, items, elapsed)
	}
}

// searchURL returns the REST search endpoint for the client's host.
func (c *Client) searchURL() string {
	if c.host == DefaultHost {
		return "https://api.github.com/" + searchPath
	}
	return "https://" + c.host + "/api/v3/" + searchPath
}
