package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/leonardo-bento/githubprs/github"
	"github.com/leonardo-bento/githubprs/github/search"
)

// Result represents the output of one retrieval.
type Result struct {
	Organization string               `json:"organization" yaml:"organization"`
	Authors      []string             `json:"authors" yaml:"authors"`
	Since        search.Date          `json:"since" yaml:"since"`
	Count        int                  `json:"count" yaml:"count"`
	PullRequests []github.PullRequest `json:"pull_requests" yaml:"pull_requests"`
	Warning      string               `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Empty reports whether no pull request matched.
func (r *Result) Empty() bool {
	return len(r.PullRequests) == 0
}

// Run executes one retrieval and returns structured data. Partial results
// are not an error here: they come back with Warning set.
func Run(ctx context.Context, fetcher PullRequestFetcher, params github.QueryParameters) (*Result, error) {
	prs, err := fetcher.FetchOpenPullRequests(ctx, params)

	result := &Result{
		Organization: params.Organization,
		Authors:      params.Authors,
		Since:        params.Since,
		PullRequests: prs,
	}

	if err != nil {
		if !github.IsPartial(err) {
			return nil, errors.Wrap(err, "failed to fetch PRs")
		}
		result.Warning = err.Error()
	}

	if result.PullRequests == nil {
		result.PullRequests = []github.PullRequest{}
	}
	result.Count = len(result.PullRequests)

	return result, nil
}
