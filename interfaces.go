package main

import (
	"context"

	"github.com/leonardo-bento/githubprs/github"
)

// PullRequestFetcher defines the retrieval operation the front ends need.
type PullRequestFetcher interface {
	FetchOpenPullRequests(ctx context.Context, params github.QueryParameters) ([]github.PullRequest, error)
}

// Notifier delivers a rendered result somewhere other than stdout.
type Notifier interface {
	Notify(ctx context.Context, channel string, result *Result) error
}
