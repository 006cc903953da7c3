package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// State is the lifecycle state of a pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// User is a pull request author.
type User struct {
	Login string `json:"login" yaml:"login"`
	URL   string `json:"html_url" yaml:"html_url"`
}

// PullRequest is one search result. Values are never modified after
// they are returned.
type PullRequest struct {
	ID            int64     `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	URL           string    `json:"html_url" yaml:"html_url"`
	RepositoryURL string    `json:"repository_url" yaml:"repository_url"`
	Author        User      `json:"user" yaml:"user"`
	State         State     `json:"state" yaml:"state"`
	CreatedAt     string    `json:"created_at" yaml:"created_at"`
	Created       time.Time `json:"-" yaml:"-"`
}

// Repository returns "owner/name" taken from the repository API URL,
// e.g. https://api.github.com/repos/owner/name.
func (pr PullRequest) Repository() string {
	parts := strings.Split(strings.TrimSuffix(pr.RepositoryURL, "/"), "/")
	for i, part := range parts {
		if part == "repos" && i+2 < len(parts) {
			return parts[i+1] + "/" + parts[i+2]
		}
	}
	return parts[len(parts)-1]
}

// RepositoryName returns the repository name without its owner.
func (pr PullRequest) RepositoryName() string {
	repo := pr.Repository()
	return repo[strings.LastIndex(repo, "/")+1:]
}

// Age returns how long before now the pull request was opened, in a
// compact form: 45s, 12m, 3h5m, 4d.
func (pr PullRequest) Age(now time.Time) string {
	if pr.Created.IsZero() {
		return "unknown"
	}

	age := now.Sub(pr.Created)
	if age < 0 {
		age = 0
	}
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh%dm", int(age.Hours()), int(age.Minutes())%60)
	default:
		return fmt.Sprintf("%dd", int(age.Hours()/24))
	}
}

// searchPage matches the search/issues response body.
type searchPage struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []searchItem `json:"items"`
}

// searchItem is the raw item shape. Pointer fields distinguish an absent
// value from a zero one.
type searchItem struct {
	ID            *int64 `json:"id"`
	Title         string `json:"title"`
	HTMLURL       string `json:"html_url"`
	RepositoryURL string `json:"repository_url"`
	User          *struct {
		Login   string `json:"login"`
		HTMLURL string `json:"html_url"`
	} `json:"user"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
}

// toPullRequest validates a raw item and maps it onto PullRequest.
func (item searchItem) toPullRequest() (PullRequest, error) {
	if item.ID == nil {
		return PullRequest{}, errors.New("item has no id")
	}
	if item.HTMLURL == "" {
		return PullRequest{}, errors.Errorf("item %d has no html_url", *item.ID)
	}
	if item.User == nil || item.User.Login == "" {
		return PullRequest{}, errors.Errorf("item %d has no author login", *item.ID)
	}

	state := State(item.State)
	if state != StateOpen && state != StateClosed {
		return PullRequest{}, errors.Errorf("item %d has unknown state %q", *item.ID, item.State)
	}

	created, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return PullRequest{}, errors.Wrapf(err, "item %d has invalid created_at", *item.ID)
	}

	return PullRequest{
		ID:            *item.ID,
		Title:         item.Title,
		URL:           item.HTMLURL,
		RepositoryURL: item.RepositoryURL,
		Author: User{
			Login: item.User.Login,
			URL:   item.User.HTMLURL,
		},
		State:     state,
		CreatedAt: item.CreatedAt,
		Created:   created,
	}, nil
}
