package github

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardo-bento/githubprs/github/search"
)

func TestPullRequestRepository(t *testing.T) {
	tests := []struct {
		url      string
		repo     string
		repoName string
	}{
		{"https://api.github.com/repos/acme/widgets", "acme/widgets", "widgets"},
		{"https://ghe.example.com/api/v3/repos/org-name/repo.name/", "org-name/repo.name", "repo.name"},
		{"https://example.com/something/else", "else", "else"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			pr := PullRequest{RepositoryURL: tt.url}
			assert.Equal(t, tt.repo, pr.Repository())
			assert.Equal(t, tt.repoName, pr.RepositoryName())
		})
	}
}

func TestPullRequestAge(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		created  time.Time
		expected string
	}{
		{now.Add(-30 * time.Second), "30s"},
		{now.Add(-12 * time.Minute), "12m"},
		{now.Add(-(3*time.Hour + 5*time.Minute)), "3h5m"},
		{now.Add(-4 * 24 * time.Hour), "4d"},
		{now.Add(time.Hour), "0s"},
		{time.Time{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, PullRequest{Created: tt.created}.Age(now))
		})
	}
}

func TestSearchItemToPullRequest(t *testing.T) {
	id := int64(42)
	valid := func() searchItem {
		item := searchItem{
			ID:            &id,
			Title:         "Add widgets",
			HTMLURL:       "https://github.com/acme/widgets/pull/7",
			RepositoryURL: "https://api.github.com/repos/acme/widgets",
			State:         "open",
			CreatedAt:     "2024-03-06T10:00:00Z",
		}
		item.User = &struct {
			Login   string `json:"login"`
			HTMLURL string `json:"html_url"`
		}{Login: "alice", HTMLURL: "https://github.com/alice"}
		return item
	}

	pr, err := valid().toPullRequest()
	require.NoError(t, err)
	assert.Equal(t, int64(42), pr.ID)
	assert.Equal(t, StateOpen, pr.State)
	assert.Equal(t, "alice", pr.Author.Login)
	assert.Equal(t, "https://github.com/alice", pr.Author.URL)
	assert.Equal(t, "2024-03-06T10:00:00Z", pr.CreatedAt)
	assert.Equal(t, time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC), pr.Created.UTC())

	tests := []struct {
		name string
		mut  func(*searchItem)
		want string
	}{
		{"missing id", func(i *searchItem) { i.ID = nil }, "no id"},
		{"missing url", func(i *searchItem) { i.HTMLURL = "" }, "no html_url"},
		{"missing user", func(i *searchItem) { i.User = nil }, "no author login"},
		{"blank login", func(i *searchItem) { i.User.Login = "" }, "no author login"},
		{"bad state", func(i *searchItem) { i.State = "merged" }, "unknown state"},
		{"bad timestamp", func(i *searchItem) { i.CreatedAt = "2024-03-06" }, "invalid created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid()
			tt.mut(&item)
			_, err := item.toPullRequest()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestQueryParametersRedactsToken(t *testing.T) {
	p := QueryParameters{
		Organization: "acme",
		Authors:      []string{"alice"},
		Since:        search.Date{Year: 2024, Month: time.January, Day: 2},
		Token:        testToken,
	}

	for _, format := range []string{"%v", "%+v", "%s", "%#v"} {
		out := fmt.Sprintf(format, p)
		assert.NotContains(t, out, testToken, format)
		assert.Contains(t, out, "acme", format)
	}
	assert.True(t, strings.Contains(p.String(), "[redacted]"))
}

func TestQueryParametersValidate(t *testing.T) {
	assert.NoError(t, testParams().Validate())

	p := testParams()
	p.Authors = nil
	p.Since = search.Date{}
	assert.NoError(t, p.Validate(), "authors and since are optional")

	p.Organization = ""
	err := p.Validate()
	assert.True(t, IsMissingInput(err))
	assert.EqualError(t, err, "missing required input: organization")
}

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{"", nil},
		{"alice", []string{"alice"}},
		{" alice , bob,,carol ", []string{"alice", "bob", "carol"}},
		{" , ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitAuthors(tt.in))
		})
	}
}
