package search

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilder(t *testing.T) {
	since := Date{Year: 2024, Month: time.March, Day: 5}

	tests := []struct {
		name     string
		build    func() *QueryBuilder
		expected string
	}{
		{
			name: "type and state",
			build: func() *QueryBuilder {
				return NewQueryBuilder().Type("pr").State("open")
			},
			expected: "is:pr state:open",
		},
		{
			name: "org scope",
			build: func() *QueryBuilder {
				return NewQueryBuilder().Type("pr").Org("acme")
			},
			expected: "is:pr org:acme",
		},
		{
			name: "created after",
			build: func() *QueryBuilder {
				return NewQueryBuilder().CreatedAfter(since)
			},
			expected: "created:>2024-03-05",
		},
		{
			name: "zero created date is omitted",
			build: func() *QueryBuilder {
				return NewQueryBuilder().Type("pr").CreatedAfter(Date{})
			},
			expected: "is:pr",
		},
		{
			name: "blank author ignored",
			build: func() *QueryBuilder {
				return NewQueryBuilder().Author("  ").Author("alice")
			},
			expected: "author:alice",
		},
		{
			name: "raw term",
			build: func() *QueryBuilder {
				return NewQueryBuilder().Type("pr").AddTerm("draft:false")
			},
			expected: "is:pr draft:false",
		},
		{
			name: "open pull requests with authors",
			build: func() *QueryBuilder {
				return OpenPullRequests("acme", []string{"alice", "bob"}, since)
			},
			expected: "is:pr state:open org:acme created:>2024-03-05 author:alice author:bob",
		},
		{
			name: "open pull requests without authors",
			build: func() *QueryBuilder {
				return OpenPullRequests("acme", nil, since)
			},
			expected: "is:pr state:open org:acme created:>2024-03-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.build().Build())
		})
	}
}

func TestOpenPullRequestsOneAuthorClausePerName(t *testing.T) {
	authors := []string{"alice", "bob", "carol", "dave"}
	terms := OpenPullRequests("acme", authors, Date{}).Terms()

	var got []string
	for _, term := range terms {
		if strings.HasPrefix(term, "author:") {
			got = append(got, strings.TrimPrefix(term, "author:"))
		}
	}
	assert.Equal(t, authors, got)
}

func TestOpenPullRequestsEmptyAuthorsHasNoAuthorClause(t *testing.T) {
	q := OpenPullRequests("acme", []string{}, Date{}).Build()
	assert.NotContains(t, q, "author:")
}

func TestQueryEncodesAuthors(t *testing.T) {
	q := OpenPullRequests("acme", []string{"app/dependabot", "a&b"}, Date{}).Build()
	encoded := url.Values{"q": {q}}.Encode()

	assert.Contains(t, encoded, "author%3Aapp%2Fdependabot")
	assert.Contains(t, encoded, "author%3Aa%26b")
	assert.NotContains(t, encoded, " ")

	decoded, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	assert.Equal(t, q, decoded.Get("q"))
}

func TestTermsReturnsCopy(t *testing.T) {
	qb := NewQueryBuilder().Type("pr")
	terms := qb.Terms()
	terms[0] = "mutated"
	assert.Equal(t, "is:pr", qb.Build())
}
