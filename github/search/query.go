// Package search builds GitHub issue search queries for pull requests.
package search

import (
	"fmt"
	"strings"
)

// QueryBuilder constructs GitHub search syntax for pull requests.
type QueryBuilder struct {
	terms []string
}

// NewQueryBuilder creates a new query builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Type adds the issue type qualifier, e.g. "is:pr".
func (qb *QueryBuilder) Type(t string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("is:%s", t))
	return qb
}

// State adds a state filter.
func (qb *QueryBuilder) State(state string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("state:%s", state))
	return qb
}

// Org scopes the search to an organization.
func (qb *QueryBuilder) Org(org string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("org:%s", org))
	return qb
}

// CreatedAfter restricts results to items created strictly after d.
// A zero date adds nothing.
func (qb *QueryBuilder) CreatedAfter(d Date) *QueryBuilder {
	if d.IsZero() {
		return qb
	}
	qb.terms = append(qb.terms, fmt.Sprintf("created:>%s", d))
	return qb
}

// Author adds an author filter. Blank names are ignored.
func (qb *QueryBuilder) Author(author string) *QueryBuilder {
	author = strings.TrimSpace(author)
	if author == "" {
		return qb
	}
	qb.terms = append(qb.terms, fmt.Sprintf("author:%s", author))
	return qb
}

// Authors adds one author clause per name. GitHub search ORs repeated
// author qualifiers, so the result matches any of the given authors.
func (qb *QueryBuilder) Authors(authors []string) *QueryBuilder {
	for _, a := range authors {
		qb.Author(a)
	}
	return qb
}

// AddTerm adds a raw search term.
func (qb *QueryBuilder) AddTerm(term string) *QueryBuilder {
	qb.terms = append(qb.terms, term)
	return qb
}

// Terms returns a copy of the accumulated clauses.
func (qb *QueryBuilder) Terms() []string {
	return append([]string(nil), qb.terms...)
}

// Build constructs the final search query string. Clauses are separated
// by spaces; form encoding turns them into the '+'-joined wire format.
func (qb *QueryBuilder) Build() string {
	return strings.Join(qb.terms, " ")
}

// OpenPullRequests returns the builder for the one query shape this tool
// issues: open PRs in org, created after since, by any of authors.
func OpenPullRequests(org string, authors []string, since Date) *QueryBuilder {
	return NewQueryBuilder().
		Type("pr").
		State("open").
		Org(org).
		CreatedAfter(since).
		Authors(authors)
}
