package github

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leonardo-bento/githubprs/github/search"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("name"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// QueryParameters describes one retrieval: open PRs in Organization,
// created after Since, by any of Authors. An empty Authors list means
// every author in the organization.
type QueryParameters struct {
	Organization string   `validate:"required" name:"organization"`
	Authors      []string `name:"authors"`
	Since        search.Date
	Token        string `validate:"required" name:"token"`
}

// Validate reports the first missing required field as a
// *MissingInputError. Whitespace-only values count as missing.
func (p QueryParameters) Validate() error {
	trimmed := p
	trimmed.Organization = strings.TrimSpace(p.Organization)
	trimmed.Token = strings.TrimSpace(p.Token)

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return &MissingInputError{Field: verrs[0].Field()}
	}
	return err
}

// String renders the parameters without the credential.
func (p QueryParameters) String() string {
	token := ""
	if p.Token != "" {
		token = "[redacted]"
	}
	return fmt.Sprintf("{Organization:%s Authors:%v Since:%s Token:%s}",
		p.Organization, p.Authors, p.Since, token)
}

// GoString keeps %#v from printing the credential.
func (p QueryParameters) GoString() string {
	return "github.QueryParameters" + p.String()
}

// SplitAuthors splits a comma-separated list of usernames, trimming
// whitespace and dropping empty entries.
func SplitAuthors(s string) []string {
	var authors []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}
