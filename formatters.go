package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for different output formats.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// TabularFormatter outputs PRs in a table format.
type TabularFormatter struct {
	Now func() time.Time
}

// JSONFormatter outputs the full result as indented JSON.
type JSONFormatter struct{}

// YAMLFormatter outputs the full result as YAML.
type YAMLFormatter struct{}

// URLFormatter outputs only PR URLs, one per line.
type URLFormatter struct{}

// Format outputs PRs in tabular format. Dates are shown in the local
// time zone together with their age.
func (f *TabularFormatter) Format(w io.Writer, result *Result) error {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tREPOSITORY\tAUTHOR\tSTATE\tCREATED\tAGE\tURL")

	for _, pr := range result.PullRequests {
		created := pr.CreatedAt
		if !pr.Created.IsZero() {
			created = pr.Created.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(pr.Title, 60),
			pr.Repository(),
			pr.Author.Login,
			pr.State,
			created,
			pr.Age(now()),
			pr.URL,
		)
	}
	return tw.Flush()
}

// Format outputs the result as JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// Format outputs the result as YAML.
func (f *YAMLFormatter) Format(w io.Writer, result *Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return errors.Wrap(err, "yaml encode")
	}
	return enc.Close()
}

// Format outputs PR URLs only.
func (f *URLFormatter) Format(w io.Writer, result *Result) error {
	for _, pr := range result.PullRequests {
		if _, err := fmt.Fprintln(w, pr.URL); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
