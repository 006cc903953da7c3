package main

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
)

const emptyResultMessage = "No open pull requests found for the specified team members."

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, now func() time.Time) (Formatter, error) {
	switch name {
	case "", "table":
		return &TabularFormatter{Now: now}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	case "urls":
		return &URLFormatter{}, nil
	default:
		return nil, errors.Errorf("unknown output format %q", name)
	}
}

// FormatResult writes result to stdout and any informational or warning
// message to stderr. Machine-readable formats always print, even when
// empty, so consumers get a well-formed document.
func FormatResult(stdout, stderr io.Writer, result *Result, format string, now func() time.Time) error {
	formatter, err := NewFormatter(format, now)
	if err != nil {
		return err
	}

	switch format {
	case "", "table", "urls":
		if result.Empty() {
			fmt.Fprintf(stderr, "Info: %s\n", emptyResultMessage)
			if result.Warning != "" {
				fmt.Fprintf(stderr, "Warning: %s\n", result.Warning)
			}
			return nil
		}
	}

	if err := formatter.Format(stdout, result); err != nil {
		return errors.Wrap(err, "failed to format output")
	}

	if result.Warning != "" {
		fmt.Fprintf(stderr, "Warning: %s\n", result.Warning)
	}
	return nil
}
