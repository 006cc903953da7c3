package main

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/leonardo-bento/githubprs/github/search"
)

// relativeDaysRegex matches relative date floors like "7d".
var relativeDaysRegex = regexp.MustCompile(`^(\d+)d$`)

// ParseSince turns a --since argument into a calendar date. It accepts
// YYYY-MM-DD, "today", "yesterday" and "<N>d" (N days before today).
// An empty argument means yesterday.
func ParseSince(arg string, now time.Time) (search.Date, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))

	switch arg {
	case "", "yesterday":
		return search.Yesterday(now), nil
	case "today":
		return search.DateOf(now), nil
	}

	if matches := relativeDaysRegex.FindStringSubmatch(arg); matches != nil {
		days, err := strconv.Atoi(matches[1])
		if err != nil {
			return search.Date{}, errors.Errorf("invalid relative date %q", arg)
		}
		return search.DateOf(now).AddDays(-days), nil
	}

	d, err := search.ParseDate(arg)
	if err != nil {
		return search.Date{}, errors.Errorf("invalid --since %q: use YYYY-MM-DD, today, yesterday or <N>d", arg)
	}
	return d, nil
}
