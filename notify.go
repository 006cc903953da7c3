package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

// maxDigestLines keeps a digest well under Slack's message size limit.
const maxDigestLines = 50

// SlackNotifier posts result digests to a Slack channel.
type SlackNotifier struct {
	api *slack.Client
	now func() time.Time
}

// NewSlackNotifier creates a notifier. apiURL overrides the Slack API base
// URL and is normally empty.
func NewSlackNotifier(token, apiURL string, now func() time.Time) *SlackNotifier {
	var opts []slack.Option
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	if now == nil {
		now = time.Now
	}
	return &SlackNotifier{
		api: slack.New(token, opts...),
		now: now,
	}
}

// Notify posts the digest for result to channel.
func (n *SlackNotifier) Notify(ctx context.Context, channel string, result *Result) error {
	text := FormatSlackDigest(result, n.now())

	_, _, err := n.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to post digest to %s", channel)
	}
	return nil
}

// FormatSlackDigest renders result as Slack mrkdwn.
func FormatSlackDigest(result *Result, now time.Time) string {
	var b strings.Builder

	scope := result.Organization
	if len(result.Authors) > 0 {
		scope += " by " + strings.Join(result.Authors, ", ")
	}

	if result.Empty() {
		fmt.Fprintf(&b, "*Open pull requests in %s since %s*\n%s\n", scope, result.Since, emptyResultMessage)
	} else {
		fmt.Fprintf(&b, "*Open pull requests in %s since %s (%d)*\n", scope, result.Since, result.Count)
		for i, pr := range result.PullRequests {
			if i == maxDigestLines {
				fmt.Fprintf(&b, "_...and %d more_\n", len(result.PullRequests)-maxDigestLines)
				break
			}
			fmt.Fprintf(&b, "• <%s|%s> in `%s` by <%s|%s>, %s old\n",
				pr.URL, slackEscape(pr.Title),
				pr.Repository(),
				pr.Author.URL, pr.Author.Login,
				pr.Age(now),
			)
		}
	}

	if result.Warning != "" {
		fmt.Fprintf(&b, ":warning: %s\n", slackEscape(result.Warning))
	}

	return b.String()
}

// slackEscape escapes the three characters Slack treats as control
// sequences in mrkdwn text.
func slackEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
