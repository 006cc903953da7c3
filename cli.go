package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/leonardo-bento/githubprs/github"
	"github.com/leonardo-bento/githubprs/server"
)

const cliDescription = `List open GitHub pull requests for a team.

Searches an organization for open pull requests created after a date,
optionally restricted to a set of authors. Results can be printed,
posted to Slack or served over HTTP.

Defaults for the organization, authors and token come from the config
file and the GITHUB_ORGANIZATION, GITHUB_USERS and GITHUB_PAT
environment variables. Flags override both.

Examples:
  # Open PRs in acme by two people since yesterday.
  githubprs list -o acme -a alice,bob

  # Everything a configured team opened in the last week, as JSON.
  githubprs list -t platform -s 7d --output json

  # Open every PR in the browser.
  githubprs list -o acme -s 2024-01-01 --output urls | xargs -n1 open

  # Post a digest to Slack.
  githubprs notify -t platform --slack-channel C0123456

  # Serve the JSON API.
  githubprs serve --address :8080`

// CLI is the kong command tree.
type CLI struct {
	Config   string `help:"Path to a YAML config file." type:"path" env:"GITHUBPRS_CONFIG"`
	LogLevel string `help:"Log level (trace, debug, info, warn, error)." env:"LOG_LEVEL"`
	Debug    bool   `help:"Shorthand for --log-level=debug."`

	List    ListCmd    `cmd:"" help:"List open pull requests."`
	Notify  NotifyCmd  `cmd:"" help:"Post open pull requests to a Slack channel."`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API."`
	Teams   TeamsCmd   `cmd:"" help:"Show configured teams."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// App carries what every command needs. Fields left nil by the caller
// are filled with production defaults by execute.
type App struct {
	Ctx    context.Context
	Config *Config
	Log    *logrus.Logger
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time

	// NewFetcher builds the retrieval client. Tests replace it.
	NewFetcher func(opts ...github.Option) PullRequestFetcher
	// NewNotifier builds the Slack notifier. Tests replace it.
	NewNotifier func(token, apiURL string) Notifier

	teams *TeamRegistry
}

func (a *App) defaultFetcher(opts ...github.Option) PullRequestFetcher {
	base := []github.Option{
		github.WithHost(a.Config.GitHub.Host),
		github.WithTimeout(a.Config.GitHub.Timeout),
		github.WithLogger(a.Log),
	}
	return github.NewClient(append(base, opts...)...)
}

func (a *App) defaultNotifier(token, apiURL string) Notifier {
	return NewSlackNotifier(token, apiURL, a.Now)
}

// Teams loads the team registry on first use so that a broken team file
// only fails the commands that read it.
func (a *App) Teams() (*TeamRegistry, error) {
	if a.teams != nil {
		return a.teams, nil
	}

	dir := a.Config.TeamsDir
	if dir == "" {
		var err error
		if dir, err = DefaultTeamsDir(); err != nil {
			a.Log.WithError(err).Debug("No default teams directory")
			dir = ""
		}
	}

	teams, err := NewTeamRegistry(dir)
	if err != nil {
		return nil, err
	}
	a.teams = teams
	return teams, nil
}

// QueryFlags are the search form shared by list and notify.
type QueryFlags struct {
	Org     string   `short:"o" help:"GitHub organization to search."`
	Authors []string `short:"a" sep:"," help:"Comma-separated GitHub usernames."`
	Team    string   `short:"t" help:"Search for the members of a configured team."`
	Since   string   `short:"s" default:"yesterday" help:"Only PRs created after this date: YYYY-MM-DD, today, yesterday or <N>d."`
	Token   string   `help:"GitHub Personal Access Token. Prefer GITHUB_PAT so it stays out of shell history."`
}

// resolve merges flags, the selected team and config into query
// parameters. Flags win over the team, the team wins over config.
func (f *QueryFlags) resolve(app *App) (github.QueryParameters, error) {
	params := github.QueryParameters{
		Organization: f.Org,
		Authors:      github.SplitAuthors(strings.Join(f.Authors, ",")),
		Token:        f.Token,
	}

	if f.Team != "" {
		teams, err := app.Teams()
		if err != nil {
			return params, err
		}
		team, ok := teams.Get(f.Team)
		if !ok {
			return params, errors.Errorf("unknown team %q (available: %s)", f.Team, strings.Join(teams.Names(), ", "))
		}
		if params.Organization == "" {
			params.Organization = team.Organization
		}
		if len(params.Authors) == 0 {
			params.Authors = team.Members
		}
	}

	if params.Organization == "" {
		params.Organization = app.Config.GitHub.Organization
	}
	if len(params.Authors) == 0 {
		params.Authors = github.SplitAuthors(strings.Join(app.Config.GitHub.Users, ","))
	}
	if params.Token == "" {
		params.Token = app.Config.GitHub.Token
	}

	since, err := ParseSince(f.Since, app.Now())
	if err != nil {
		return params, err
	}
	params.Since = since

	return params, nil
}

func (f *QueryFlags) fetch(app *App) (*Result, error) {
	params, err := f.resolve(app)
	if err != nil {
		return nil, err
	}

	app.Log.WithFields(logrus.Fields{
		"org":     params.Organization,
		"authors": strings.Join(params.Authors, ","),
		"since":   params.Since.String(),
	}).Debug("Searching for open pull requests")

	return Run(app.Ctx, app.NewFetcher(), params)
}

type ListCmd struct {
	QueryFlags `embed:""`

	Output string `enum:"table,json,yaml,urls" default:"table" help:"Output format (table, json, yaml, urls)."`
}

func (c *ListCmd) Run(app *App) error {
	result, err := c.fetch(app)
	if err != nil {
		return err
	}
	return FormatResult(app.Stdout, app.Stderr, result, c.Output, app.Now)
}

type NotifyCmd struct {
	QueryFlags `embed:""`

	SlackChannel string `help:"Slack channel ID to post to (defaults to SLACK_CHANNEL)."`
	DryRun       bool   `help:"Print the digest instead of posting it."`
}

func (c *NotifyCmd) Run(app *App) error {
	channel := c.SlackChannel
	if channel == "" {
		channel = app.Config.Slack.Channel
	}
	if channel == "" && !c.DryRun {
		return &github.MissingInputError{Field: "slack channel"}
	}
	if app.Config.Slack.Token == "" && !c.DryRun {
		return &github.MissingInputError{Field: "slack token"}
	}

	result, err := c.fetch(app)
	if err != nil {
		return err
	}

	if c.DryRun {
		fmt.Fprintln(app.Stdout, FormatSlackDigest(result, app.Now()))
		return nil
	}

	if result.Empty() {
		fmt.Fprintf(app.Stderr, "Info: %s Nothing posted.\n", emptyResultMessage)
		return nil
	}

	notifier := app.NewNotifier(app.Config.Slack.Token, app.Config.Slack.APIURL)
	if err := notifier.Notify(app.Ctx, channel, result); err != nil {
		return err
	}

	app.Log.WithFields(logrus.Fields{
		"channel": channel,
		"count":   result.Count,
	}).Info("Posted digest")

	if result.Warning != "" {
		fmt.Fprintf(app.Stderr, "Warning: %s\n", result.Warning)
	}
	return nil
}

type ServeCmd struct {
	Address string `help:"Listen address (defaults to GITHUBPRS_ADDRESS or localhost:8080)."`
}

func (c *ServeCmd) Run(app *App) error {
	cfg := app.Config

	address := c.Address
	if address == "" {
		address = cfg.Server.Address
	}

	metrics := server.NewMetrics()
	fetcher := app.NewFetcher(github.WithObserver(metrics))

	srv := server.New(server.Config{
		Address:             address,
		ReadTimeout:         cfg.Server.ReadTimeout,
		WriteTimeout:        cfg.Server.WriteTimeout,
		IdleTimeout:         cfg.Server.IdleTimeout,
		DefaultToken:        cfg.GitHub.Token,
		DefaultOrganization: cfg.GitHub.Organization,
		DefaultAuthors:      github.SplitAuthors(strings.Join(cfg.GitHub.Users, ",")),
	}, fetcher, metrics, app.Log)

	return srv.ListenAndServe(app.Ctx)
}

type TeamsCmd struct {
	Name string `arg:"" optional:"" help:"Show the members of this team."`
}

func (c *TeamsCmd) Run(app *App) error {
	teams, err := app.Teams()
	if err != nil {
		return err
	}

	if c.Name != "" {
		team, ok := teams.Get(c.Name)
		if !ok {
			return errors.Errorf("unknown team %q", c.Name)
		}
		members := append([]string(nil), team.Members...)
		sort.Strings(members)
		for _, m := range members {
			fmt.Fprintln(app.Stdout, m)
		}
		return nil
	}

	names := teams.Names()
	if len(names) == 0 {
		fmt.Fprintln(app.Stderr, "Info: No teams configured.")
		return nil
	}

	w := tabwriter.NewWriter(app.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORGANIZATION\tMEMBERS\tDESCRIPTION")
	for _, name := range names {
		team, _ := teams.Get(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", team.Name, team.Organization, len(team.Members), team.Description)
	}
	return w.Flush()
}

type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	Get().Print(app.Stdout)
	return nil
}
