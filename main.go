// Package main implements githubprs, a tool that lists the open pull
// requests a group of people has created in a GitHub organization.
//
// The same retrieval backs three front ends:
//   - list prints a table, JSON, YAML or bare URLs
//   - notify posts a digest to a Slack channel
//   - serve exposes the search as a JSON API
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/leonardo-bento/githubprs/github"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := execute(os.Args[1:], &App{
		Ctx:    ctx,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	stop()
	os.Exit(code)
}

// execute parses args, loads configuration and runs the selected command.
// It returns the process exit code.
func execute(args []string, app *App) int {
	if app.Ctx == nil {
		app.Ctx = context.Background()
	}
	if app.Now == nil {
		app.Now = time.Now
	}

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("githubprs"),
		kong.Description(cliDescription),
		kong.UsageOnError(),
		kong.Writers(app.Stdout, app.Stderr),
	)
	if err != nil {
		fmt.Fprintf(app.Stderr, "Error: %v\n", err)
		return exitError
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return exitUsage
	}

	if app.Config == nil {
		cfg, err := LoadConfig(cli.Config)
		if err != nil {
			fmt.Fprintf(app.Stderr, "Error: %v\n", err)
			return exitError
		}
		app.Config = cfg
	}

	logCfg := app.Config.Log
	if cli.LogLevel != "" {
		logCfg.Level = cli.LogLevel
	}
	if cli.Debug {
		logCfg.Level = "debug"
	}
	if app.Log == nil {
		logger, err := newLogger(logCfg, app.Stderr)
		if err != nil {
			fmt.Fprintf(app.Stderr, "Error: %v\n", err)
			return exitUsage
		}
		app.Log = logger
	}

	if app.NewFetcher == nil {
		app.NewFetcher = app.defaultFetcher
	}
	if app.NewNotifier == nil {
		app.NewNotifier = app.defaultNotifier
	}

	if err := kctx.Run(app); err != nil {
		return reportError(app.Stderr, err)
	}
	return exitOK
}

// reportError prints err the way the search form would and maps it to an
// exit code.
func reportError(w io.Writer, err error) int {
	var missing *github.MissingInputError
	if errors.As(err, &missing) {
		fmt.Fprintln(w, missingInputMessage(missing.Field))
		return exitUsage
	}

	var upstream *github.UpstreamError
	if errors.As(err, &upstream) {
		fmt.Fprintf(w, "Error: %v. Please check your PAT and inputs.\n", err)
		return exitError
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return exitError
}

func missingInputMessage(field string) string {
	switch field {
	case "token":
		return "Please enter your GitHub Personal Access Token."
	case "organization":
		return "Please enter an organization name."
	case "slack token":
		return "Please set SLACK_TOKEN to post to Slack."
	case "slack channel":
		return "Please enter a Slack channel with --slack-channel or SLACK_CHANNEL."
	default:
		return fmt.Sprintf("Please enter a value for %s.", field)
	}
}
