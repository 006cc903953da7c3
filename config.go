package main

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Config holds everything read from the environment and the optional
// config file. It is loaded once at startup and passed down explicitly.
type Config struct {
	GitHub   GitHubConfig `yaml:"github"`
	Slack    SlackConfig  `yaml:"slack"`
	Server   ServerConfig `yaml:"server"`
	Log      LogConfig    `yaml:"log"`
	TeamsDir string       `yaml:"teams_dir" env:"GITHUBPRS_TEAMS_DIR"`
}

// GitHubConfig holds the defaults for the search form.
type GitHubConfig struct {
	Token        string        `yaml:"token" env:"GITHUB_PAT"`
	Host         string        `yaml:"host" env:"GITHUB_HOST" env-default:"github.com"`
	Organization string        `yaml:"organization" env:"GITHUB_ORGANIZATION"`
	Users        []string      `yaml:"users" env:"GITHUB_USERS" env-separator:","`
	Timeout      time.Duration `yaml:"timeout" env:"GITHUB_TIMEOUT" env-default:"30s"`
}

type SlackConfig struct {
	Token   string `yaml:"token" env:"SLACK_TOKEN"`
	Channel string `yaml:"channel" env:"SLACK_CHANNEL"`
	APIURL  string `yaml:"api_url" env:"SLACK_API_URL"`
}

type ServerConfig struct {
	Address      string        `yaml:"address" env:"GITHUBPRS_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// LoadConfig reads path (when non-empty) and then applies environment
// overrides. Environment variables win over file values.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to read config from environment")
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return &cfg, nil
}
