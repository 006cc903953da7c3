package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Team is a named group of GitHub users, loaded from YAML:
//
//	name: platform
//	organization: acme
//	description: Platform squad
//	members: [alice, bob]
type Team struct {
	Name         string   `yaml:"name"`
	Organization string   `yaml:"organization,omitempty"`
	Description  string   `yaml:"description,omitempty"`
	Members      []string `yaml:"members"`
	Source       string   `yaml:"-"` // File the team was loaded from.
}

// TeamRegistry holds all teams found in the teams directory.
type TeamRegistry struct {
	teams map[string]Team
}

// DefaultTeamsDir returns ~/.config/githubprs/teams.
func DefaultTeamsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(homeDir, ".config", "githubprs", "teams"), nil
}

// NewTeamRegistry loads every *.yaml file in dir. A missing directory
// yields an empty registry.
func NewTeamRegistry(dir string) (*TeamRegistry, error) {
	r := &TeamRegistry{
		teams: make(map[string]Team),
	}

	if dir == "" {
		return r, nil
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return r, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read teams directory")
	}

	for _, entry := range entries {
		if entry.IsDir() || !(strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read team file %s", entry.Name())
		}

		var team Team
		if err := yaml.Unmarshal(content, &team); err != nil {
			return nil, errors.Wrapf(err, "failed to parse team file %s", entry.Name())
		}

		if err := validateTeam(&team); err != nil {
			return nil, errors.Wrapf(err, "invalid team %s", entry.Name())
		}

		if existing, ok := r.teams[team.Name]; ok {
			return nil, errors.Errorf("team %q defined in both %s and %s", team.Name, filepath.Base(existing.Source), entry.Name())
		}

		team.Source = path
		r.teams[team.Name] = team
	}

	return r, nil
}

// validateTeam checks required fields and normalises member names.
func validateTeam(team *Team) error {
	if team.Name == "" {
		return errors.New("team name is required")
	}

	var members []string
	for _, m := range team.Members {
		m = strings.TrimSpace(m)
		if m != "" && !slices.Contains(members, m) {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return errors.Errorf("team %q has no members", team.Name)
	}
	team.Members = members

	return nil
}

// Get returns the team with the given name.
func (r *TeamRegistry) Get(name string) (Team, bool) {
	team, ok := r.teams[name]
	return team, ok
}

// Names returns all team names in sorted order.
func (r *TeamRegistry) Names() []string {
	names := make([]string, 0, len(r.teams))
	for name := range r.teams {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
