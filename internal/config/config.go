package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/cbroglie/mustache"
	"github.com/pelletier/go-toml/v2"
)

const fileName = "subsync.toml"

type Config struct {
	Source      SourceConfig      `toml:"source"`
	PullRequest PullRequestConfig `toml:"pull_request"`
	Hosting     HostingConfig     `toml:"hosting"`
	Workspace   WorkspaceConfig   `toml:"workspace"`
	Git         GitConfig         `toml:"git"`

	// Inline repository list, used when --repos is not given
	Repos []models.RepoTarget `toml:"repos,omitempty"`

	// Path the config was loaded from (not serialized)
	path string
}

type SourceConfig struct {
	URL    string `toml:"url"`
	Branch string `toml:"branch"`
	Prefix string `toml:"prefix"`
}

type PullRequestConfig struct {
	Branch string `toml:"branch"`
	Title  string `toml:"title"`
	Body   string `toml:"body"`
}

type HostingConfig struct {
	// Provider is "github" or "gitlab"
	Provider string `toml:"provider"`
	// BaseURL for GitHub Enterprise or self-managed GitLab (empty = public SaaS)
	BaseURL string `toml:"base_url"`
}

type WorkspaceConfig struct {
	Dir     string `toml:"dir"`
	Cleanup bool   `toml:"cleanup"`
}

type GitConfig struct {
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`
}

const defaultBody = `
## MUST COMPLETE PR WITH A REBASE&FF

## Description

Update {{{prefix}}} subtree

## How this was tested

Automatically generated PR
`

func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:    "https://github.com/Javagedes/mu_common_github",
			Branch: "main",
			Prefix: ".github/",
		},
		PullRequest: PullRequestConfig{
			// Reusing one branch name makes a previous unmerged update easy to find
			Branch: "subtree/github/update",
			Title:  "Update {{{prefix}}} subtree",
			Body:   defaultBody,
		},
		Hosting: HostingConfig{
			Provider: "github",
		},
		Workspace: WorkspaceConfig{
			Dir: "src",
		},
	}
}

// Path returns the default settings file location
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, fileName), nil
}

// Load reads the settings file at path, or the default location when path is
// empty. A missing file yields DefaultConfig.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg := DefaultConfig()
			cfg.path = path
			return cfg, nil
		}
		return nil, &models.ConfigurationError{Source: path, Msg: "cannot read settings", Err: err}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &models.ConfigurationError{Source: path, Msg: "cannot parse settings", Err: err}
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the fields every run depends on
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"source.url", c.Source.URL},
		{"source.branch", c.Source.Branch},
		{"source.prefix", c.Source.Prefix},
		{"pull_request.branch", c.PullRequest.Branch},
		{"pull_request.title", c.PullRequest.Title},
		{"workspace.dir", c.Workspace.Dir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &models.ConfigurationError{Source: c.source(), Msg: r.name + " must not be empty"}
		}
	}

	switch c.Hosting.Provider {
	case "github", "gitlab":
	default:
		return &models.ConfigurationError{
			Source: c.source(),
			Msg:    fmt.Sprintf("unknown hosting.provider %q (want github or gitlab)", c.Hosting.Provider),
		}
	}

	if len(c.Repos) > 0 {
		if _, err := ValidateRepos(c.source(), c.Repos); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the config to its load path, or the default location
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetPath overrides where Save writes
func (c *Config) SetPath(path string) {
	c.path = path
}

// Request renders the pull request templates and builds the run-wide request
func (c *Config) Request(token, user string) (models.UpdateRequest, error) {
	view := map[string]string{
		"prefix":        c.Source.Prefix,
		"source_url":    c.Source.URL,
		"source_branch": c.Source.Branch,
		"branch":        c.PullRequest.Branch,
	}

	title, err := mustache.Render(c.PullRequest.Title, view)
	if err != nil {
		return models.UpdateRequest{}, &models.ConfigurationError{Source: c.source(), Msg: "invalid pull_request.title template", Err: err}
	}
	body, err := mustache.Render(c.PullRequest.Body, view)
	if err != nil {
		return models.UpdateRequest{}, &models.ConfigurationError{Source: c.source(), Msg: "invalid pull_request.body template", Err: err}
	}

	authorName := c.Git.AuthorName
	if authorName == "" {
		authorName = user
	}
	authorEmail := c.Git.AuthorEmail
	if authorEmail == "" {
		authorEmail = user + "@users.noreply.github.com"
	}

	return models.UpdateRequest{
		Token:        token,
		User:         user,
		Prefix:       c.Source.Prefix,
		SourceURL:    c.Source.URL,
		SourceBranch: c.Source.Branch,
		Branch:       c.PullRequest.Branch,
		Title:        strings.TrimSpace(title),
		Body:         body,
		AuthorName:   authorName,
		AuthorEmail:  authorEmail,
	}, nil
}

// WorkspacePath returns the absolute clone root
func (c *Config) WorkspacePath() (string, error) {
	return filepath.Abs(expandTilde(c.Workspace.Dir))
}

func (c *Config) source() string {
	if c.path != "" {
		return c.path
	}
	return "settings"
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
