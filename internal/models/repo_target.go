package models

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoTarget identifies one downstream repository to update
type RepoTarget struct {
	// Name is used for log lines and as the clone directory name
	Name string `yaml:"name" toml:"name"`
	// URL is the clone URL (https)
	URL string `yaml:"url" toml:"url"`
	// Base is the branch the pull request targets
	Base string `yaml:"base" toml:"base"`
}

// NewRepoTarget creates a new RepoTarget
func NewRepoTarget(name, url, base string) RepoTarget {
	return RepoTarget{
		Name: name,
		URL:  url,
		Base: base,
	}
}

// Slug returns the hosting-side identifier, e.g. "owner/repo" for
// https://github.com/owner/repo.git
func (t RepoTarget) Slug() (string, error) {
	u, err := url.Parse(t.URL)
	if err != nil {
		return "", fmt.Errorf("invalid repository url %q: %w", t.URL, err)
	}
	slug := strings.Trim(u.Path, "/")
	slug = strings.TrimSuffix(slug, ".git")
	if slug == "" {
		return "", fmt.Errorf("repository url %q has no path", t.URL)
	}
	return slug, nil
}

// OwnerRepo splits Slug into its owner and repository parts
func (t RepoTarget) OwnerRepo() (string, string, error) {
	slug, err := t.Slug()
	if err != nil {
		return "", "", err
	}
	i := strings.LastIndex(slug, "/")
	if i <= 0 || i == len(slug)-1 {
		return "", "", fmt.Errorf("repository url %q is not of the form <owner>/<repo>", t.URL)
	}
	return slug[:i], slug[i+1:], nil
}

func (t RepoTarget) String() string {
	return t.Name
}
