package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wahlandcase/subsync/internal/models"

	"gopkg.in/yaml.v3"
)

// repoList is the on-disk schema: {repos: [{name, url, base}, ...]}
type repoList struct {
	Repos *[]repoEntry `yaml:"repos"`
}

// repoEntry keeps pointers so that an absent key can be told apart from an empty value
type repoEntry struct {
	Name *string `yaml:"name"`
	URL  *string `yaml:"url"`
	Base *string `yaml:"base"`
}

// LoadRepos reads the YAML repository list at path. Every entry must carry
// name, url and base; nothing is defaulted.
func LoadRepos(path string) ([]models.RepoTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ConfigurationError{Source: path, Msg: "failed to locate repository list", Err: err}
	}
	return ParseRepos(path, data)
}

// ParseRepos decodes a repository list document
func ParseRepos(source string, data []byte) ([]models.RepoTarget, error) {
	var list repoList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, &models.ConfigurationError{Source: source, Msg: "failed to parse repository list", Err: err}
	}
	if list.Repos == nil {
		return nil, &models.ConfigurationError{Source: source, Msg: `missing top-level "repos" key`}
	}

	var targets []models.RepoTarget
	for i, entry := range *list.Repos {
		var missing []string
		if entry.Name == nil {
			missing = append(missing, "name")
		}
		if entry.URL == nil {
			missing = append(missing, "url")
		}
		if entry.Base == nil {
			missing = append(missing, "base")
		}
		if len(missing) > 0 {
			return nil, &models.ConfigurationError{
				Source: source,
				Msg:    fmt.Sprintf("repos[%d] is missing required field(s): %s", i, strings.Join(missing, ", ")),
			}
		}
		targets = append(targets, models.NewRepoTarget(*entry.Name, *entry.URL, *entry.Base))
	}

	return ValidateRepos(source, targets)
}

// ValidateRepos rejects empty required fields and duplicate names. Two
// targets with one name would share a clone directory.
func ValidateRepos(source string, targets []models.RepoTarget) ([]models.RepoTarget, error) {
	seen := make(map[string]int, len(targets))
	for i, t := range targets {
		fields := []struct {
			name  string
			value string
		}{
			{"name", t.Name},
			{"url", t.URL},
			{"base", t.Base},
		}
		for _, f := range fields {
			if strings.TrimSpace(f.value) == "" {
				return nil, &models.ConfigurationError{
					Source: source,
					Msg:    fmt.Sprintf("repos[%d] has an empty %q", i, f.name),
				}
			}
		}
		if strings.ContainsAny(t.Name, `/\`) || t.Name == "." || t.Name == ".." {
			return nil, &models.ConfigurationError{
				Source: source,
				Msg:    fmt.Sprintf("repos[%d] name %q cannot be used as a directory name", i, t.Name),
			}
		}
		if prev, ok := seen[t.Name]; ok {
			return nil, &models.ConfigurationError{
				Source: source,
				Msg:    fmt.Sprintf("repos[%d] reuses the name %q of repos[%d]", i, t.Name, prev),
			}
		}
		seen[t.Name] = i
	}
	return targets, nil
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *models.ConfigurationError
	return errors.As(err, &cfgErr)
}
