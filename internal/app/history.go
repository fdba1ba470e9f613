package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/wahlandcase/subsync/internal/models"
)

const historyMaxAge = 24 * time.Hour

// HistoryEntry is one pull request opened by a previous run
type HistoryEntry struct {
	RepoName  string    `json:"repo_name"`
	URL       string    `json:"url"`
	Base      string    `json:"base"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryPath returns the history file location next to the config file
func HistoryPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "subsync-history.json"), nil
}

// LoadHistory reads the history file and prunes entries older than 24h.
// A missing or unreadable file yields no entries.
func LoadHistory(path string, now time.Time) []HistoryEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}

	cutoff := now.Add(-historyMaxAge)
	var valid []HistoryEntry
	for _, e := range entries {
		if e.CreatedAt.After(cutoff) {
			valid = append(valid, e)
		}
	}

	// Rewrite file if we pruned anything
	if len(valid) != len(entries) {
		_ = saveHistory(path, valid)
	}
	return valid
}

// RecordHistory appends every created pull request in results to the
// history file
func RecordHistory(path string, results []models.TargetResult, now time.Time) error {
	entries := LoadHistory(path, now)
	added := false
	for _, r := range results {
		if !models.IsStatusCreated(r.Status) || r.PrURL == "" {
			continue
		}
		entries = append(entries, HistoryEntry{
			RepoName:  r.Target.Name,
			URL:       r.PrURL,
			Base:      r.Target.Base,
			CreatedAt: now,
		})
		added = true
	}
	if !added {
		return nil
	}
	return saveHistory(path, entries)
}

func saveHistory(path string, entries []HistoryEntry) error {
	if entries == nil {
		entries = []HistoryEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
