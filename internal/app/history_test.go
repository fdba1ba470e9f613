package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "subsync-history.json")
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	results := []models.TargetResult{
		{Target: models.NewRepoTarget("mu_basecore", "https://github.com/o/mu_basecore.git", "main"), Status: models.Created, PrURL: "https://github.com/o/mu_basecore/pull/1"},
		{Target: models.NewRepoTarget("mu_plus", "https://github.com/o/mu_plus.git", "main"), Status: models.Failed("conflict")},
		{Target: models.NewRepoTarget("mu_oem", "https://github.com/o/mu_oem.git", "main"), Status: models.DryRun},
	}
	require.NoError(t, RecordHistory(path, results, now))

	entries := LoadHistory(path, now.Add(time.Hour))
	require.Len(t, entries, 1)
	assert.Equal(t, "mu_basecore", entries[0].RepoName)
	assert.Equal(t, "https://github.com/o/mu_basecore/pull/1", entries[0].URL)
	assert.Equal(t, "main", entries[0].Base)
	assert.True(t, entries[0].CreatedAt.Equal(now))

	// a second run appends
	later := now.Add(2 * time.Hour)
	require.NoError(t, RecordHistory(path, results[:1], later))
	assert.Len(t, LoadHistory(path, later), 2)
}

func TestRecordHistoryNothingCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subsync-history.json")
	require.NoError(t, RecordHistory(path, []models.TargetResult{{Status: models.Failed("x")}}, time.Now()))
	assert.NoFileExists(t, path)
}

func TestLoadHistoryPrunesOldEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subsync-history.json")
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	entries := []HistoryEntry{
		{RepoName: "old", URL: "https://github.com/o/old/pull/1", CreatedAt: now.Add(-25 * time.Hour)},
		{RepoName: "fresh", URL: "https://github.com/o/fresh/pull/2", CreatedAt: now.Add(-time.Hour)},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	valid := LoadHistory(path, now)
	require.Len(t, valid, 1)
	assert.Equal(t, "fresh", valid[0].RepoName)

	// pruned file is rewritten
	var onDisk []HistoryEntry
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk, 1)
}

func TestLoadHistoryUnreadable(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, LoadHistory(filepath.Join(dir, "missing.json"), time.Now()))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))
	assert.Nil(t, LoadHistory(corrupt, time.Now()))
}
