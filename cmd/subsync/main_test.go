package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/wahlandcase/subsync/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the test away from the real user config and hosting tokens
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	for _, key := range []string{"SUBSYNC_TOKEN", "SUBSYNC_USER", "GITHUB_TOKEN", "GH_TOKEN", "GITLAB_TOKEN"} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(t.Context(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestMissingRepoFieldAbortsBeforeCloning(t *testing.T) {
	dir := isolate(t)
	settings := writeFile(t, filepath.Join(dir, "subsync.toml"), "")
	repos := writeFile(t, filepath.Join(dir, "repos.yaml"), `
repos:
  - name: mu_basecore
    url: https://github.com/example/mu_basecore.git
    base: main
  - name: mu_plus
    base: main
`)
	workdir := filepath.Join(dir, "ws")

	code, _, stderr := runCLI(t,
		"--config", settings,
		"--repos", repos,
		"--token", "secret",
		"--user", "mu-bot",
		"--workdir", workdir,
		"--no-color",
	)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "repos[1] is missing required field(s): url")
	assert.NoDirExists(t, workdir, "nothing is cloned")
}

func TestTokenIsRequired(t *testing.T) {
	dir := isolate(t)
	settings := writeFile(t, filepath.Join(dir, "subsync.toml"), "")

	code, _, stderr := runCLI(t, "--config", settings, "--user", "mu-bot", "--repos", filepath.Join(dir, "repos.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--token is required")
}

func TestRepoListIsRequired(t *testing.T) {
	dir := isolate(t)
	settings := writeFile(t, filepath.Join(dir, "subsync.toml"), "")

	code, _, stderr := runCLI(t, "--config", settings, "-T", "secret", "-U", "mu-bot")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no repository list")
}

func TestInvalidSettings(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name     string
		settings string
		args     []string
		wantMsg  string
	}{
		{
			name:     "unknown provider flag",
			settings: "",
			args:     []string{"--provider", "bitbucket"},
			wantMsg:  `unknown hosting.provider "bitbucket"`,
		},
		{
			name:     "empty prefix flag",
			settings: "",
			args:     []string{"--prefix", ""},
			wantMsg:  "source.prefix must not be empty",
		},
		{
			name:     "unparsable file",
			settings: "[source\nurl = ",
			wantMsg:  "cannot parse settings",
		},
		{
			name:     "bad log level",
			settings: "[[repos]]\nname = \"a\"\nurl = \"https://github.com/o/a.git\"\nbase = \"main\"\n",
			args:     []string{"--log-level", "loud"},
			wantMsg:  `invalid --log-level "loud"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := writeFile(t, filepath.Join(dir, tt.name, "subsync.toml"), tt.settings)
			args := append([]string{"--config", settings, "-T", "secret", "-U", "mu-bot", "--workdir", filepath.Join(dir, "ws")}, tt.args...)

			code, _, stderr := runCLI(t, args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.wantMsg)
		})
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	dir := isolate(t)
	code, _, stderr := runCLI(t, "--config", filepath.Join(dir, "nope.toml"), "-T", "secret", "-U", "mu-bot")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cannot read settings")
}

func TestConfigInitAndPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "subsync.toml")

	code, stdout, _ := runCLI(t, "config", "path", "--config", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, path+"\n", stdout)

	code, stdout, _ = runCLI(t, "config", "init", "--config", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mu_common_github")
	assert.Contains(t, string(data), "subtree/github/update")

	code, _, stderr := runCLI(t, "config", "init", "--config", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")

	code, _, _ = runCLI(t, "config", "init", "--force", "--config", path)
	assert.Equal(t, 0, code)
}

func TestConfigPathDefault(t *testing.T) {
	isolate(t)
	configDir, err := os.UserConfigDir()
	require.NoError(t, err)

	code, stdout, _ := runCLI(t, "config", "path")
	assert.Equal(t, 0, code)
	assert.Equal(t, filepath.Join(configDir, "subsync.toml")+"\n", stdout)
}

func TestHistoryCommand(t *testing.T) {
	isolate(t)
	historyPath, err := app.HistoryPath()
	require.NoError(t, err)

	code, stdout, _ := runCLI(t, "history")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No pull requests opened in the last 24h")

	writeFile(t, historyPath, `[
  {"repo_name": "mu_basecore", "url": "https://github.com/o/mu_basecore/pull/4", "base": "main", "created_at": "2999-01-01T00:00:00Z"}
]`)
	code, stdout, _ = runCLI(t, "history")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "https://github.com/o/mu_basecore/pull/4")
}
