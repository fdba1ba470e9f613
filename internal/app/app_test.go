package app

import (
	"strings"
	"testing"

	"github.com/wahlandcase/subsync/internal/models"
	"github.com/wahlandcase/subsync/internal/subtree"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *subtree.Orchestrator) {
	t.Helper()
	req := models.UpdateRequest{
		Prefix:       ".github/",
		SourceURL:    "https://github.com/example/mu_common_github.git",
		SourceBranch: "main",
		Branch:       "subtree/github/update",
	}
	orch := subtree.New(nil, nil, req, t.TempDir())
	targets := []models.RepoTarget{
		models.NewRepoTarget("mu_basecore", "https://github.com/o/mu_basecore.git", "main"),
		models.NewRepoTarget("mu_plus", "https://github.com/o/mu_plus.git", "dev"),
	}
	return New(t.Context(), orch, targets, nil), orch
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestProgressIsForwardedToModel(t *testing.T) {
	m, orch := newTestModel(t)
	require.NotNil(t, orch.Progress)

	orch.Progress(subtree.Progress{Target: "mu_plus", Step: models.StepClone, Message: "cloning"})
	msg := listenForProgress(m.progressCh)()
	require.IsType(t, progressMsg{}, msg)

	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, 1, m.current)
	assert.Equal(t, "running", m.rows[1].status)
	assert.Equal(t, models.StepClone, m.rows[1].step)
	assert.Equal(t, "cloning", m.rows[1].message)
	assert.Empty(t, m.rows[0].status)

	m, _ = update(t, m, progressMsg{progress: subtree.Progress{Target: "mu_plus", Step: models.StepDone, Message: "failed"}})
	assert.Equal(t, "failed", m.rows[1].status)
	assert.Equal(t, 1, m.completed())
}

func TestListenForProgressClosedChannel(t *testing.T) {
	ch := make(chan subtree.Progress)
	close(ch)
	assert.Nil(t, listenForProgress(ch)())
	assert.Nil(t, listenForProgress(nil)())
}

func TestRunFinishedShowsSummary(t *testing.T) {
	m, _ := newTestModel(t)

	results := []models.TargetResult{
		{Target: m.targets[0], Status: models.Created, Step: models.StepDone, PrURL: "https://github.com/o/mu_basecore/pull/3"},
		{Target: m.targets[1], Status: models.Failed("push of subtree/github/update rejected"), Step: models.StepSync},
	}
	m, _ = update(t, m, runFinishedMsg{results: results})

	assert.Equal(t, ScreenSummary, m.screen)
	assert.Equal(t, results, m.Results())
	assert.False(t, m.Interrupted())
	assert.Equal(t, "created", m.rows[0].status)
	assert.Equal(t, "failed", m.rows[1].status)
	require.Len(t, m.history, 1)
	assert.Equal(t, "mu_basecore", m.history[0].RepoName)

	view := m.View()
	assert.Contains(t, view, "mu_basecore")
	assert.Contains(t, view, "push of subtree/github/update rejected")
}

func TestQuitWhileRunningInterrupts(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Interrupted())
	assert.Error(t, m.ctx.Err(), "run context is cancelled")
}

func TestHistoryNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m.history = []HistoryEntry{
		{RepoName: "a", URL: "https://github.com/o/a/pull/1"},
		{RepoName: "b", URL: "https://github.com/o/b/pull/2"},
	}
	m, _ = update(t, m, runFinishedMsg{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Equal(t, ScreenHistory, m.screen)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.historyIndex)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.historyIndex)

	assert.True(t, strings.Contains(m.View(), "History (2)"))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenSummary, m.screen)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Interrupted())
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, RenderHistory(nil), "No pull requests opened in the last 24h")
	out := RenderHistory([]HistoryEntry{{RepoName: "mu_basecore", URL: "https://github.com/o/mu_basecore/pull/9"}})
	assert.Contains(t, out, "mu_basecore")
	assert.Contains(t, out, "https://github.com/o/mu_basecore/pull/9")
}
