// Package app is the interactive progress view shown with --tui. It runs the
// orchestrator in the background and renders per-target steps as they
// arrive, then the run summary and the 24h pull request history.
package app

import (
	"context"
	"time"

	"github.com/wahlandcase/subsync/internal/models"
	"github.com/wahlandcase/subsync/internal/subtree"
	"github.com/wahlandcase/subsync/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// progressBuffer bounds how many step notifications may queue between renders
const progressBuffer = 64

// targetRow is the display state of one target
type targetRow struct {
	name    string
	step    models.Step
	message string
	// status is a ui.StatusIcon label: "" while pending, "running", then
	// the final models.StatusLabel
	status string
}

// Model is the main application state
type Model struct {
	orch    *subtree.Orchestrator
	targets []models.RepoTarget
	dryRun  bool
	flow    string

	ctx    context.Context
	cancel context.CancelFunc

	// Navigation
	screen Screen

	// Run state
	rows        []targetRow
	current     int
	progressCh  chan subtree.Progress
	results     []models.TargetResult
	finished    bool
	interrupted bool

	// History (previous runs plus this one)
	history      []HistoryEntry
	historyIndex int

	// UI state
	spinnerFrame int
	width        int
	height       int
}

// New creates the application model. The orchestrator's progress callback is
// redirected into the model.
func New(ctx context.Context, orch *subtree.Orchestrator, targets []models.RepoTarget, history []HistoryEntry) Model {
	ctx, cancel := context.WithCancel(ctx)

	ch := make(chan subtree.Progress, progressBuffer)
	orch.Progress = func(p subtree.Progress) {
		select {
		case ch <- p:
		default:
			// Channel full, the final state comes with the results
		}
	}

	rows := make([]targetRow, len(targets))
	for i, t := range targets {
		rows[i] = targetRow{name: t.Name}
	}

	req := orch.Request
	return Model{
		orch:       orch,
		targets:    targets,
		dryRun:     req.DryRun,
		flow:       ui.SubtreeFlow(req.SourceURL, req.SourceBranch, req.Prefix, len(targets)),
		ctx:        ctx,
		cancel:     cancel,
		screen:     ScreenRunning,
		rows:       rows,
		progressCh: ch,
		history:    history,
		width:      80,
		height:     24,
	}
}

// Init starts the run and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		runCmd(m.ctx, m.orch, m.targets, m.progressCh),
		listenForProgress(m.progressCh),
	)
}

// Results returns the per-target outcomes once the run has finished
func (m Model) Results() []models.TargetResult {
	return m.results
}

// Interrupted reports whether the user quit before the run finished
func (m Model) Interrupted() bool {
	return m.interrupted
}

// tickMsg is sent on each tick for animations
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) completed() int {
	n := 0
	for _, r := range m.rows {
		if r.status != "" && r.status != "running" {
			n++
		}
	}
	return n
}
