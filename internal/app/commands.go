package app

import (
	"context"

	"github.com/wahlandcase/subsync/internal/models"
	"github.com/wahlandcase/subsync/internal/subtree"

	tea "github.com/charmbracelet/bubbletea"
)

// progressMsg is sent for real-time step updates while a target is processed
type progressMsg struct {
	progress subtree.Progress
}

// runFinishedMsg carries the results once every target has been processed
type runFinishedMsg struct {
	results []models.TargetResult
}

// listenForProgress creates a subscription that listens to the progress channel
func listenForProgress(ch chan subtree.Progress) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{progress: p}
	}
}

// runCmd processes every target and closes the progress channel when done
func runCmd(ctx context.Context, orch *subtree.Orchestrator, targets []models.RepoTarget, ch chan subtree.Progress) tea.Cmd {
	return func() tea.Msg {
		results := orch.Run(ctx, targets)
		close(ch)
		return runFinishedMsg{results: results}
	}
}
