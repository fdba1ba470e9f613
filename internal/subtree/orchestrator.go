package subtree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wahlandcase/subsync/internal/models"
)

// Orchestrator processes targets one at a time: reconcile, clone, sync, publish
type Orchestrator struct {
	Reconciler   *Reconciler
	Synchronizer *Synchronizer
	Publisher    *Publisher
	VCS          VersionControl

	Request models.UpdateRequest
	// WorkDir is the clone root; each target is cloned into WorkDir/<name>
	WorkDir string
	// Cleanup removes each clone once its target is done
	Cleanup bool
	// Progress, when set, receives step notifications
	Progress ProgressFunc
}

// New wires an Orchestrator from the two capability implementations
func New(hosting Hosting, vcs VersionControl, req models.UpdateRequest, workDir string) *Orchestrator {
	return &Orchestrator{
		Reconciler:   &Reconciler{Hosting: hosting},
		Synchronizer: &Synchronizer{VCS: vcs},
		Publisher:    &Publisher{Hosting: hosting},
		VCS:          vcs,
		Request:      req,
		WorkDir:      workDir,
	}
}

// Run processes every target in order. A failing target is logged and
// recorded; the run moves on to the next target. Once ctx is cancelled the
// remaining targets are left untouched and only the finished results return.
func (o *Orchestrator) Run(ctx context.Context, targets []models.RepoTarget) []models.TargetResult {
	results := make([]models.TargetResult, 0, len(targets))
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			slog.Warn("run interrupted, skipping remaining repositories", "remaining", len(targets)-i, "error", err)
			break
		}
		slog.Info("starting subtree update", "repo", target.Name, "index", i+1, "total", len(targets))

		result := o.process(ctx, target)
		if models.IsStatusFailed(result.Status) {
			slog.Error("subtree update failed", "repo", target.Name, "step", result.Step, "error", models.GetStatusReason(result.Status))
		} else {
			slog.Info("subtree update finished", "repo", target.Name, "status", models.StatusLabel(result.Status), "url", result.PrURL)
		}
		o.Progress.send(target.Name, models.StepDone, models.StatusLabel(result.Status))

		results = append(results, result)
	}
	return results
}

func (o *Orchestrator) process(ctx context.Context, target models.RepoTarget) models.TargetResult {
	result := models.TargetResult{Target: target}
	fail := func(step models.Step, err error) models.TargetResult {
		result.Step = step
		result.Status = models.Failed(err.Error())
		return result
	}

	result.Step = models.StepReconcile
	o.Progress.send(target.Name, models.StepReconcile, "closing stale pull requests")
	closed, err := o.Reconciler.Reconcile(ctx, target, o.Request)
	if err != nil {
		return fail(models.StepReconcile, err)
	}
	result.Closed = closed

	result.Step = models.StepClone
	dir := filepath.Join(o.WorkDir, target.Name)
	slog.Info("cloning repository", "repo", target.Name, "dir", dir)
	o.Progress.send(target.Name, models.StepClone, "cloning into "+dir)
	if err := os.MkdirAll(o.WorkDir, 0755); err != nil {
		return fail(models.StepClone, fmt.Errorf("failed to create workspace: %w", err))
	}
	if err := o.VCS.Clone(ctx, target.URL, dir, o.Request.Credentials()); err != nil {
		return fail(models.StepClone, err)
	}
	if o.Cleanup {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				slog.Warn("failed to remove clone", "dir", dir, "error", err)
			}
		}()
	}

	result.Step = models.StepSync
	commit, err := o.Synchronizer.Sync(ctx, target, o.Request, dir, o.Progress)
	if err != nil {
		return fail(models.StepSync, err)
	}
	result.Commit = commit

	result.Step = models.StepPublish
	o.Progress.send(target.Name, models.StepPublish, "opening pull request")
	pr, err := o.Publisher.Publish(ctx, target, o.Request)
	if err != nil {
		return fail(models.StepPublish, err)
	}

	result.Step = models.StepDone
	if pr == nil {
		result.Status = models.DryRun
		return result
	}
	result.Status = models.Created
	result.PrURL = pr.URL
	return result
}

// ExitCode is 0 when the list was empty or at least one target succeeded,
// 1 when every target failed
func ExitCode(results []models.TargetResult) int {
	if len(results) == 0 {
		return 0
	}
	for _, r := range results {
		if models.IsStatusSuccess(r.Status) {
			return 0
		}
	}
	return 1
}
