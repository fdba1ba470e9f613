package subtree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wahlandcase/subsync/internal/models"
)

// Reconciler ensures no stale automated pull request is left open before a
// new one is created
type Reconciler struct {
	Hosting Hosting
}

// Reconcile closes every open pull request titled exactly req.Title and
// deletes the branch backing it. A branch that is already gone is fine.
// Returns the number of pull requests closed (or that would be, in dry-run).
func (r *Reconciler) Reconcile(ctx context.Context, target models.RepoTarget, req models.UpdateRequest) (int, error) {
	slog.Info("searching for an open subtree update pull request", "repo", target.Name, "title", req.Title)

	prs, err := r.Hosting.FindOpenPRs(ctx, target, req.Title)
	if err != nil {
		return 0, err
	}
	if len(prs) > 1 {
		slog.Warn("more than one open pull request matches; closing all of them", "repo", target.Name, "count", len(prs))
	}

	deleted := make(map[string]bool)
	for _, pr := range prs {
		branch := pr.HeadBranch
		if branch == "" {
			branch = req.Branch
		}

		if req.DryRun {
			slog.Info("dry run: would close pull request and delete its branch", "repo", target.Name, "number", pr.Number, "branch", branch)
			continue
		}

		slog.Info("closing pull request and deleting its branch", "repo", target.Name, "number", pr.Number, "branch", branch)
		if err := r.Hosting.ClosePR(ctx, target, pr, ReplacedBody); err != nil {
			return 0, err
		}

		if deleted[branch] {
			continue
		}
		if err := r.Hosting.DeleteBranch(ctx, target, branch); err != nil {
			if !errors.Is(err, models.ErrRefNotFound) {
				return 0, fmt.Errorf("closed #%d but could not delete %s: %w", pr.Number, branch, err)
			}
			slog.Debug("branch already deleted", "repo", target.Name, "branch", branch)
		}
		deleted[branch] = true
	}

	return len(prs), nil
}
