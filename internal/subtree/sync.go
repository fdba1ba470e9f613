package subtree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wahlandcase/subsync/internal/models"
)

// Synchronizer produces, on req.Branch, exactly one new commit on top of the
// target's base carrying the upstream subtree content. The subtree pull runs
// on a scratch branch and leaves a merge commit over the squash commit; only
// the squash commit is cherry-picked, so the pull request branch holds no
// merge commit and stays rebase and fast-forward mergeable.
type Synchronizer struct {
	VCS VersionControl
}

// Sync runs the procedure inside the clone at dir and returns the hash of
// the replayed content commit
func (s *Synchronizer) Sync(ctx context.Context, target models.RepoTarget, req models.UpdateRequest, dir string, progress ProgressFunc) (string, error) {
	progress.send(target.Name, models.StepSync, "creating scratch branch")
	if err := s.VCS.CheckoutNewBranch(ctx, dir, ScratchBranch, ""); err != nil {
		return "", fmt.Errorf("failed to create scratch branch: %w", err)
	}
	before, err := s.VCS.Head(ctx, dir)
	if err != nil {
		return "", err
	}

	slog.Info("performing the subtree pull", "repo", target.Name, "prefix", req.Prefix, "branch", req.SourceBranch)
	progress.send(target.Name, models.StepSync, "pulling subtree "+req.Prefix)
	if err := s.VCS.SubtreePull(ctx, dir, req.Prefix, req.SourceURL, req.SourceBranch); err != nil {
		return "", err
	}

	content, err := s.VCS.IsolateCommit(ctx, dir, before)
	if err != nil {
		return "", err
	}
	slog.Debug("isolated subtree content commit", "repo", target.Name, "commit", content)

	progress.send(target.Name, models.StepSync, "replaying onto "+target.Base)
	if err := s.VCS.Checkout(ctx, dir, target.Base); err != nil {
		return "", fmt.Errorf("failed to checkout base %s: %w", target.Base, err)
	}
	if err := s.VCS.CheckoutNewBranch(ctx, dir, req.Branch, ""); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", req.Branch, err)
	}
	if err := s.VCS.ReplayCommit(ctx, dir, content, req.Prefix); err != nil {
		return "", err
	}

	commits, err := s.VCS.NewCommits(ctx, dir, target.Base, req.Branch)
	if err != nil {
		return "", err
	}
	if len(commits) != 1 || commits[0].IsMerge() {
		return "", &models.SyncError{Msg: fmt.Sprintf("%s should be one non-merge commit ahead of %s, found %d commit(s)", req.Branch, target.Base, len(commits))}
	}

	if req.DryRun {
		slog.Info("dry run: skipping push", "repo", target.Name, "branch", req.Branch)
		return commits[0].Hash, nil
	}

	slog.Info("pushing the subtree pull commit", "repo", target.Name, "branch", req.Branch)
	progress.send(target.Name, models.StepSync, "pushing "+req.Branch)
	if err := s.VCS.Push(ctx, dir, req.Branch, req.Credentials()); err != nil {
		return "", err
	}

	return commits[0].Hash, nil
}
