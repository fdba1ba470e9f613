// Package subtree drives one subtree update run: for each target it closes the
// stale automated pull request, clones, replays the subtree content commit onto
// a fresh branch, pushes it and opens a new pull request.
package subtree

import (
	"context"

	"github.com/wahlandcase/subsync/internal/models"
)

// Hosting is the pull request API of the hosting platform
type Hosting interface {
	FindOpenPRs(ctx context.Context, target models.RepoTarget, title string) ([]models.PullRequest, error)
	ClosePR(ctx context.Context, target models.RepoTarget, pr models.PullRequest, body string) error
	DeleteBranch(ctx context.Context, target models.RepoTarget, branch string) error
	CreatePR(ctx context.Context, target models.RepoTarget, pr models.NewPullRequest) (*models.PullRequest, error)
}

// VersionControl is the set of local git operations a sync needs
type VersionControl interface {
	Clone(ctx context.Context, url, dir string, creds models.Credentials) error
	Head(ctx context.Context, dir string) (string, error)
	Checkout(ctx context.Context, dir, branch string) error
	CheckoutNewBranch(ctx context.Context, dir, branch, from string) error
	SubtreePull(ctx context.Context, dir, prefix, url, branch string) error
	IsolateCommit(ctx context.Context, dir, before string) (string, error)
	ReplayCommit(ctx context.Context, dir, hash, prefix string) error
	NewCommits(ctx context.Context, dir, base, head string) ([]models.CommitInfo, error)
	Push(ctx context.Context, dir, branch string, creds models.Credentials) error
}

// ScratchBranch receives the subtree pull before the content commit is transplanted
const ScratchBranch = "subtree/scratch"

// ReplacedBody is written into every pull request closed by reconciliation
const ReplacedBody = "Replaced by newer Subtree update."

// Progress is one step notification emitted while processing a target
type Progress struct {
	Target string
	Step   models.Step
	// Message is a short human readable description of the step
	Message string
}

// ProgressFunc receives progress notifications; nil disables them
type ProgressFunc func(Progress)

func (f ProgressFunc) send(target string, step models.Step, msg string) {
	if f != nil {
		f(Progress{Target: target, Step: step, Message: msg})
	}
}
