package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

const remoteName = "origin"

// Client performs the version-control steps of a subtree update. Local
// reads, branch handling, clone and push use go-git; subtree pull and
// cherry-pick shell out through Runner.
type Client struct {
	runner *Runner
}

// NewClient creates a Client backed by runner
func NewClient(runner *Runner) *Client {
	return &Client{runner: runner}
}

// Clone clones url into dir, replacing any stale clone left by a previous run
func (c *Client) Clone(ctx context.Context, remoteURL, dir string, creds models.Credentials) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove stale clone %s: %w", dir, err)
	}

	slog.Debug("cloning repository", "url", redact(remoteURL), "dir", dir)

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:        remoteURL,
		RemoteName: remoteName,
		Auth:       authFor(remoteURL, creds),
	})
	if err != nil {
		return &GitError{Command: "clone", Args: []string{redact(remoteURL)}, Err: err}
	}
	return nil
}

// Head returns the commit hash HEAD points at
func (c *Client) Head(ctx context.Context, dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// Checkout switches to branch, creating the local branch from origin when
// only the remote-tracking ref exists
func (c *Client) Checkout(ctx context.Context, dir, branch string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return err
	}

	refName := plumbing.NewBranchReferenceName(branch)
	if _, err := repo.Reference(refName, true); err != nil {
		hash, err := resolveBranch(repo, branch)
		if err != nil {
			return err
		}
		if err := repo.Storer.SetReference(plumbing.NewHashReference(refName, hash)); err != nil {
			return fmt.Errorf("failed to create local branch %s: %w", branch, err)
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	slog.Debug("checking out branch", "dir", dir, "branch", branch)
	if err := wt.Checkout(&git.CheckoutOptions{Branch: refName, Force: true}); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// CheckoutNewBranch creates (or resets) branch at from and checks it out.
// An empty from means the current HEAD.
func (c *Client) CheckoutNewBranch(ctx context.Context, dir, branch, from string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return err
	}

	var hash plumbing.Hash
	if from == "" {
		head, err := repo.Head()
		if err != nil {
			return fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		hash = head.Hash()
	} else {
		hash, err = resolveBranch(repo, from)
		if err != nil {
			return err
		}
	}

	refName := plumbing.NewBranchReferenceName(branch)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(refName, hash)); err != nil {
		return fmt.Errorf("failed to save branch %s: %w", branch, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	slog.Debug("creating branch", "dir", dir, "branch", branch, "from", hash.String())
	if err := wt.Checkout(&git.CheckoutOptions{Branch: refName, Force: true}); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// SubtreePull runs a squashed subtree pull of url@branch into prefix on the
// current branch
func (c *Client) SubtreePull(ctx context.Context, dir, prefix, sourceURL, branch string) error {
	// go-git checkouts leave index stat data git's own dirty check does not trust
	_, _ = c.runner.Run(ctx, dir, "update-index", "-q", "--refresh")

	slog.Debug("pulling subtree", "dir", dir, "prefix", prefix, "source", redact(sourceURL), "branch", branch)
	if _, err := c.runner.Run(ctx, dir, "subtree", "pull", "--prefix", prefix, sourceURL, branch, "--squash"); err != nil {
		return &models.SyncError{Msg: "subtree pull failed", Err: err}
	}
	return nil
}

// IsolateCommit returns the content-squash commit created by a subtree pull
// that started at before. HEAD must be a two-parent merge whose first parent
// is before; its second parent is the squash commit. Any other shape is a
// SyncError.
func (c *Client) IsolateCommit(ctx context.Context, dir, before string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	tip, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to read commit %s: %w", head.Hash(), err)
	}

	if tip.Hash.String() == before {
		return "", &models.SyncError{Msg: "subtree pull created no commit (already up to date?)"}
	}
	if tip.NumParents() != 2 {
		return "", &models.SyncError{Msg: fmt.Sprintf("expected a merge commit at %s, found %d parent(s)", short(tip.Hash), tip.NumParents())}
	}
	if tip.ParentHashes[0].String() != before {
		return "", &models.SyncError{Msg: fmt.Sprintf("merge commit %s does not sit directly on %s", short(tip.Hash), before)}
	}

	content, err := tip.Parent(1)
	if err != nil {
		return "", fmt.Errorf("failed to read squash commit: %w", err)
	}
	if content.NumParents() > 1 {
		return "", &models.SyncError{Msg: fmt.Sprintf("squash commit %s is itself a merge", short(content.Hash))}
	}

	slog.Debug("isolated content commit", "dir", dir, "merge", short(tip.Hash), "content", short(content.Hash))
	return content.Hash.String(), nil
}

// ReplayCommit cherry-picks hash onto the current branch, shifting its tree
// under prefix. A failed apply is aborted and reported as a ConflictError.
func (c *Client) ReplayCommit(ctx context.Context, dir, hash, prefix string) error {
	_, _ = c.runner.Run(ctx, dir, "update-index", "-q", "--refresh")

	slog.Debug("replaying commit", "dir", dir, "commit", hash, "prefix", prefix)
	_, err := c.runner.Run(ctx, dir, "cherry-pick", "-Xsubtree="+strings.TrimSuffix(prefix, "/"), hash)
	if err == nil {
		return nil
	}

	var gitErr *GitError
	output := err.Error()
	if errors.As(err, &gitErr) {
		output = gitErr.Output
	}

	var paths []string
	if res, diffErr := c.runner.Run(ctx, dir, "diff", "--name-only", "--diff-filter=U"); diffErr == nil {
		paths = strings.Fields(res.Stdout)
	}
	_, _ = c.runner.Run(ctx, dir, "cherry-pick", "--abort")

	if len(paths) > 0 || strings.Contains(output, "CONFLICT") || strings.Contains(output, "could not apply") {
		return &models.ConflictError{Commit: hash, Paths: paths, Output: output, Err: err}
	}
	return &models.SyncError{Msg: "cherry-pick of " + hash + " failed", Err: err}
}

// Push force-pushes branch to origin
func (c *Client) Push(ctx context.Context, dir, branch string, creds models.Credentials) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}
	var remoteURL string
	if urls := remote.Config().URLs; len(urls) > 0 {
		remoteURL = urls[0]
	}

	refName := plumbing.NewBranchReferenceName(branch)
	slog.Info("pushing refs", "localRef", refName.Short(), "remote", redact(remoteURL))

	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+%s:%s", refName, refName)),
		},
		Auth:  authFor(remoteURL, creds),
		Force: true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return &models.PushRejectedError{Branch: branch, Err: err}
	}
	return nil
}

// resolveBranch finds a branch by local name first, then on origin
func resolveBranch(repo *git.Repository, branch string) (plumbing.Hash, error) {
	if ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true); err == nil {
		return ref.Hash(), nil
	}
	if ref, err := repo.Reference(plumbing.NewRemoteReferenceName(remoteName, branch), true); err == nil {
		return ref.Hash(), nil
	}
	return plumbing.ZeroHash, &BranchNotFoundError{Branches: []string{branch}}
}

// authFor returns basic auth for http(s) remotes; other transports take none
func authFor(remoteURL string, creds models.Credentials) transport.AuthMethod {
	if creds.Empty() {
		return nil
	}
	u, err := url.Parse(remoteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return &http.BasicAuth{Username: creds.Username, Password: creds.Password}
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

func short(h plumbing.Hash) string {
	return h.String()[:7]
}
