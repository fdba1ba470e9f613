package git

import (
	"context"
	"strings"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// NewCommits gets commits between two branches (base..head).
// Returns commits that are in head but not in base, newest first.
func (c *Client) NewCommits(ctx context.Context, dir, base, head string) ([]models.CommitInfo, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, err
	}

	baseHash, err := resolveBranch(repo, base)
	if err != nil {
		return nil, err
	}
	headHash, err := resolveBranch(repo, head)
	if err != nil {
		return nil, err
	}

	// Build set of commits reachable from base
	baseCommits := make(map[plumbing.Hash]bool)
	baseIter, err := repo.Log(&git.LogOptions{From: baseHash})
	if err != nil {
		return nil, err
	}
	err = baseIter.ForEach(func(c *object.Commit) error {
		baseCommits[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	headIter, err := repo.Log(&git.LogOptions{From: headHash})
	if err != nil {
		return nil, err
	}

	var commits []models.CommitInfo
	seen := make(map[plumbing.Hash]bool)
	err = headIter.ForEach(func(c *object.Commit) error {
		// Don't stop iteration - merge commits have multiple parents
		// and every path has to be walked.
		if seen[c.Hash] || baseCommits[c.Hash] {
			return nil
		}
		seen[c.Hash] = true

		message := strings.Split(c.Message, "\n")[0]
		commits = append(commits, models.NewCommitInfo(c.Hash.String(), message, c.NumParents()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}
