package subtree

import (
	"context"
	"log/slog"

	"github.com/wahlandcase/subsync/internal/models"
)

// Publisher opens the subtree update pull request
type Publisher struct {
	Hosting Hosting
}

// Publish creates the pull request from req.Branch into the target's base.
// Without a prior reconcile the hosting platform rejects the duplicate head
// branch and the HostingAPIError is returned as is.
func (p *Publisher) Publish(ctx context.Context, target models.RepoTarget, req models.UpdateRequest) (*models.PullRequest, error) {
	if req.DryRun {
		slog.Info("dry run: would create pull request", "repo", target.Name, "title", req.Title, "head", req.Branch, "base", target.Base)
		return nil, nil
	}

	slog.Info("creating the subtree update pull request", "repo", target.Name, "head", req.Branch, "base", target.Base)
	pr, err := p.Hosting.CreatePR(ctx, target, models.NewPullRequest{
		Title: req.Title,
		Body:  req.Body,
		Head:  req.Branch,
		Base:  target.Base,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created pull request", "repo", target.Name, "number", pr.Number, "url", pr.URL)
	return pr, nil
}
