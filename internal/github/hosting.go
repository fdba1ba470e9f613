package github

import (
	"context"
	"fmt"

	"github.com/wahlandcase/subsync/internal/models"
)

// Hosting is the pull request surface shared by the GitHub and GitLab clients
type Hosting interface {
	FindOpenPRs(ctx context.Context, target models.RepoTarget, title string) ([]models.PullRequest, error)
	ClosePR(ctx context.Context, target models.RepoTarget, pr models.PullRequest, body string) error
	DeleteBranch(ctx context.Context, target models.RepoTarget, branch string) error
	CreatePR(ctx context.Context, target models.RepoTarget, pr models.NewPullRequest) (*models.PullRequest, error)
}

var (
	_ Hosting = (*Client)(nil)
	_ Hosting = (*GitLab)(nil)
)

// New returns the hosting client for provider ("github" or "gitlab")
func New(ctx context.Context, provider, token, baseURL string) (Hosting, error) {
	switch provider {
	case "", "github":
		return NewClient(ctx, token, baseURL)
	case "gitlab":
		return NewGitLab(token, baseURL)
	default:
		return nil, &models.ConfigurationError{Msg: fmt.Sprintf("unknown hosting provider %q", provider)}
	}
}
