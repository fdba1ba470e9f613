package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/xanzy/go-gitlab"
)

// GitLab implements the same hosting operations against merge requests
type GitLab struct {
	gl *gitlab.Client
}

// NewGitLab creates a GitLab client. An empty baseURL targets gitlab.com.
func NewGitLab(token, baseURL string) (*GitLab, error) {
	// Failures are reported per target, never retried
	opts := []gitlab.ClientOptionFunc{gitlab.WithCustomRetryMax(0)}
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}
	gl, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return &GitLab{gl: gl}, nil
}

// FindOpenPRs returns every opened merge request whose title equals title
func (g *GitLab) FindOpenPRs(ctx context.Context, target models.RepoTarget, title string) ([]models.PullRequest, error) {
	projectID, err := target.Slug()
	if err != nil {
		return nil, &models.HostingAPIError{Op: "list merge requests", Err: err}
	}

	opts := &gitlab.ListProjectMergeRequestsOptions{
		State: gitlab.Ptr("opened"),
		ListOptions: gitlab.ListOptions{
			Page:    1,
			PerPage: pageSize,
		},
	}

	var matches []models.PullRequest
	for {
		mergeRequests, resp, err := g.gl.MergeRequests.ListProjectMergeRequests(projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, gitlabError("list merge requests", resp, err)
		}

		for _, mr := range mergeRequests {
			slog.Debug("checking merge request title", "repo", target.Name, "iid", mr.IID, "title", mr.Title)
			if mr.Title == title {
				matches = append(matches, models.PullRequest{
					Number:     mr.IID,
					Title:      mr.Title,
					State:      models.StateOpen,
					HeadBranch: mr.SourceBranch,
					BaseBranch: mr.TargetBranch,
					Body:       mr.Description,
					URL:        mr.WebURL,
				})
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return matches, nil
}

// ClosePR closes the merge request and replaces its description
func (g *GitLab) ClosePR(ctx context.Context, target models.RepoTarget, pr models.PullRequest, body string) error {
	projectID, err := target.Slug()
	if err != nil {
		return &models.HostingAPIError{Op: "close merge request", Err: err}
	}

	_, resp, err := g.gl.MergeRequests.UpdateMergeRequest(projectID, pr.Number, &gitlab.UpdateMergeRequestOptions{
		StateEvent:  gitlab.Ptr("close"),
		Description: gitlab.Ptr(body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return gitlabError(fmt.Sprintf("close merge request !%d", pr.Number), resp, err)
	}
	return nil
}

// DeleteBranch deletes branch. A missing branch yields models.ErrRefNotFound.
func (g *GitLab) DeleteBranch(ctx context.Context, target models.RepoTarget, branch string) error {
	projectID, err := target.Slug()
	if err != nil {
		return &models.HostingAPIError{Op: "delete branch", Err: err}
	}

	resp, err := g.gl.Branches.DeleteBranch(projectID, branch, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("branch %s: %w", branch, models.ErrRefNotFound)
		}
		return gitlabError("delete branch "+branch, resp, err)
	}
	return nil
}

// CreatePR opens a new merge request
func (g *GitLab) CreatePR(ctx context.Context, target models.RepoTarget, pr models.NewPullRequest) (*models.PullRequest, error) {
	projectID, err := target.Slug()
	if err != nil {
		return nil, &models.HostingAPIError{Op: "create merge request", Err: err}
	}

	mr, resp, err := g.gl.MergeRequests.CreateMergeRequest(projectID, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(pr.Title),
		Description:  gitlab.Ptr(pr.Body),
		SourceBranch: gitlab.Ptr(pr.Head),
		TargetBranch: gitlab.Ptr(pr.Base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, gitlabError("create merge request", resp, err)
	}

	return &models.PullRequest{
		Number:     mr.IID,
		Title:      mr.Title,
		State:      models.StateOpen,
		HeadBranch: mr.SourceBranch,
		BaseBranch: mr.TargetBranch,
		Body:       mr.Description,
		URL:        mr.WebURL,
	}, nil
}

func gitlabError(op string, resp *gitlab.Response, err error) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return &models.HostingAPIError{Op: op, Status: status, Err: err}
}
