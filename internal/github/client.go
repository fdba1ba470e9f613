package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"
)

const pageSize = 100

// Client talks to the GitHub REST API for one run
type Client struct {
	gh *github.Client
}

// NewClient creates a GitHub client authenticated with a bearer token.
// An empty baseURL targets github.com; otherwise a GitHub Enterprise host.
func NewClient(ctx context.Context, token, baseURL string) (*Client, error) {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	if baseURL == "" {
		return &Client{gh: github.NewClient(httpClient)}, nil
	}

	gh, err := github.NewEnterpriseClient(baseURL, baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create github enterprise client: %w", err)
	}
	return &Client{gh: gh}, nil
}

// NewClientWith wraps an existing go-github client
func NewClientWith(gh *github.Client) *Client {
	return &Client{gh: gh}
}

// FindOpenPRs returns every open pull request whose title equals title,
// walking all pages
func (c *Client) FindOpenPRs(ctx context.Context, target models.RepoTarget, title string) ([]models.PullRequest, error) {
	owner, repo, err := target.OwnerRepo()
	if err != nil {
		return nil, &models.HostingAPIError{Op: "list pull requests", Err: err}
	}

	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var matches []models.PullRequest
	for {
		pulls, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, apiError("list pull requests", resp, err)
		}

		for _, pr := range pulls {
			slog.Debug("checking pull request title", "repo", target.Name, "number", pr.GetNumber(), "title", pr.GetTitle())
			if pr.GetTitle() == title {
				matches = append(matches, toModel(pr))
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return matches, nil
}

// ClosePR closes pr and replaces its body
func (c *Client) ClosePR(ctx context.Context, target models.RepoTarget, pr models.PullRequest, body string) error {
	owner, repo, err := target.OwnerRepo()
	if err != nil {
		return &models.HostingAPIError{Op: "close pull request", Err: err}
	}

	_, resp, err := c.gh.PullRequests.Edit(ctx, owner, repo, pr.Number, &github.PullRequest{
		State: github.String(models.StateClosed),
		Body:  github.String(body),
	})
	if err != nil {
		return apiError(fmt.Sprintf("close pull request #%d", pr.Number), resp, err)
	}
	return nil
}

// DeleteBranch deletes refs/heads/branch. A missing ref yields models.ErrRefNotFound.
func (c *Client) DeleteBranch(ctx context.Context, target models.RepoTarget, branch string) error {
	owner, repo, err := target.OwnerRepo()
	if err != nil {
		return &models.HostingAPIError{Op: "delete branch", Err: err}
	}

	resp, err := c.gh.Git.DeleteRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		if refMissing(resp, err) {
			return fmt.Errorf("branch %s: %w", branch, models.ErrRefNotFound)
		}
		return apiError("delete branch "+branch, resp, err)
	}
	return nil
}

// CreatePR opens a new pull request
func (c *Client) CreatePR(ctx context.Context, target models.RepoTarget, pr models.NewPullRequest) (*models.PullRequest, error) {
	owner, repo, err := target.OwnerRepo()
	if err != nil {
		return nil, &models.HostingAPIError{Op: "create pull request", Err: err}
	}

	created, resp, err := c.gh.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(pr.Title),
		Body:  github.String(pr.Body),
		Head:  github.String(pr.Head),
		Base:  github.String(pr.Base),
	})
	if err != nil {
		return nil, apiError("create pull request", resp, err)
	}

	result := toModel(created)
	return &result, nil
}

// refMissing reports whether a failed ref deletion means the ref is already
// gone: a 404, or a 422 whose message is "Reference does not exist". Other
// 422s (protected branches, validation) are real failures.
func refMissing(resp *github.Response, err error) bool {
	if resp == nil {
		return false
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return true
	case http.StatusUnprocessableEntity:
		var ghErr *github.ErrorResponse
		return errors.As(err, &ghErr) && strings.Contains(ghErr.Message, "Reference does not exist")
	}
	return false
}

func toModel(pr *github.PullRequest) models.PullRequest {
	return models.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		State:      pr.GetState(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		Body:       pr.GetBody(),
		URL:        pr.GetHTMLURL(),
	}
}

func apiError(op string, resp *github.Response, err error) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && len(ghErr.Errors) > 0 {
		var details []string
		for _, e := range ghErr.Errors {
			if e.Message != "" {
				details = append(details, e.Message)
			} else {
				details = append(details, e.Code)
			}
		}
		err = fmt.Errorf("%s (%s)", ghErr.Message, strings.Join(details, "; "))
	}
	return &models.HostingAPIError{Op: op, Status: status, Err: err}
}
