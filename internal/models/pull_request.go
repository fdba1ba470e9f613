package models

// PullRequest is the hosting-side pull (or merge) request record
type PullRequest struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	State      string `json:"state"`
	HeadBranch string `json:"head_branch"`
	BaseBranch string `json:"base_branch"`
	Body       string `json:"body"`
	URL        string `json:"url"`
}

// NewPullRequest describes a pull request to open
type NewPullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}

const (
	// StateOpen is the normalized state of an open pull request
	StateOpen = "open"
	// StateClosed is the normalized state of a closed pull request
	StateClosed = "closed"
)
