package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner runs git CLI commands. Used for the operations go-git does not
// implement (subtree, cherry-pick).
type Runner struct {
	gitPath string
	// Identity passed as -c user.name/user.email so commits never depend on global config
	AuthorName  string
	AuthorEmail string
}

// NewRunner locates the git executable on PATH
func NewRunner(authorName, authorEmail string) (*Runner, error) {
	p, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("no 'git' program on path: %w", err)
	}
	return &Runner{
		gitPath:     p,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
	}, nil
}

// RunResult holds the captured output of a git command
type RunResult struct {
	Stdout string
	Stderr string
}

// Run runs a git command in dir. Omit the 'git' part of the command.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (RunResult, error) {
	var full []string
	if r.AuthorName != "" {
		full = append(full, "-c", "user.name="+r.AuthorName)
	}
	if r.AuthorEmail != "" {
		full = append(full, "-c", "user.email="+r.AuthorEmail)
	}
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, r.gitPath, full...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_MERGE_AUTOEDIT=no",
		"GIT_EDITOR=true",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return RunResult{Stdout: stdout.String(), Stderr: stderr.String()}, &GitError{
			Command: args[0],
			Args:    args,
			Output:  strings.TrimSpace(stderr.String() + "\n" + stdout.String()),
			Err:     err,
		}
	}
	return RunResult{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// GitError provides better context for git command failures
type GitError struct {
	Command string
	Args    []string
	Output  string
	Err     error
}

func (e *GitError) Error() string {
	if e.Output == "" {
		return "git " + e.Command + ": " + e.Err.Error()
	}
	return "git " + e.Command + ": " + e.Output
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// BranchNotFoundError indicates a branch was not found locally or on origin
type BranchNotFoundError struct {
	Branches []string
}

func (e *BranchNotFoundError) Error() string {
	return "branch not found: " + strings.Join(e.Branches, ", ")
}
