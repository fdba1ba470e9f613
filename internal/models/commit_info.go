package models

// CommitInfo contains information about a git commit
type CommitInfo struct {
	// Hash is the full commit hash
	Hash string
	// Message is the first line of commit message
	Message string
	// Parents is the number of parent commits; more than one means a merge
	Parents int
}

// NewCommitInfo creates a new CommitInfo
func NewCommitInfo(hash, message string, parents int) CommitInfo {
	return CommitInfo{
		Hash:    hash,
		Message: message,
		Parents: parents,
	}
}

// Short returns the 7 character abbreviated hash
func (c CommitInfo) Short() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// IsMerge reports whether the commit has more than one parent
func (c CommitInfo) IsMerge() bool {
	return c.Parents > 1
}
