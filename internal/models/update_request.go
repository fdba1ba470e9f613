package models

// UpdateRequest holds the parameters shared by every target in one run
type UpdateRequest struct {
	// Token is the hosting credential, used for the API and for git transport
	Token string
	// User is the identity pushes are attributed to
	User string
	// Prefix is the subtree directory, e.g. ".github/"
	Prefix string
	// SourceURL and SourceBranch locate the upstream subtree
	SourceURL    string
	SourceBranch string
	// Branch is the pull request head branch, force-reset on every run
	Branch string
	// Title and Body are the rendered pull request text
	Title string
	Body  string
	// AuthorName and AuthorEmail sign the commits made by subtree pull and cherry-pick
	AuthorName  string
	AuthorEmail string
	// DryRun skips every remote mutation (close, push, create)
	DryRun bool
}

// Credentials returns the user/token pair used for git transport
func (r UpdateRequest) Credentials() Credentials {
	return Credentials{Username: r.User, Password: r.Token}
}

// Credentials authenticate git transport operations
type Credentials struct {
	Username string
	Password string
}

// Empty reports whether no credentials were supplied
func (c Credentials) Empty() bool {
	return c.Username == "" && c.Password == ""
}
