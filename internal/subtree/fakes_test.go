package subtree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wahlandcase/subsync/internal/models"
)

// recorder collects "<target>:<op>" entries across both fakes so tests can
// assert ordering
type recorder struct {
	calls []string
}

func (r *recorder) add(target, op string) {
	r.calls = append(r.calls, target+":"+op)
}

type fakeHosting struct {
	rec *recorder
	// open pull requests per target name
	open map[string][]models.PullRequest
	// remote branches per target name
	branches map[string]map[string]bool

	findErr   map[string]error
	closeErr  map[string]error
	createErr map[string]error
	deleteErr map[string]error

	closedBodies []string
	created      []models.NewPullRequest
}

func newFakeHosting(rec *recorder) *fakeHosting {
	return &fakeHosting{
		rec:       rec,
		open:      map[string][]models.PullRequest{},
		branches:  map[string]map[string]bool{},
		findErr:   map[string]error{},
		closeErr:  map[string]error{},
		createErr: map[string]error{},
		deleteErr: map[string]error{},
	}
}

func (f *fakeHosting) addOpenPR(target string, pr models.PullRequest) {
	f.open[target] = append(f.open[target], pr)
	if f.branches[target] == nil {
		f.branches[target] = map[string]bool{}
	}
	f.branches[target][pr.HeadBranch] = true
}

func (f *fakeHosting) FindOpenPRs(ctx context.Context, target models.RepoTarget, title string) ([]models.PullRequest, error) {
	f.rec.add(target.Name, "find")
	if err := f.findErr[target.Name]; err != nil {
		return nil, err
	}
	var matches []models.PullRequest
	for _, pr := range f.open[target.Name] {
		if pr.Title == title && pr.State == models.StateOpen {
			matches = append(matches, pr)
		}
	}
	return matches, nil
}

func (f *fakeHosting) ClosePR(ctx context.Context, target models.RepoTarget, pr models.PullRequest, body string) error {
	f.rec.add(target.Name, fmt.Sprintf("close#%d", pr.Number))
	if err := f.closeErr[target.Name]; err != nil {
		return err
	}
	for i := range f.open[target.Name] {
		if f.open[target.Name][i].Number == pr.Number {
			f.open[target.Name][i].State = models.StateClosed
			f.open[target.Name][i].Body = body
		}
	}
	f.closedBodies = append(f.closedBodies, body)
	return nil
}

func (f *fakeHosting) DeleteBranch(ctx context.Context, target models.RepoTarget, branch string) error {
	f.rec.add(target.Name, "delete:"+branch)
	if err := f.deleteErr[target.Name]; err != nil {
		return err
	}
	if !f.branches[target.Name][branch] {
		return fmt.Errorf("branch %s: %w", branch, models.ErrRefNotFound)
	}
	delete(f.branches[target.Name], branch)
	return nil
}

func (f *fakeHosting) CreatePR(ctx context.Context, target models.RepoTarget, pr models.NewPullRequest) (*models.PullRequest, error) {
	f.rec.add(target.Name, "create")
	if err := f.createErr[target.Name]; err != nil {
		return nil, err
	}
	for _, existing := range f.open[target.Name] {
		if existing.State == models.StateOpen && existing.HeadBranch == pr.Head {
			return nil, &models.HostingAPIError{Op: "create pull request", Status: 422, Err: fmt.Errorf("a pull request already exists for %s", pr.Head)}
		}
	}
	f.created = append(f.created, pr)
	record := models.PullRequest{
		Number:     100 + len(f.created),
		Title:      pr.Title,
		State:      models.StateOpen,
		HeadBranch: pr.Head,
		BaseBranch: pr.Base,
		Body:       pr.Body,
		URL:        fmt.Sprintf("https://github.com/o/%s/pull/%d", target.Name, 100+len(f.created)),
	}
	f.open[target.Name] = append(f.open[target.Name], record)
	return &record, nil
}

type fakeVCS struct {
	rec *recorder

	cloneErr   map[string]error
	pullErr    map[string]error
	isolateErr map[string]error
	replayErr  map[string]error
	pushErr    map[string]error
	// newCommits overrides the commits reported between base and branch
	newCommits map[string][]models.CommitInfo

	// current branch per clone
	branch map[string]string
	pushed map[string]string
}

func newFakeVCS(rec *recorder) *fakeVCS {
	return &fakeVCS{
		rec:        rec,
		cloneErr:   map[string]error{},
		pullErr:    map[string]error{},
		isolateErr: map[string]error{},
		replayErr:  map[string]error{},
		pushErr:    map[string]error{},
		newCommits: map[string][]models.CommitInfo{},
		branch:     map[string]string{},
		pushed:     map[string]string{},
	}
}

func name(dir string) string {
	return filepath.Base(dir)
}

func (f *fakeVCS) Clone(ctx context.Context, url, dir string, creds models.Credentials) error {
	f.rec.add(name(dir), "clone")
	if err := f.cloneErr[name(dir)]; err != nil {
		return err
	}
	f.branch[name(dir)] = "default"
	return os.MkdirAll(dir, 0755)
}

func (f *fakeVCS) Head(ctx context.Context, dir string) (string, error) {
	return "before-" + name(dir), nil
}

func (f *fakeVCS) Checkout(ctx context.Context, dir, branch string) error {
	f.rec.add(name(dir), "checkout:"+branch)
	f.branch[name(dir)] = branch
	return nil
}

func (f *fakeVCS) CheckoutNewBranch(ctx context.Context, dir, branch, from string) error {
	f.rec.add(name(dir), "branch:"+branch)
	f.branch[name(dir)] = branch
	return nil
}

func (f *fakeVCS) SubtreePull(ctx context.Context, dir, prefix, url, branch string) error {
	f.rec.add(name(dir), "subtree-pull@"+f.branch[name(dir)])
	return f.pullErr[name(dir)]
}

func (f *fakeVCS) IsolateCommit(ctx context.Context, dir, before string) (string, error) {
	f.rec.add(name(dir), "isolate")
	if err := f.isolateErr[name(dir)]; err != nil {
		return "", err
	}
	return "squash-" + name(dir), nil
}

func (f *fakeVCS) ReplayCommit(ctx context.Context, dir, hash, prefix string) error {
	f.rec.add(name(dir), "replay:"+hash+"@"+f.branch[name(dir)])
	return f.replayErr[name(dir)]
}

func (f *fakeVCS) NewCommits(ctx context.Context, dir, base, head string) ([]models.CommitInfo, error) {
	if commits, ok := f.newCommits[name(dir)]; ok {
		return commits, nil
	}
	return []models.CommitInfo{models.NewCommitInfo("picked-"+name(dir), "Squashed '.github/' changes", 1)}, nil
}

func (f *fakeVCS) Push(ctx context.Context, dir, branch string, creds models.Credentials) error {
	f.rec.add(name(dir), "push:"+branch)
	if err := f.pushErr[name(dir)]; err != nil {
		return err
	}
	f.pushed[name(dir)] = branch
	return nil
}
