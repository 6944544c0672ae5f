// Package gitrepo is the Repository Facade (C3): the sole point of
// contact with go-git, the same Git library the teacher repo already
// uses for tag iteration and commit walking. It generalizes the
// teacher's package-level globals (getTagCommit, getCommitsInRange,
// isAncestorCommit) into methods on a reusable, testable type, and adds
// the write-side operations (commit/tag/stash) the teacher never needed.
package gitrepo

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/logx"
)

// Facade wraps a go-git Repository with the operations the release
// engine needs: commit/tag enumeration, range walking, and the
// write-side operations of the bump transaction (C8).
type Facade struct {
	repo *git.Repository
	path string
	cache tagCache
}

// Open opens an existing repository rooted at path (the teacher's
// git.PlainOpen call, lifted into the facade).
func Open(path string) (*Facade, error) {
	path = filepath.Clean(path)
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, wrap("Open", err)
	}
	return &Facade{repo: repo, path: path}, nil
}

// Init creates a new repository at path (used by `cog init`).
func Init(path string) (*Facade, error) {
	path = filepath.Clean(path)
	repo, err := git.PlainInit(path, false)
	if err != nil {
		if err == git.ErrRepositoryAlreadyExists {
			return Open(path)
		}
		return nil, wrap("Init", err)
	}
	return &Facade{repo: repo, path: path}, nil
}

// Path returns the repository's root directory on disk.
func (f *Facade) Path() string { return f.path }

// Head returns the oid HEAD currently points at.
func (f *Facade) Head() (string, error) {
	ref, err := f.repo.Head()
	if err != nil {
		return "", wrap("Head", err)
	}
	return ref.Hash().String(), nil
}

// FindCommit resolves oid to a conventional.RawCommit ready for parsing.
func (f *Facade) FindCommit(oid string) (conventional.RawCommit, error) {
	c, err := f.repo.CommitObject(plumbing.NewHash(oid))
	if err != nil {
		return conventional.RawCommit{}, wrap("FindCommit", err)
	}
	return toRaw(c), nil
}

// CommitterDate returns the committer date of a commit, used for Release
// dates (spec invariant: date == committer date of the tip commit).
func (f *Facade) CommitterDate(oid string) (time.Time, error) {
	c, err := f.repo.CommitObject(plumbing.NewHash(oid))
	if err != nil {
		return time.Time{}, wrap("CommitterDate", err)
	}
	return c.Committer.When, nil
}

func toRaw(c *object.Commit) conventional.RawCommit {
	return conventional.RawCommit{
		Oid:         c.Hash.String(),
		Author:      c.Author.Name,
		Committer:   c.Committer.Name,
		CommittedAt: c.Committer.When,
		Message:     c.Message,
	}
}

// WalkOptions tweaks the commit walk.
type WalkOptions struct {
	// OnlyFirstParent restricts the walk to the first-parent chain
	// (the only_first_parent config key, §4.3).
	OnlyFirstParent bool
}

// Walk yields commits reachable from `to` but not from `from`, tip
// (to) first, the same ordering guarantee the teacher's
// getCommitsInRange implements by hand via two BSF walks and a seen set.
// from == "" means "from the root" (equivalent to FirstCommit..to).
func (f *Facade) Walk(from, to string, opts WalkOptions) ([]conventional.RawCommit, error) {
	toCommit, err := f.repo.CommitObject(plumbing.NewHash(to))
	if err != nil {
		return nil, wrap("Walk", err)
	}

	excluded := make(map[plumbing.Hash]bool)
	if from != "" {
		fromCommit, err := f.repo.CommitObject(plumbing.NewHash(from))
		if err != nil {
			return nil, wrap("Walk", err)
		}
		if err := f.collectReachable(fromCommit, opts.OnlyFirstParent, excluded); err != nil {
			return nil, wrap("Walk", err)
		}
	}

	var out []conventional.RawCommit
	iter := commitIter(toCommit, opts.OnlyFirstParent)
	err = iter.ForEach(func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}
		out = append(out, toRaw(c))
		return nil
	})
	if err != nil {
		return nil, wrap("Walk", err)
	}
	return out, nil
}

func (f *Facade) collectReachable(start *object.Commit, firstParentOnly bool, into map[plumbing.Hash]bool) error {
	into[start.Hash] = true
	iter := commitIter(start, firstParentOnly)
	return iter.ForEach(func(c *object.Commit) error {
		into[c.Hash] = true
		return nil
	})
}

func commitIter(start *object.Commit, firstParentOnly bool) object.CommitIter {
	if firstParentOnly {
		return &firstParentIter{next: start}
	}
	return object.NewCommitIterBSF(start, nil, nil)
}

// firstParentIter walks only the first-parent chain from a starting
// commit, for monorepo configs with only_first_parent set (§4.3).
type firstParentIter struct {
	next *object.Commit
}

func (it *firstParentIter) Next() (*object.Commit, error) {
	if it.next == nil {
		return nil, storer.ErrStop
	}
	c := it.next
	parent, err := c.Parent(0)
	if err != nil {
		it.next = nil
	} else {
		it.next = parent
	}
	return c, nil
}

func (it *firstParentIter) ForEach(cb func(*object.Commit) error) error {
	for {
		c, err := it.Next()
		if err == storer.ErrStop {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(c); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

func (it *firstParentIter) Close() {}

// IsAncestor reports whether ancestor is reachable from descendant,
// generalizing the teacher's isAncestorCommit helper into a method.
func (f *Facade) IsAncestor(ancestor, descendant string) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}
	descCommit, err := f.repo.CommitObject(plumbing.NewHash(descendant))
	if err != nil {
		return false, wrap("IsAncestor", err)
	}
	ancestorHash := plumbing.NewHash(ancestor)

	found := false
	iter := object.NewCommitIterBSF(descCommit, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == ancestorHash {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return false, wrap("IsAncestor", err)
	}
	return found, nil
}

// AllTags returns every tag in the repository, dereferencing annotated
// tags to their target commit, via the process-wide lazy cache (§9).
func (f *Facade) AllTags() ([]TagRef, error) {
	return f.loadTagCache()
}

func (f *Facade) dereferenceTag(ref *plumbing.Reference) (plumbing.Hash, error) {
	obj, err := f.repo.TagObject(ref.Hash())
	if err != nil {
		// Lightweight tag: points directly at a commit.
		return ref.Hash(), nil
	}
	c, err := obj.Commit()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return c.Hash, nil
}

// AnnotatedTagOpts configures CreateTag for an annotated tag.
type AnnotatedTagOpts struct {
	Message string
	Name    string
	Email   string
}

// CreateTag creates a tag named name at oid. When annotated is nil a
// lightweight tag is created (go-git: nil CreateTagOptions means
// lightweight), otherwise an annotated tag carrying Message is created.
func (f *Facade) CreateTag(name, oid string, annotated *AnnotatedTagOpts) error {
	var opts *git.CreateTagOptions
	if annotated != nil {
		opts = &git.CreateTagOptions{
			Message: annotated.Message,
			Tagger:  &object.Signature{Name: annotated.Name, Email: annotated.Email, When: time.Now()},
		}
	}
	_, err := f.repo.CreateTag(name, plumbing.NewHash(oid), opts)
	if err != nil {
		return wrap("CreateTag", err)
	}
	f.cache.invalidate()
	return nil
}

// AddAll stages every change in the working tree (`git add -A`).
func (f *Facade) AddAll() error {
	wt, err := f.repo.Worktree()
	if err != nil {
		return wrap("AddAll", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return wrap("AddAll", err)
	}
	return nil
}

// CommitOpts configures Commit.
type CommitOpts struct {
	Message    string
	AuthorName string
	AuthorMail string
	AllowEmpty bool
	Sign       bool // GPG signing is delegated to git CLI via Sign, go-git has no native GPG signer wired here.
}

// Commit creates a new commit on HEAD from the current index, mirroring
// the teacher's reliance on go-git's Worktree for write operations.
func (f *Facade) Commit(opts CommitOpts) (string, error) {
	wt, err := f.repo.Worktree()
	if err != nil {
		return "", wrap("Commit", err)
	}

	sig := &object.Signature{Name: opts.AuthorName, Email: opts.AuthorMail, When: time.Now()}
	commitOpts := &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: opts.AllowEmpty,
	}

	hash, err := wt.Commit(opts.Message, commitOpts)
	if err != nil {
		return "", wrap("Commit", err)
	}

	if opts.Sign {
		if err := signHead(f.path); err != nil {
			logx.Warnf("gpg sign failed: %v", err)
		}
	}

	f.cache.invalidate()
	return hash.String(), nil
}

func signHead(path string) error {
	cmd := exec.Command("git", "commit", "--amend", "--no-edit", "-S")
	cmd.Dir = path
	return cmd.Run()
}

// GetAuthor returns the configured git user.name/user.email, used to
// stamp the release commit's signature.
func (f *Facade) GetAuthor() (name, email string, err error) {
	cfg, err := f.repo.ConfigScoped(0)
	if err != nil {
		return "", "", wrap("GetAuthor", err)
	}
	return cfg.User.Name, cfg.User.Email, nil
}

// Status describes the dirtiness of the working tree for PRECHECK (§4.8).
type Status struct {
	Dirty         bool
	OnlyUntracked bool
}

// WorkingTreeStatus inspects the worktree for PRECHECK's dirty check.
func (f *Facade) WorkingTreeStatus() (Status, error) {
	wt, err := f.repo.Worktree()
	if err != nil {
		return Status{}, wrap("WorkingTreeStatus", err)
	}
	st, err := wt.Status()
	if err != nil {
		return Status{}, wrap("WorkingTreeStatus", err)
	}
	if st.IsClean() {
		return Status{}, nil
	}

	onlyUntracked := true
	for _, s := range st {
		if s.Staging != git.Untracked || s.Worktree != git.Untracked {
			onlyUntracked = false
			break
		}
	}
	return Status{Dirty: true, OnlyUntracked: onlyUntracked}, nil
}

// StashPush pushes a stash entry named name. go-git has no native stash
// support, so this shells out to the git binary the same way hook
// commands are spawned (§9: "hook execution is a capability" — stash is
// the one Git write go-git cannot perform, so it uses the identical
// process-spawning path rather than a bespoke implementation).
func (f *Facade) StashPush(name string) error {
	cmd := exec.Command("git", "stash", "push", "-u", "-m", name)
	cmd.Dir = f.path
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return wrap("StashPush", err)
	}
	return nil
}

// StashPop pops the most recent stash entry.
func (f *Facade) StashPop() error {
	cmd := exec.Command("git", "stash", "pop")
	cmd.Dir = f.path
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return wrap("StashPop", err)
	}
	return nil
}

// DiffPaths returns the set of file paths touched by oid relative to its
// first parent (root commits are diffed against an empty tree),
// generalizing the teacher's DiffTree usage pattern (grounded in
// go-semver-release's commitContainsProjectFiles).
func (f *Facade) DiffPaths(oid string) ([]string, error) {
	c, err := f.repo.CommitObject(plumbing.NewHash(oid))
	if err != nil {
		return nil, wrap("DiffPaths", err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, wrap("DiffPaths", err)
	}

	parentTree := &object.Tree{}
	if parent, err := c.Parent(0); err == nil {
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, wrap("DiffPaths", err)
		}
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, wrap("DiffPaths", err)
	}

	paths := make(map[string]struct{})
	for _, change := range changes {
		if change.To.Name != "" {
			paths[change.To.Name] = struct{}{}
		}
		if change.From.Name != "" {
			paths[change.From.Name] = struct{}{}
		}
	}

	out := make([]string, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	return out, nil
}

// FirstCommit walks the first-parent chain from `from` back to the root
// commit, used to resolve the FirstCommit endpoint of a range (§4.4).
func (f *Facade) FirstCommit(from string) (string, error) {
	c, err := f.repo.CommitObject(plumbing.NewHash(from))
	if err != nil {
		return "", wrap("FirstCommit", err)
	}
	for {
		parent, err := c.Parent(0)
		if err != nil {
			return c.Hash.String(), nil
		}
		c = parent
	}
}

// ResolveRevision resolves a revision string (tag name, short/long oid,
// HEAD) to a full oid.
func (f *Facade) ResolveRevision(rev string) (string, error) {
	hash, err := f.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", wrap("ResolveRevision", fmt.Errorf("%s: %w", rev, err))
	}
	return hash.String(), nil
}
