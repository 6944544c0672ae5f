package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func newTestRepo(t *testing.T) (*Facade, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return &Facade{repo: repo, path: dir}, repo
}

func commitFile(t *testing.T, f *Facade, repo *git.Repository, path, content, message string) string {
	t.Helper()
	full := filepath.Join(f.path, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(path); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash.String()
}

func TestWalkExcludesFromRange(t *testing.T) {
	f, repo := newTestRepo(t)
	c1 := commitFile(t, f, repo, "a.txt", "1", "chore: init")
	c2 := commitFile(t, f, repo, "a.txt", "2", "feat: x")

	commits, err := f.Walk(c1, c2, WalkOptions{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(commits) != 1 || commits[0].Oid != c2 {
		t.Errorf("expected only c2, got %+v", commits)
	}
}

func TestWalkFromRoot(t *testing.T) {
	f, repo := newTestRepo(t)
	c1 := commitFile(t, f, repo, "a.txt", "1", "chore: init")
	c2 := commitFile(t, f, repo, "a.txt", "2", "feat: x")

	commits, err := f.Walk("", c2, WalkOptions{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	if commits[0].Oid != c2 || commits[1].Oid != c1 {
		t.Errorf("expected tip-first order, got %+v", commits)
	}
}

func TestIsAncestor(t *testing.T) {
	f, repo := newTestRepo(t)
	c1 := commitFile(t, f, repo, "a.txt", "1", "chore: init")
	c2 := commitFile(t, f, repo, "a.txt", "2", "feat: x")

	ok, err := f.IsAncestor(c1, c2)
	if err != nil || !ok {
		t.Errorf("expected c1 to be ancestor of c2, got %v %v", ok, err)
	}
	ok, err = f.IsAncestor(c2, c1)
	if err != nil || ok {
		t.Errorf("expected c2 not to be ancestor of c1, got %v %v", ok, err)
	}
}

func TestCreateTagInvalidatesCache(t *testing.T) {
	f, repo := newTestRepo(t)
	c1 := commitFile(t, f, repo, "a.txt", "1", "chore: init")

	tags, err := f.AllTags()
	if err != nil || len(tags) != 0 {
		t.Fatalf("expected no tags initially, got %v %v", tags, err)
	}

	if err := f.CreateTag("v0.1.0", c1, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	tags, err = f.AllTags()
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "v0.1.0" {
		t.Errorf("expected cache to reflect new tag, got %+v", tags)
	}
}

func TestDiffPaths(t *testing.T) {
	f, repo := newTestRepo(t)
	commitFile(t, f, repo, "a/f.txt", "1", "chore: init")
	c2 := commitFile(t, f, repo, "b/g.txt", "2", "feat: x")

	paths, err := f.DiffPaths(c2)
	if err != nil {
		t.Fatalf("DiffPaths: %v", err)
	}
	found := false
	for _, p := range paths {
		if p == "b/g.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected b/g.txt in diff paths, got %v", paths)
	}
}
