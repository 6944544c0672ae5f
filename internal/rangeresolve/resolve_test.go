package rangeresolve

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/frgrisk/cog/internal/gitrepo"
)

type testRepo struct {
	dir  string
	repo *git.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return &testRepo{dir: dir, repo: repo}
}

func (r *testRepo) commit(t *testing.T, path, content, message string) string {
	t.Helper()
	full := filepath.Join(r.dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wt, err := r.repo.Worktree()
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

func TestResolveEmptySpecIsFirstCommitToHead(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit(t, "a.txt", "1", "chore: init")
	c2 := tr.commit(t, "a.txt", "2", "feat: x")

	f, err := gitrepo.Open(tr.dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	resolved, err := Resolve(f, "", Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.To.Oid != c2 {
		t.Errorf("expected to=%s, got %s", c2, resolved.To.Oid)
	}
	if len(resolved.Commits) != 2 {
		t.Errorf("expected 2 commits, got %d", len(resolved.Commits))
	}
}

func TestResolveTagDotDot(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit(t, "a.txt", "1", "chore: init")
	c2 := tr.commit(t, "a.txt", "2", "fix: bug")

	f, err := gitrepo.Open(tr.dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := f.CreateTag("v0.1.0", c1, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	resolved, err := Resolve(f, "v0.1.0..", Options{Prefix: "v"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.Commits) != 1 || resolved.Commits[0].Oid != c2 {
		t.Errorf("expected only c2 in range, got %+v", resolved.Commits)
	}
}

func TestLatestTagPrefersNonPreRelease(t *testing.T) {
	tags := []gitrepo.TagRef{
		{Name: "v1.0.0-rc.1", Oid: "a"},
		{Name: "v1.0.0", Oid: "b"},
	}
	tag, oid, found, err := LatestTag(tags, LatestTagOpts{Prefix: "v"})
	if err != nil || !found {
		t.Fatalf("LatestTag: %v %v", found, err)
	}
	if tag.Version.String() != "1.0.0" || oid != "b" {
		t.Errorf("expected 1.0.0/b, got %s/%s", tag.Version, oid)
	}
}
