package monorepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/increment"
	"github.com/frgrisk/cog/internal/version"
)

func newRepo(t *testing.T) (*gitrepo.Facade, *git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	f, err := gitrepo.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return f, repo, dir
}

func commit(t *testing.T, dir string, repo *git.Repository, path, content, message string) {
	t.Helper()
	full := filepath.Join(dir, path)
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
	if _, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestPackageIsolation(t *testing.T) {
	f, repo, dir := newRepo(t)
	commit(t, dir, repo, "a/f.txt", "1", "chore: init")
	commit(t, dir, repo, "a/f.txt", "2", "feat: x")

	pkgA := Package{Name: "a", Path: "a"}
	pkgB := Package{Name: "b", Path: "b"}
	scheme := TagScheme{Prefix: "", Separator: "-"}
	registry := conventional.NewRegistry(conventional.DefaultTypes())

	resA, err := ComputePackage(f, pkgA, scheme, registry, conventional.Options{}, increment.Command{Auto: true}, false)
	if err != nil {
		t.Fatalf("ComputePackage a: %v", err)
	}
	if !resA.Bumped || resA.Increment.String() != "minor" {
		t.Errorf("expected package a to bump minor, got %+v", resA)
	}

	resB, err := ComputePackage(f, pkgB, scheme, registry, conventional.Options{}, increment.Command{Auto: true}, false)
	if err != nil {
		t.Fatalf("ComputePackage b: %v", err)
	}
	if resB.Bumped {
		t.Errorf("expected package b to not bump, got %+v", resB)
	}
}

func TestGlobalAggregatesPublicAPIOnly(t *testing.T) {
	resultsNoBump := []PackageResult{
		{Package: Package{Name: "a", PublicAPI: false}, Bumped: true, Increment: version.Major},
	}
	if GlobalIncrement(resultsNoBump) != version.NoBump {
		t.Error("expected no global bump when only non-public-api package bumped")
	}

	resultsBump := []PackageResult{
		{Package: Package{Name: "a", PublicAPI: true}, Bumped: true, Increment: version.Minor},
		{Package: Package{Name: "b", PublicAPI: true}, Bumped: true, Increment: version.Patch},
	}
	if GlobalIncrement(resultsBump) != version.Minor {
		t.Error("expected global to take the max increment across public-api packages")
	}
}
