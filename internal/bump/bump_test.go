package bump

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/frgrisk/cog/internal/changelog"
	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/version"
)

func newTestRepo(t *testing.T) (*gitrepo.Facade, string) {
	t.Helper()
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	f, err := gitrepo.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return f, dir
}

func commitFile(t *testing.T, dir, path, content, message string) string {
	t.Helper()
	return commitFileAt(t, dir, path, content, message, time.Now())
}

func commitFileAt(t *testing.T, dir, path, content, message string, when time.Time) string {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(path); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "test", Email: "test@example.com", When: when}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash.String()
}

// scriptedRunner replays a fixed exit code for every command invoked.
type scriptedRunner struct {
	exitCode int
	calls    []string
}

func (r *scriptedRunner) Run(command string, env map[string]string) (int, error) {
	r.calls = append(r.calls, command)
	return r.exitCode, nil
}

func newInput(v version.SemVer) Input {
	return Input{
		NewVersion: v,
		NewTag:     goVersionTag(v),
		TagName:    "v" + v.String(),
		Package:    "",
	}
}

func goVersionTag(v version.SemVer) version.Tag {
	return version.Tag{Prefix: "v", Version: v}
}

func TestRunDirtyWorkingTreeAborts(t *testing.T) {
	f, dir := newTestRepo(t)
	commitFile(t, dir, "a.txt", "1", "chore: init")
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("dirty"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v, _ := version.Parse("0.1.0")
	_, err := Run(f, newInput(v), Options{DisableChangelog: true})
	if _, ok := err.(*DirtyWorkingTreeError); !ok {
		t.Fatalf("expected DirtyWorkingTreeError, got %v", err)
	}
}

func TestRunPreHookFailureStashesAndAborts(t *testing.T) {
	f, dir := newTestRepo(t)
	commitFile(t, dir, "a.txt", "1", "chore: init")
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v, _ := version.Parse("0.1.0")
	runner := &scriptedRunner{exitCode: 1}
	_, err := Run(f, newInput(v), Options{
		DisableChangelog: true,
		SkipUntracked:    true,
		PreHooks:         []string{"exit 1"},
		Hooks:            runner,
		AuthorName:       "bot",
		AuthorEmail:      "bot@example.com",
	})
	hookErr, ok := err.(*HookFailureError)
	if !ok {
		t.Fatalf("expected HookFailureError, got %v", err)
	}
	if hookErr.Stage != "pre" || hookErr.StashRef == "" {
		t.Errorf("expected pre-hook failure with stash ref, got %+v", hookErr)
	}
}

func TestRunCommitsAndTagsOnSuccess(t *testing.T) {
	f, dir := newTestRepo(t)
	commitFile(t, dir, "a.txt", "1", "chore: init")
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v, _ := version.Parse("0.1.0")
	result, err := Run(f, newInput(v), Options{
		DisableChangelog: true,
		SkipUntracked:    true,
		AuthorName:       "bot",
		AuthorEmail:      "bot@example.com",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Tag != "v0.1.0" {
		t.Errorf("expected tag v0.1.0, got %q", result.Tag)
	}
	if result.CommitOid == "" {
		t.Error("expected a commit oid")
	}

	tags, err := f.AllTags()
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "v0.1.0" {
		t.Errorf("expected tag to be created, got %+v", tags)
	}
}

func TestRunDryRunSkipsCommitAndTag(t *testing.T) {
	f, dir := newTestRepo(t)
	commitFile(t, dir, "a.txt", "1", "chore: init")

	v, _ := version.Parse("0.1.0")
	result, err := Run(f, newInput(v), Options{DisableChangelog: true, DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.CommitOid != "" {
		t.Errorf("expected no commit in dry run, got %q", result.CommitOid)
	}

	tags, err := f.AllTags()
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags in dry run, got %+v", tags)
	}
}

func TestRunPostHookFailureDoesNotUndoTag(t *testing.T) {
	f, dir := newTestRepo(t)
	commitFile(t, dir, "a.txt", "1", "chore: init")
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v, _ := version.Parse("0.1.0")
	runner := &scriptedRunner{exitCode: 1}
	result, err := Run(f, newInput(v), Options{
		DisableChangelog: true,
		SkipUntracked:    true,
		PostHooks:        []string{"exit 1"},
		Hooks:            runner,
		AuthorName:       "bot",
		AuthorEmail:      "bot@example.com",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.PostHookErr == nil {
		t.Error("expected PostHookErr to be set")
	}
	if result.Tag != "v0.1.0" {
		t.Errorf("expected tag to still be created, got %q", result.Tag)
	}
}

// TestRunDisableBumpCommitDatesReleaseByCommitterDate verifies §8.5: when
// --disable-bump-commit tags an existing HEAD, the rendered release date
// must be that commit's committer date, not wall-clock time.
func TestRunDisableBumpCommitDatesReleaseByCommitterDate(t *testing.T) {
	f, dir := newTestRepo(t)
	old := time.Date(2017, time.March, 4, 5, 6, 7, 0, time.UTC)
	commitFileAt(t, dir, "a.txt", "1", "feat: old release", old)

	changelogPath := filepath.Join(dir, "CHANGELOG.md")
	if err := changelog.InitFile(changelogPath); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	renderer, err := changelog.NewRenderer("default")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	v, _ := version.Parse("0.1.0")
	result, err := Run(f, newInput(v), Options{
		Renderer:          renderer,
		ChangelogPath:     changelogPath,
		DisableBumpCommit: true,
		SkipUntracked:     true,
		Registry:          conventional.NewRegistry(conventional.DefaultTypes()),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantYear := strconv.Itoa(old.Year())
	if !strings.Contains(result.ChangelogEntry, wantYear) {
		t.Errorf("expected rendered entry to carry committer date year %s, got %q", wantYear, result.ChangelogEntry)
	}
	if strings.Contains(result.ChangelogEntry, strconv.Itoa(time.Now().Year())) && time.Now().Year() != old.Year() {
		t.Errorf("rendered entry appears dated by wall-clock time instead of the commit's committer date: %q", result.ChangelogEntry)
	}
}
