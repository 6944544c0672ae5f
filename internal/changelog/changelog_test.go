package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/rangeresolve"
	"github.com/frgrisk/cog/internal/version"
)

func TestBuildGroupsAndOmits(t *testing.T) {
	registry := conventional.NewRegistry(conventional.DefaultTypes())
	commits := []conventional.Commit{
		{Oid: "1", Type: mustType(registry, "feat"), Summary: "add x"},
		{Oid: "2", Type: mustType(registry, "chore"), Summary: "housekeeping"},
	}

	target := rangeresolve.Tag(version.Tag{Version: mustVersion(t, "0.1.0")}, "")
	rel := Build(registry, commits, target, nil, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), BuildOptions{})

	if len(rel.Commits) != 1 {
		t.Fatalf("expected chore to be omitted by default, got %+v", rel.Commits)
	}
}

func TestBuildWithOmitted(t *testing.T) {
	registry := conventional.NewRegistry(conventional.DefaultTypes())
	commits := []conventional.Commit{
		{Oid: "2", Type: mustType(registry, "chore"), Summary: "housekeeping"},
	}
	target := rangeresolve.Tag(version.Tag{Version: mustVersion(t, "0.1.0")}, "")
	rel := Build(registry, commits, target, nil, time.Now(), BuildOptions{WithOmitted: true})
	if len(rel.Commits) != 1 {
		t.Fatalf("expected chore to survive with WithOmitted, got %+v", rel.Commits)
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	registry := conventional.NewRegistry(conventional.DefaultTypes())
	commits := []conventional.Commit{
		{Oid: "abc1234", Type: mustType(registry, "feat"), Summary: "add widgets"},
	}
	target := rangeresolve.Tag(version.Tag{Version: mustVersion(t, "0.1.0")}, "")
	rel := Build(registry, commits, target, nil, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), BuildOptions{})

	r, err := NewRenderer("default")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	out, err := r.Render(rel, RemoteContext{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "0.1.0") || !strings.Contains(out, "Features") || !strings.Contains(out, "Add widgets") {
		t.Errorf("unexpected render: %s", out)
	}
}

func TestSpliceFileSeparatorNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	if err := os.WriteFile(path, []byte("no sentinel here"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SpliceFile(path, "entry"); err != ErrSeparatorNotFound {
		t.Fatalf("expected ErrSeparatorNotFound, got %v", err)
	}
}

func TestSpliceFileNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	if err := SpliceFile(path, "## [0.1.0]"); err != nil {
		t.Fatalf("SpliceFile: %v", err)
	}
	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "## [0.1.0]") {
		t.Errorf("expected new entry in fresh file, got %s", content)
	}
}

func mustType(r *conventional.Registry, name string) conventional.CommitType {
	t, _ := r.Lookup(name)
	return t
}

func mustVersion(t *testing.T, s string) version.SemVer {
	v, err := version.Parse(s)
	if err != nil {
		t.Fatalf("version.Parse(%q): %v", s, err)
	}
	return v
}
