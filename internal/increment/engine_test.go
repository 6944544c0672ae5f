package increment

import (
	"errors"
	"testing"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/version"
)

func commitOfType(name string, breaking bool, bumpMinor, bumpPatch bool) conventional.Commit {
	return conventional.Commit{
		Type:     conventional.CommitType{Name: name, BumpMinor: bumpMinor, BumpPatch: bumpPatch},
		Breaking: breaking,
	}
}

func TestFoldTakesLeastUpperBound(t *testing.T) {
	commits := []conventional.Commit{
		commitOfType("fix", false, false, true),
		commitOfType("feat", false, true, false),
		commitOfType("chore", false, false, false),
	}
	if got := Fold(commits); got != version.Minor {
		t.Errorf("Fold() = %s, want minor", got)
	}
}

func TestFoldPartitionInvariant(t *testing.T) {
	c1 := commitOfType("fix", false, false, true)
	c2 := commitOfType("feat", false, true, false)
	all := []conventional.Commit{c1, c2}

	got := Fold(all)
	want := version.MaxIncrement(Fold([]conventional.Commit{c1}), Fold([]conventional.Commit{c2}))
	if got != want {
		t.Errorf("Fold(all) = %s, want %s (partition invariant)", got, want)
	}
}

func TestNextAutoNoCommit(t *testing.T) {
	prior, _ := version.Parse("1.0.0")
	_, _, err := Next(prior, nil, Command{Auto: true})
	if !errors.Is(err, ErrNoCommitFound) {
		t.Fatalf("expected ErrNoCommitFound, got %v", err)
	}
}

func TestNextAutoBreakingOnZeroYZ(t *testing.T) {
	prior, _ := version.Parse("0.3.1")
	commits := []conventional.Commit{commitOfType("feat", true, true, false)}
	next, inc, err := Next(prior, commits, Command{Auto: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc != version.Major {
		t.Errorf("expected Major increment classification, got %s", inc)
	}
	want, _ := version.Parse("0.4.0")
	if next.Compare(want) != 0 {
		t.Errorf("expected 0.4.0 (0.y.z special case), got %s", next)
	}
}

func TestNextManualMonotonicity(t *testing.T) {
	prior, _ := version.Parse("1.2.3")
	lower, _ := version.Parse("1.0.0")
	_, _, err := Next(prior, nil, Command{Manual: &lower})
	if !errors.Is(err, ErrSemVerMonotonicity) {
		t.Fatalf("expected ErrSemVerMonotonicity, got %v", err)
	}
}

func TestNextPreOverride(t *testing.T) {
	prior, _ := version.Parse("1.2.3")
	commits := []conventional.Commit{commitOfType("fix", false, false, true)}
	next, _, err := Next(prior, commits, Command{Patch: true, Pre: "rc.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := version.Parse("1.2.4-rc.1")
	if next.Compare(want) != 0 {
		t.Errorf("expected 1.2.4-rc.1, got %s", next)
	}
}
