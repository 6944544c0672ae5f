package hook

import (
	"testing"

	"github.com/frgrisk/cog/internal/version"
)

func TestSubstituteVersionFields(t *testing.T) {
	v, _ := version.Parse("1.2.3-rc.1+build.9")
	cmd := Substitute("echo {{version}} {{version.major}} {{version.pre}}", Vars{Version: v})
	want := "echo 1.2.3-rc.1+build.9 1 rc.1"
	if cmd != want {
		t.Errorf("Substitute() = %q, want %q", cmd, want)
	}
}

func TestSubstituteMissingLatestIsEmpty(t *testing.T) {
	v, _ := version.Parse("1.0.0")
	cmd := Substitute("echo [{{latest}}] {{version}}", Vars{Version: v, HasLatest: false})
	if cmd != "echo [] 1.0.0" {
		t.Errorf("Substitute() = %q", cmd)
	}
}

func TestSubstitutePackage(t *testing.T) {
	cmd := Substitute("{{package}}", Vars{Package: "core"})
	if cmd != "core" {
		t.Errorf("Substitute() = %q", cmd)
	}
}
