package version

import "testing"

func TestParseStringRoundTrip(t *testing.T) {
	cases := []string{
		"0.0.0",
		"1.2.3",
		"1.2.3-rc.1",
		"1.2.3+build.5",
		"1.2.3-rc.1+build.5",
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			v, err := Parse(c)
			if err != nil {
				t.Fatalf("Parse(%q): %v", c, err)
			}
			if got := v.String(); got != c {
				t.Errorf("round trip: got %q, want %q", got, c)
			}
		})
	}
}

func TestApplyZeroYZSpecialCase(t *testing.T) {
	prior, _ := Parse("0.3.1")
	got := Apply(prior, Major)
	want, _ := Parse("0.4.0")
	if got.Compare(want) != 0 {
		t.Errorf("Apply(0.3.1, Major) = %s, want %s", got, want)
	}
}

func TestApplyMajorPastZero(t *testing.T) {
	prior, _ := Parse("1.3.1")
	got := Apply(prior, Major)
	want, _ := Parse("2.0.0")
	if got.Compare(want) != 0 {
		t.Errorf("Apply(1.3.1, Major) = %s, want %s", got, want)
	}
}

func TestMaxIncrementLattice(t *testing.T) {
	if MaxIncrement(Patch, Minor) != Minor {
		t.Error("expected Minor to dominate Patch")
	}
	if MaxIncrement(Major, NoBump) != Major {
		t.Error("expected Major to dominate NoBump")
	}
	if MaxIncrement(Minor, Minor) != Minor {
		t.Error("expected idempotence")
	}
}

func TestMonotonicity(t *testing.T) {
	prior, _ := Parse("1.2.3")
	for _, inc := range []Increment{Patch, Minor, Major} {
		next := Apply(prior, inc)
		if !next.GreaterThan(prior) {
			t.Errorf("Apply(%s, %s) = %s is not greater than prior", prior, inc, next)
		}
	}
}

func TestIncClearsPreAndBuild(t *testing.T) {
	prior, _ := Parse("1.2.3-rc.1+build.9")
	got := Apply(prior, Patch)
	if len(got.Pre) != 0 || len(got.Build) != 0 {
		t.Errorf("expected pre/build cleared, got %s", got)
	}
}
