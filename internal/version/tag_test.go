package version

import "testing"

func TestTagRoundTrip(t *testing.T) {
	cases := []struct {
		name, prefix, pkg, sep string
	}{
		{"v1.2.3", "v", "", "-"},
		{"a-1.2.3", "", "a", "-"},
		{"rel-a-1.2.3", "rel-", "a", "-"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tag, err := ParseTag(c.name, c.prefix, c.pkg, c.sep)
			if err != nil {
				t.Fatalf("ParseTag(%q): %v", c.name, err)
			}
			if got := tag.Format(c.sep); got != c.name {
				t.Errorf("Format() = %q, want %q", got, c.name)
			}
		})
	}
}

func TestTagIncomparableAcrossPackages(t *testing.T) {
	a, _ := ParseTag("a-1.0.0", "", "a", "-")
	b, _ := ParseTag("b-1.0.0", "", "b", "-")
	if _, err := a.Compare(b); err != ErrIncomparable {
		t.Errorf("expected ErrIncomparable, got %v", err)
	}
}

func TestTagPackageAutoDetect(t *testing.T) {
	tag, err := ParseTag("a-1.2.3", "", "", "-")
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if tag.Package != "a" {
		t.Errorf("expected package %q, got %q", "a", tag.Package)
	}
}
