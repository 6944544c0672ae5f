package version

import (
	"errors"
	"fmt"
	"strings"
)

// Tag is {prefix?, package?, version, oid?} per §3. Parsing strips the
// configured prefix, then the package name plus separator if present,
// leaving a bare SemVer to hand to Parse.
type Tag struct {
	Prefix  string
	Package string
	Version SemVer
	Oid     string
}

var (
	// ErrMissingPrefix is returned when a configured prefix does not
	// match the start of the candidate tag name.
	ErrMissingPrefix = errors.New("tag: configured prefix not found")
	// ErrNotSemVer is returned when the remainder does not parse as a
	// SemVer after prefix/package stripping.
	ErrNotSemVer = errors.New("tag: not a semver tag")
)

// ParseTag strips prefix and, for monorepos, "<package><separator>" before
// parsing the remaining SemVer. package may be empty to mean "any/no
// package", in which case a leading "<name><separator>" found before the
// version is captured into Tag.Package rather than rejected.
func ParseTag(name, prefix, pkg, separator string) (Tag, error) {
	rest := name
	if prefix != "" {
		if !strings.HasPrefix(rest, prefix) {
			return Tag{}, fmt.Errorf("%w: %q", ErrMissingPrefix, name)
		}
		rest = strings.TrimPrefix(rest, prefix)
	}

	var gotPkg string
	if pkg != "" {
		want := pkg + separator
		if !strings.HasPrefix(rest, want) {
			return Tag{}, fmt.Errorf("%w: %q does not belong to package %q", ErrNotSemVer, name, pkg)
		}
		rest = strings.TrimPrefix(rest, want)
		gotPkg = pkg
	} else if separator != "" {
		if idx := strings.Index(rest, separator); idx >= 0 {
			candidate := rest[:idx]
			remainder := rest[idx+len(separator):]
			if _, err := Parse(remainder); err == nil && candidate != "" {
				gotPkg = candidate
				rest = remainder
			}
		}
	}

	sv, err := Parse(rest)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q", ErrNotSemVer, name)
	}

	return Tag{Prefix: prefix, Package: gotPkg, Version: sv}, nil
}

// Format is the inverse of ParseTag and must be lossless (round-trip
// property, spec §8.1).
func (t Tag) Format(separator string) string {
	var b strings.Builder
	b.WriteString(t.Prefix)
	if t.Package != "" {
		b.WriteString(t.Package)
		b.WriteString(separator)
	}
	b.WriteString(t.Version.String())
	return b.String()
}

// SamePackage reports whether t and other share the same package scope,
// including the "both global" case where Package == "".
func (t Tag) SamePackage(other Tag) bool {
	return t.Package == other.Package
}

// ErrIncomparable is returned by Compare when the two tags belong to
// different packages: per §3, tags scoped to different packages are
// incomparable and must never be mixed in one resolution.
var ErrIncomparable = errors.New("tag: tags from different packages are incomparable")

// Compare orders t and other by (package equal) then SemVer precedence.
func (t Tag) Compare(other Tag) (int, error) {
	if !t.SamePackage(other) {
		return 0, ErrIncomparable
	}
	return t.Version.Compare(other.Version), nil
}
