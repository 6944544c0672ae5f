// Package version implements the SemVer value type (C2) and the
// increment lattice used by the bump engine (C5). Parsing and ordering of
// the numeric core is delegated to Masterminds/semver, the same library
// the teacher repo already uses to sort and bump tags; this package adds
// the dotted pre-release/build identifier lists and the lattice algebra
// spec.md requires that the bare upstream type does not model.
package version

import (
	"fmt"
	"strconv"
	"strings"

	mastermindsemver "github.com/Masterminds/semver"
)

// SemVer is {major, minor, patch, pre, build} per §3 of the spec.
type SemVer struct {
	Major uint64
	Minor uint64
	Patch uint64
	Pre   []string
	Build []string
}

// Zero is the sentinel used when no prior tag exists and fallback is enabled.
var Zero = SemVer{}

// Parse parses a bare SemVer string (no tag prefix/package) using
// Masterminds/semver for the grammar and precedence rules, then explodes
// the dotted pre-release/build identifier lists cog needs for rendering
// and overrides.
func Parse(s string) (SemVer, error) {
	v, err := mastermindsemver.NewVersion(s)
	if err != nil {
		return SemVer{}, fmt.Errorf("invalid semver %q: %w", s, err)
	}

	sv := SemVer{
		Major: uint64(v.Major()),
		Minor: uint64(v.Minor()),
		Patch: uint64(v.Patch()),
	}
	if pre := v.Prerelease(); pre != "" {
		sv.Pre = strings.Split(pre, ".")
	}
	if meta := v.Metadata(); meta != "" {
		sv.Build = strings.Split(meta, ".")
	}
	return sv, nil
}

// String is the inverse of Parse (round-trip property, spec §8.1).
func (v SemVer) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Pre) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.Pre, "."))
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Join(v.Build, "."))
	}
	return b.String()
}

// IsZero reports whether v is the synthesized 0.0.0 sentinel with no
// pre-release or build metadata.
func (v SemVer) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0 && len(v.Pre) == 0 && len(v.Build) == 0
}

// Compare returns -1, 0 or 1 per SemVer 2.0 precedence, delegating the
// numeric-core and pre-release comparison to Masterminds/semver (the same
// Compare the teacher calls on tag objects) after round-tripping through
// its string form.
func (v SemVer) Compare(other SemVer) int {
	a, errA := mastermindsemver.NewVersion(v.String())
	b, errB := mastermindsemver.NewVersion(other.String())
	if errA != nil || errB != nil {
		// Both values came from Parse/IncX so this should not happen;
		// fall back to core-only comparison rather than panic.
		return compareCore(v, other)
	}
	return a.Compare(b)
}

func compareCore(a, b SemVer) int {
	switch {
	case a.Major != b.Major:
		return cmpU64(a.Major, b.Major)
	case a.Minor != b.Minor:
		return cmpU64(a.Minor, b.Minor)
	default:
		return cmpU64(a.Patch, b.Patch)
	}
}

func cmpU64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// GreaterThan reports v > other.
func (v SemVer) GreaterThan(other SemVer) bool { return v.Compare(other) > 0 }

// IncMajor returns (major+1).0.0 with pre/build cleared.
func (v SemVer) IncMajor() SemVer {
	return SemVer{Major: v.Major + 1}
}

// IncMinor returns major.(minor+1).0 with pre/build cleared.
func (v SemVer) IncMinor() SemVer {
	return SemVer{Major: v.Major, Minor: v.Minor + 1}
}

// IncPatch returns major.minor.(patch+1) with pre/build cleared.
func (v SemVer) IncPatch() SemVer {
	return SemVer{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// WithPre returns a copy of v carrying the given dotted pre-release
// identifier list, used when --pre overrides a bump's default clearing.
func (v SemVer) WithPre(pre string) SemVer {
	v.Pre = splitDotted(pre)
	return v
}

// WithBuild returns a copy of v carrying the given dotted build metadata.
func (v SemVer) WithBuild(build string) SemVer {
	v.Build = splitDotted(build)
	return v
}

func splitDotted(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// Increment is the NoBump < Patch < Minor < Major lattice of §4.5/§8.3.
type Increment int

const (
	NoBump Increment = iota
	Patch
	Minor
	Major
)

func (i Increment) String() string {
	switch i {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return "no-bump"
	}
}

// MaxIncrement is the least-upper-bound operator of the lattice (spec §8.3).
func MaxIncrement(a, b Increment) Increment {
	if a > b {
		return a
	}
	return b
}

// Apply materialises the increment against prior, honoring the 0.y.z
// special case: a Major increment against a 0.y.z prior release only
// bumps minor (SemVer §4 / spec §4.5).
func Apply(prior SemVer, inc Increment) SemVer {
	switch inc {
	case Major:
		if prior.Major == 0 {
			return prior.IncMinor()
		}
		return prior.IncMajor()
	case Minor:
		return prior.IncMinor()
	case Patch:
		return prior.IncPatch()
	default:
		return prior
	}
}

// ParseIncrement converts an increment name ("major", "minor", "patch",
// or "no-bump"/"none"/"") to an Increment.
func ParseIncrement(s string) (Increment, error) {
	switch strings.ToLower(s) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	case "no-bump", "none", "":
		return NoBump, nil
	default:
		return NoBump, fmt.Errorf("unknown increment %q", s)
	}
}

// FormatUint is a small helper kept local to avoid pulling in fmt.Sprintf
// at every call site that only needs a decimal string (hook substitution
// uses this for {{version.major}} etc).
func FormatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
