// Package increment implements the Version Increment Engine (C5): fold a
// commit set into a lattice increment and apply it against a prior tag.
package increment

import (
	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/version"
)

// Fold computes the least upper bound of every commit's per-commit
// increment, the lattice defined in §4.5/§8.3: breaking -> Major,
// bump_minor type -> Minor, bump_patch type -> Patch, else NoBump.
func Fold(commits []conventional.Commit) version.Increment {
	result := version.NoBump
	for _, c := range commits {
		result = version.MaxIncrement(result, perCommit(c))
		if result == version.Major {
			break // already at the top of the lattice
		}
	}
	return result
}

func perCommit(c conventional.Commit) version.Increment {
	switch {
	case c.Breaking:
		return version.Major
	case c.Type.BumpMinor:
		return version.Minor
	case c.Type.BumpPatch:
		return version.Patch
	default:
		return version.NoBump
	}
}

// Command is the IncrementCommand of §4.5, flattened for a single call:
// callers set exactly one of Major/Minor/Patch/Auto/Manual; Pre/Build
// override whatever pre-release/build identifiers the increment would
// otherwise clear.
type Command struct {
	Major, Minor, Patch, Auto bool
	Manual                    *version.SemVer
	Pre, Build                string
}

// Next computes the next version from prior and commits under cmd,
// returning the resulting version and the increment that was applied.
// When cmd.Manual is set, that version is returned as is, with Major as
// the reported increment, or ErrSemVerMonotonicity if it does not exceed
// prior.
func Next(prior version.SemVer, commits []conventional.Commit, cmd Command) (version.SemVer, version.Increment, error) {
	if cmd.Manual != nil {
		result := *cmd.Manual
		if !result.GreaterThan(prior) {
			return version.SemVer{}, version.NoBump, ErrSemVerMonotonicity
		}
		return result, version.Major, nil
	}

	var inc version.Increment
	switch {
	case cmd.Major:
		inc = version.Major
	case cmd.Minor:
		inc = version.Minor
	case cmd.Patch:
		inc = version.Patch
	default:
		inc = Fold(commits)
	}

	if inc == version.NoBump {
		return version.SemVer{}, version.NoBump, ErrNoCommitFound
	}

	result := version.Apply(prior, inc)
	if cmd.Pre != "" {
		result = result.WithPre(cmd.Pre)
	}
	if cmd.Build != "" {
		result = result.WithBuild(cmd.Build)
	}

	if !result.GreaterThan(prior) {
		return version.SemVer{}, version.NoBump, ErrSemVerMonotonicity
	}

	return result, inc, nil
}
