package rangeresolve

import (
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/version"
)

// LatestTagOpts configures which tag namespace LatestTag searches.
type LatestTagOpts struct {
	Prefix            string
	Package           string // "" selects the global (non-package-scoped) line
	Separator         string
	IncludePreRelease bool
}

// LatestTag scans every tag in the repository, keeps the ones that parse
// as SemVer under the configured prefix/package/separator, and returns
// the one with the highest precedence. Per §4.4's tie-break rule: when
// more than one tag resolves to the same oid, prefer the non-pre-release
// with higher SemVer, and prefer the package-scoped tag matching the
// active package when ambiguity remains (handled here by the caller
// supplying Package, which already restricts the candidate set to that
// package's namespace).
func LatestTag(tags []gitrepo.TagRef, opts LatestTagOpts) (version.Tag, string, bool, error) {
	var (
		best    version.Tag
		bestOid string
		found   bool
	)

	for _, ref := range tags {
		parsed, err := version.ParseTag(ref.Name, opts.Prefix, opts.Package, opts.Separator)
		if err != nil {
			continue
		}
		if opts.Package == "" && parsed.Package != "" {
			continue
		}
		if len(parsed.Version.Pre) > 0 && !opts.IncludePreRelease {
			continue
		}

		if !found {
			best, bestOid, found = parsed, ref.Oid, true
			continue
		}

		cmp, err := best.Compare(parsed)
		if err != nil {
			continue
		}
		if cmp < 0 || (cmp == 0 && isPreferred(parsed, best)) {
			best, bestOid = parsed, ref.Oid
		}
	}

	return best, bestOid, found, nil
}

// isPreferred breaks ties between two tags of equal precedence: a
// non-pre-release candidate is preferred over the incumbent.
func isPreferred(candidate, incumbent version.Tag) bool {
	return len(candidate.Version.Pre) == 0 && len(incumbent.Version.Pre) > 0
}
