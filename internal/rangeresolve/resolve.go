package rangeresolve

import (
	"fmt"
	"strings"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/version"
)

// Options configures how range endpoints are parsed and how far the
// resulting walk extends.
type Options struct {
	Prefix            string
	Package           string
	Separator         string
	FirstParentOnly   bool
	IncludePreRelease bool
}

// Resolved is {from, to, commits} per §4.4.
type Resolved struct {
	From    OidOf
	To      OidOf
	Commits []conventional.RawCommit
}

// Resolve turns a user-facing range string into a concrete commit set,
// performing a single walk and filtering by oid set rather than the
// teacher's repeated single-commit lookups (§4.4 performance note).
func Resolve(f *gitrepo.Facade, spec string, opts Options) (Resolved, error) {
	from, to, err := splitRange(spec)
	if err != nil {
		return Resolved{}, err
	}

	toEnd, err := resolveEndpoint(f, to, opts, true)
	if err != nil {
		return Resolved{}, fmt.Errorf("range resolve: %w", err)
	}

	var fromEnd OidOf
	if from == "" {
		root, err := f.FirstCommit(toEnd.Oid)
		if err != nil {
			return Resolved{}, fmt.Errorf("range resolve: %w", err)
		}
		fromEnd = FirstCommit(root)
	} else {
		fromEnd, err = resolveEndpoint(f, from, opts, false)
		if err != nil {
			return Resolved{}, fmt.Errorf("range resolve: %w", err)
		}
	}

	walkFrom := fromEnd.Oid
	if fromEnd.Kind == KindFirstCommit {
		// Exclusive-from-root means "no exclusion": the root commit
		// itself must be included (§4.4).
		walkFrom = ""
	}

	commits, err := f.Walk(walkFrom, toEnd.Oid, gitrepo.WalkOptions{OnlyFirstParent: opts.FirstParentOnly})
	if err != nil {
		return Resolved{}, fmt.Errorf("range resolve: %w", err)
	}

	return Resolved{From: fromEnd, To: toEnd, Commits: commits}, nil
}

// splitRange implements the range grammar of §4.4:
//
//	""      -> ("", "")         == first_commit..HEAD
//	".."    -> ("", "")         == first_commit..HEAD
//	"..TAG" -> ("", "TAG")      == first_commit..TAG
//	"TAG.." -> ("TAG", "")      == TAG..HEAD
//	"A..B"  -> ("A", "B")
func splitRange(spec string) (from, to string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == ".." {
		return "", "", nil
	}
	idx := strings.Index(spec, "..")
	if idx < 0 {
		return "", "", fmt.Errorf("range resolve: malformed range %q: missing '..'", spec)
	}
	return spec[:idx], spec[idx+2:], nil
}

func resolveEndpoint(f *gitrepo.Facade, token string, opts Options, isTo bool) (OidOf, error) {
	if token == "" {
		if isTo {
			oid, err := f.Head()
			if err != nil {
				return OidOf{}, err
			}
			return Head(oid), nil
		}
		// Only reached for "to" == "" above; "from" == "" is handled by
		// the caller via FirstCommit resolution.
		return OidOf{}, fmt.Errorf("empty endpoint")
	}

	if token == "HEAD" {
		oid, err := f.Head()
		if err != nil {
			return OidOf{}, err
		}
		return Head(oid), nil
	}

	if parsed, err := version.ParseTag(token, opts.Prefix, opts.Package, opts.Separator); err == nil {
		oid, err := f.ResolveRevision(token)
		if err != nil {
			return OidOf{}, fmt.Errorf("resolving tag %q: %w", token, err)
		}
		return Tag(parsed, oid), nil
	}

	oid, err := f.ResolveRevision(token)
	if err != nil {
		return OidOf{}, fmt.Errorf("resolving %q: %w", token, err)
	}
	return Other(oid), nil
}
