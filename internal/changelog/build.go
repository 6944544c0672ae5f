package changelog

import (
	"time"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/rangeresolve"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Package      string
	WithOmitted  bool
	Authors      *AuthorResolver
	Provider     ExternalProvider
}

// Build transforms a (range, commits, target_version, package?) tuple
// into a Release (§4.7). Commits whose type has OmitFromChangelog are
// dropped unless WithOmitted is set. Within the returned slice, commits
// retain the reverse-chronological order the Range Resolver already
// produced (tip-first); grouping by type happens at render time.
func Build(registry *conventional.Registry, commits []conventional.Commit, target rangeresolve.OidOf, previous *rangeresolve.OidOf, releaseDate time.Time, opts BuildOptions) Release {
	var classified []ClassifiedCommit
	for _, c := range commits {
		if c.Type.OmitFromChangelog && !opts.WithOmitted {
			continue
		}
		cc := ClassifiedCommit{
			Commit:    c,
			TypeOrder: registry.TypeOrder(c.Type.Name),
		}
		if opts.Authors != nil {
			cc.AuthorUsername = opts.Authors.Resolve(c.Author)
			cc.CommitterUsername = opts.Authors.Resolve(c.Committer)
		}
		if opts.Provider != nil {
			if name, ok := opts.Provider.ResolveUsername(c.Oid); ok {
				cc.AuthorUsername = name
			}
		}
		classified = append(classified, cc)
	}

	return Release{
		Version:         target,
		PreviousVersion: previous,
		Date:            releaseDate,
		Commits:         classified,
		Package:         opts.Package,
	}
}
