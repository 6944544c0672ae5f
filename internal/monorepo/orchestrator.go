package monorepo

import (
	"fmt"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/increment"
	"github.com/frgrisk/cog/internal/logx"
	"github.com/frgrisk/cog/internal/rangeresolve"
	"github.com/frgrisk/cog/internal/version"
)

// TagScheme carries the prefix/separator shared by every package's tags.
type TagScheme struct {
	Prefix    string
	Separator string
}

// PackageResult is the outcome of computing one package's next version.
type PackageResult struct {
	Package     Package
	HadPrior    bool
	PriorTag    version.Tag
	Commits     []conventional.Commit
	NextVersion version.SemVer
	Increment   version.Increment
	Bumped      bool
	TargetOid   string
}

// ComputePackage runs steps 1-3 of §4.6 for a single package: latest tag,
// path-filtered commit set, next version.
func ComputePackage(f *gitrepo.Facade, pkg Package, scheme TagScheme, registry *conventional.Registry, parseOpts conventional.Options, cmd increment.Command, firstParentOnly bool) (PackageResult, error) {
	allTags, err := f.AllTags()
	if err != nil {
		return PackageResult{}, fmt.Errorf("monorepo: %w", err)
	}

	latestTag, latestOid, found, err := rangeresolve.LatestTag(allTags, rangeresolve.LatestTagOpts{
		Prefix:    scheme.Prefix,
		Package:   pkg.Name,
		Separator: scheme.Separator,
	})
	if err != nil {
		return PackageResult{}, fmt.Errorf("monorepo: %w", err)
	}

	var rangeSpec string
	if found {
		rangeSpec = latestTag.Format(scheme.Separator) + ".."
	}

	resolved, err := rangeresolve.Resolve(f, rangeSpec, rangeresolve.Options{
		Prefix:          scheme.Prefix,
		Package:         pkg.Name,
		Separator:       scheme.Separator,
		FirstParentOnly: firstParentOnly,
	})
	if err != nil {
		return PackageResult{}, fmt.Errorf("monorepo: %w", err)
	}

	filtered, err := filterByPackage(f, resolved.Commits, pkg)
	if err != nil {
		return PackageResult{}, fmt.Errorf("monorepo: %w", err)
	}

	commits, err := classify(filtered, registry, parseOpts)
	if err != nil {
		return PackageResult{}, err
	}

	prior := version.Zero
	if found {
		prior = latestTag.Version
	}

	next, inc, err := increment.Next(prior, commits, cmd)
	if err != nil {
		if err == increment.ErrNoCommitFound {
			return PackageResult{Package: pkg, HadPrior: found, PriorTag: latestTag, Commits: commits}, nil
		}
		return PackageResult{}, fmt.Errorf("monorepo: package %q: %w", pkg.Name, err)
	}

	targetOid := ""
	if len(resolved.Commits) > 0 {
		targetOid = resolved.Commits[0].Oid
	} else {
		targetOid = latestOid
	}

	return PackageResult{
		Package:     pkg,
		HadPrior:    found,
		PriorTag:    latestTag,
		Commits:     commits,
		NextVersion: next,
		Increment:   inc,
		Bumped:      true,
		TargetOid:   targetOid,
	}, nil
}

func filterByPackage(f *gitrepo.Facade, raw []conventional.RawCommit, pkg Package) ([]conventional.RawCommit, error) {
	var out []conventional.RawCommit
	for _, c := range raw {
		paths, err := f.DiffPaths(c.Oid)
		if err != nil {
			return nil, err
		}
		ok, err := TouchesPackage(paths, pkg)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func classify(raw []conventional.RawCommit, registry *conventional.Registry, opts conventional.Options) ([]conventional.Commit, error) {
	var out []conventional.Commit
	for _, r := range raw {
		c, excluded, err := conventional.ParseMessage(r, registry, opts)
		if excluded {
			continue
		}
		if err != nil {
			logx.Debugf("skipping non-compliant commit %s: %v", r.Oid, err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ComputeGlobal computes the aggregated global version line (no package),
// applying explicit as an override when the caller passed one via
// `bump --global --major` etc (§4.6).
func ComputeGlobal(f *gitrepo.Facade, scheme TagScheme, results []PackageResult, explicit *version.Increment) (PackageResult, error) {
	globalPkg := Package{Name: ""}

	allTags, err := f.AllTags()
	if err != nil {
		return PackageResult{}, fmt.Errorf("monorepo: global: %w", err)
	}
	latestTag, _, found, err := rangeresolve.LatestTag(allTags, rangeresolve.LatestTagOpts{
		Prefix:    scheme.Prefix,
		Package:   "",
		Separator: scheme.Separator,
	})
	if err != nil {
		return PackageResult{}, fmt.Errorf("monorepo: global: %w", err)
	}

	inc := GlobalIncrement(results)
	if explicit != nil {
		inc = *explicit
	}
	if inc == version.NoBump {
		return PackageResult{Package: globalPkg, HadPrior: found, PriorTag: latestTag}, nil
	}

	prior := version.Zero
	if found {
		prior = latestTag.Version
	}
	next := version.Apply(prior, inc)

	return PackageResult{
		Package:     globalPkg,
		HadPrior:    found,
		PriorTag:    latestTag,
		NextVersion: next,
		Increment:   inc,
		Bumped:      true,
	}, nil
}

// GlobalIncrement computes the aggregated "global" version's increment:
// the least upper bound of per-package increments restricted to
// public-api packages (§4.6). If no public-api package bumped, the
// global does not bump.
func GlobalIncrement(results []PackageResult) version.Increment {
	inc := version.NoBump
	for _, r := range results {
		if !r.Package.PublicAPI || !r.Bumped {
			continue
		}
		inc = version.MaxIncrement(inc, r.Increment)
	}
	return inc
}
