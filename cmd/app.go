package cmd

import (
	"github.com/frgrisk/cog/internal/config"
	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/monorepo"
)

// app bundles the state every subcommand beyond `init` needs: an open
// repository, the loaded cog.toml, and the derived commit-type registry
// and tag scheme it implies.
type app struct {
	facade   *gitrepo.Facade
	cfg      *config.Config
	registry *conventional.Registry
	scheme   monorepo.TagScheme
}

func loadApp() *app {
	path := repoPath()

	facade, err := gitrepo.Open(path)
	if err != nil {
		infraFail("cannot open repository at %q: %v", path, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		infraFail("cannot load configuration: %v", err)
	}

	return &app{
		facade:   facade,
		cfg:      cfg,
		registry: cfg.CommitTypeRegistry(),
		scheme:   monorepo.TagScheme{Prefix: cfg.TagPrefix, Separator: cfg.MonorepoSeparator},
	}
}

// parseOpts derives conventional.Options from cfg plus a possible
// command-local override of ignore_merge_commits.
func (a *app) parseOpts(ignoreMergeOverride *bool) conventional.Options {
	ignore := a.cfg.IgnoreMergeCommits
	if ignoreMergeOverride != nil {
		ignore = *ignoreMergeOverride
	}
	return conventional.Options{IgnoreMergeCommits: ignore}
}

// packageByName resolves --package NAME against the configured packages,
// exiting with a controlled failure if it is unknown.
func (a *app) packageByName(name string) monorepo.Package {
	for _, pkg := range a.cfg.MonorepoPackages() {
		if pkg.Name == name {
			return pkg
		}
	}
	fail("unknown package %q", name)
	return monorepo.Package{}
}
