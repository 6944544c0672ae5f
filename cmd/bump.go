package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/bump"
	"github.com/frgrisk/cog/internal/changelog"
	"github.com/frgrisk/cog/internal/hook"
	"github.com/frgrisk/cog/internal/increment"
	"github.com/frgrisk/cog/internal/monorepo"
	"github.com/frgrisk/cog/internal/rangeresolve"
	"github.com/frgrisk/cog/internal/version"
)

var (
	bumpAuto              bool
	bumpMajor             bool
	bumpMinor             bool
	bumpPatch             bool
	bumpVersion           string
	bumpPre               string
	bumpBuild             string
	bumpAnnotated         string
	bumpDryRun            bool
	bumpSkipUntracked     bool
	bumpSkipCI            bool
	bumpSkipCIOverride    string
	bumpDisableBumpCommit bool
	bumpHooksProfile      string
	bumpPackage           string
	bumpGlobal            bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Compute the next SemVer and tag the repository",
	Args:  cobra.NoArgs,
	Run:   runBump,
}

func init() {
	bumpCmd.Flags().BoolVar(&bumpAuto, "auto", false, "compute the increment from commit history (default)")
	bumpCmd.Flags().BoolVar(&bumpMajor, "major", false, "force a major bump")
	bumpCmd.Flags().BoolVar(&bumpMinor, "minor", false, "force a minor bump")
	bumpCmd.Flags().BoolVar(&bumpPatch, "patch", false, "force a patch bump")
	bumpCmd.Flags().StringVar(&bumpVersion, "version", "", "set the next version explicitly")
	bumpCmd.Flags().StringVar(&bumpPre, "pre", "", "pre-release identifier to attach")
	bumpCmd.Flags().StringVar(&bumpBuild, "build", "", "build metadata to attach")
	bumpCmd.Flags().StringVar(&bumpAnnotated, "annotated", "", "create an annotated tag with this message template instead of a lightweight tag")
	bumpCmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "compute and render without writing anything")
	bumpCmd.Flags().BoolVar(&bumpSkipUntracked, "skip-untracked", false, "tolerate untracked files in the working tree")
	bumpCmd.Flags().BoolVar(&bumpSkipCI, "skip-ci", false, "append the configured skip_ci marker to the bump commit")
	bumpCmd.Flags().StringVar(&bumpSkipCIOverride, "skip-ci-override", "", "override the skip_ci marker for this bump only")
	bumpCmd.Flags().BoolVar(&bumpDisableBumpCommit, "disable-bump-commit", false, "tag HEAD directly instead of creating a release commit")
	bumpCmd.Flags().StringVar(&bumpHooksProfile, "hooks-profile", "", "named bump_profiles entry to use instead of the default hooks")
	bumpCmd.Flags().StringVar(&bumpPackage, "package", "", "bump a single monorepo package instead of the global version")
	bumpCmd.Flags().BoolVar(&bumpGlobal, "global", false, "bump the aggregated global version across public-api packages")
}

func runBump(cmd *cobra.Command, args []string) {
	a := loadApp()

	incCmd, err := bumpCommandFromFlags()
	if err != nil {
		fail("%v", err)
	}

	switch {
	case bumpPackage != "":
		runBumpPackage(a, incCmd)
	case bumpGlobal:
		runBumpGlobal(a, incCmd)
	default:
		runBumpSimple(a, incCmd)
	}
}

func bumpCommandFromFlags() (increment.Command, error) {
	cmd := increment.Command{
		Major: bumpMajor,
		Minor: bumpMinor,
		Patch: bumpPatch,
		Auto:  bumpAuto,
		Pre:   bumpPre,
		Build: bumpBuild,
	}
	if bumpVersion != "" {
		manual, err := version.Parse(bumpVersion)
		if err != nil {
			return increment.Command{}, fmt.Errorf("invalid --version %q: %w", bumpVersion, err)
		}
		cmd.Manual = &manual
	}
	return cmd, nil
}

func skipCIMarker(cfg string) string {
	if bumpSkipCIOverride != "" {
		return bumpSkipCIOverride
	}
	if bumpSkipCI {
		return cfg
	}
	return ""
}

// runBumpSimple handles the non-monorepo case: a single, unscoped tag
// line over the whole repository.
func runBumpSimple(a *app, incCmd increment.Command) {
	tags, err := a.facade.AllTags()
	if err != nil {
		infraFail("cannot list tags: %v", err)
	}
	latestTag, _, found, err := rangeresolve.LatestTag(tags, rangeresolve.LatestTagOpts{
		Prefix:    a.cfg.TagPrefix,
		Separator: a.cfg.MonorepoSeparator,
	})
	if err != nil {
		infraFail("cannot resolve latest tag: %v", err)
	}

	spec := ""
	if found {
		spec = latestTag.Format(a.cfg.MonorepoSeparator) + ".."
	}
	resolved, err := rangeresolve.Resolve(a.facade, spec, rangeresolve.Options{
		Prefix:          a.cfg.TagPrefix,
		Separator:       a.cfg.MonorepoSeparator,
		FirstParentOnly: a.cfg.OnlyFirstParent,
	})
	if err != nil {
		infraFail("cannot resolve range: %v", err)
	}

	commits := classifyQuietly(a, resolved.Commits)

	prior := version.Zero
	if found {
		prior = latestTag.Version
	}

	next, inc, err := increment.Next(prior, commits, incCmd)
	if err != nil {
		fail("%v", err)
	}

	tagName := version.Tag{Prefix: a.cfg.TagPrefix, Version: next}.Format(a.cfg.MonorepoSeparator)
	priorTag := version.Tag{Prefix: a.cfg.TagPrefix, Version: prior}

	runBumpTransaction(a, bump.Input{
		NewVersion:   next,
		NewTag:       version.Tag{Prefix: a.cfg.TagPrefix, Version: next},
		Increment:    inc,
		HadPrior:     found,
		PriorVersion: prior,
		PriorTag:     priorTag,
		Commits:      commits,
		TagName:      tagName,
	}, a.cfg.PreBumpHooks, a.cfg.PostBumpHooks, a.cfg.Changelog.Path)
}

func runBumpPackage(a *app, incCmd increment.Command) {
	pkg := a.packageByName(bumpPackage)
	result, err := monorepo.ComputePackage(a.facade, pkg, a.scheme, a.registry, a.parseOpts(nil), incCmd, a.cfg.OnlyFirstParent)
	if err != nil {
		fail("%v", err)
	}
	if !result.Bumped {
		fail("no commit found that would trigger a bump for package %q", pkg.Name)
	}

	tagName := version.Tag{Prefix: a.cfg.TagPrefix, Package: pkg.Name, Version: result.NextVersion}.Format(a.cfg.MonorepoSeparator)

	pre, post := pkg.PreHooks, pkg.PostHooks
	if bumpHooksProfile != "" {
		if profile, ok := pkg.BumpProfiles[bumpHooksProfile]; ok {
			pre, post = profile.Pre, profile.Post
		}
	}

	changelogPath := pkg.ChangelogPath
	if changelogPath == "" {
		changelogPath = a.cfg.Changelog.Path
	}

	runBumpTransaction(a, bump.Input{
		NewVersion:   result.NextVersion,
		NewTag:       version.Tag{Prefix: a.cfg.TagPrefix, Package: pkg.Name, Version: result.NextVersion},
		Increment:    result.Increment,
		HadPrior:     result.HadPrior,
		PriorVersion: result.PriorTag.Version,
		PriorTag:     result.PriorTag,
		Commits:      result.Commits,
		Package:      pkg.Name,
		TagName:      tagName,
	}, pre, post, changelogPath)
}

func runBumpGlobal(a *app, incCmd increment.Command) {
	var results []monorepo.PackageResult
	for _, pkg := range a.cfg.MonorepoPackages() {
		result, err := monorepo.ComputePackage(a.facade, pkg, a.scheme, a.registry, a.parseOpts(nil), increment.Command{Auto: true}, a.cfg.OnlyFirstParent)
		if err != nil {
			fail("%v", err)
		}
		results = append(results, result)
	}

	var explicit *version.Increment
	switch {
	case incCmd.Major:
		v := version.Major
		explicit = &v
	case incCmd.Minor:
		v := version.Minor
		explicit = &v
	case incCmd.Patch:
		v := version.Patch
		explicit = &v
	}

	global, err := monorepo.ComputeGlobal(a.facade, a.scheme, results, explicit)
	if err != nil {
		fail("%v", err)
	}
	if !global.Bumped {
		fail("no public-api package bump found; global version unchanged")
	}

	tagName := version.Tag{Prefix: a.cfg.TagPrefix, Version: global.NextVersion}.Format(a.cfg.MonorepoSeparator)

	runBumpTransaction(a, bump.Input{
		NewVersion:   global.NextVersion,
		NewTag:       version.Tag{Prefix: a.cfg.TagPrefix, Version: global.NextVersion},
		Increment:    global.Increment,
		HadPrior:     global.HadPrior,
		PriorVersion: global.PriorTag.Version,
		PriorTag:     global.PriorTag,
		TagName:      tagName,
	}, a.cfg.PreBumpHooks, a.cfg.PostBumpHooks, a.cfg.Changelog.Path)
}

func runBumpTransaction(a *app, in bump.Input, preHooks, postHooks []string, changelogPath string) {
	var renderer *changelog.Renderer
	if !a.cfg.DisableChangelog {
		tmpl := a.cfg.Changelog.Template
		if tmpl == "" {
			tmpl = "default"
		}
		r, err := changelog.NewRenderer(tmpl)
		if err != nil {
			fail("cannot load changelog template: %v", err)
		}
		renderer = r
	}

	authorName, authorEmail, err := a.facade.GetAuthor()
	if err != nil {
		infraFail("cannot read git author: %v", err)
	}

	result, err := bump.Run(a.facade, in, bump.Options{
		Renderer:          renderer,
		ChangelogPath:     changelogPath,
		DisableChangelog:  a.cfg.DisableChangelog,
		DisableBumpCommit: bumpDisableBumpCommit || a.cfg.DisableBumpCommit,
		SkipCI:            skipCIMarker(a.cfg.SkipCI),
		SkipUntracked:     bumpSkipUntracked,
		AnnotatedTemplate: bumpAnnotated,
		PreHooks:          preHooks,
		PostHooks:         postHooks,
		Hooks:             hook.ExecRunner{Dir: a.facade.Path()},
		RemoteCtx: changelog.RemoteContext{
			Remote:     a.cfg.Changelog.Remote,
			Owner:      a.cfg.Changelog.Owner,
			Repository: a.cfg.Changelog.Repository,
		},
		Authors:     a.cfg.ChangelogAuthors(),
		Registry:    a.registry,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		DryRun:      bumpDryRun,
	})
	if err != nil {
		switch err.(type) {
		case *bump.DirtyWorkingTreeError, *bump.HookFailureError, *bump.NoCommitFoundError:
			fail("%v", err)
		default:
			infraFail("%v", err)
		}
	}

	if bumpDryRun {
		fmt.Printf("would bump to %s\n", result.Version.String())
		return
	}

	fmt.Printf("bumped to %s (%s)\n", result.Version.String(), result.Tag)
	if result.PostHookErr != nil {
		fmt.Printf("warning: post-bump hook failed: %v\n", result.PostHookErr)
	}
}
