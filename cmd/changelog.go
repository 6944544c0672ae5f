package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frgrisk/cog/internal/changelog"
	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/rangeresolve"
	"github.com/frgrisk/cog/internal/version"
)

var (
	changelogAt       string
	changelogTemplate string
	changelogPlain    bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog [range]",
	Short: "Render the changelog entry for a commit range or a past release",
	Args:  cobra.MaximumNArgs(1),
	Run:   runChangelog,
}

func init() {
	changelogCmd.Flags().StringVar(&changelogAt, "at", "", "render the release already tagged as TAG instead of the unreleased range")
	changelogCmd.Flags().StringVarP(&changelogTemplate, "template", "t", "", "template name (default|remote|full_hash) or file path")
	changelogCmd.Flags().BoolVar(&changelogPlain, "plain", false, "print the raw rendered markdown instead of styling it for the terminal")
}

func runChangelog(cmd *cobra.Command, args []string) {
	a := loadApp()

	template := changelogTemplate
	if template == "" {
		template = a.cfg.Changelog.Template
	}
	renderer, err := changelog.NewRenderer(template)
	if err != nil {
		fail("cannot load template: %v", err)
	}

	spec, target, previous := changelogRangeAndEndpoints(a, args)

	resolved, err := rangeresolve.Resolve(a.facade, spec, rangeresolve.Options{
		Prefix:          a.cfg.TagPrefix,
		Separator:       a.cfg.MonorepoSeparator,
		FirstParentOnly: a.cfg.OnlyFirstParent,
	})
	if err != nil {
		fail("cannot resolve range %q: %v", spec, err)
	}

	commits := classifyQuietly(a, resolved.Commits)

	releaseDate := time.Now()
	if len(resolved.Commits) > 0 {
		if d, err := a.facade.CommitterDate(resolved.Commits[0].Oid); err == nil {
			releaseDate = d
		}
	}

	rel := changelog.Build(a.registry, commits, target, previous, releaseDate, changelog.BuildOptions{
		Authors: a.cfg.ChangelogAuthors(),
	})

	out, err := renderer.Render(rel, changelog.RemoteContext{
		Remote:     a.cfg.Changelog.Remote,
		Owner:      a.cfg.Changelog.Owner,
		Repository: a.cfg.Changelog.Repository,
	})
	if err != nil {
		fail("cannot render changelog: %v", err)
	}
	fmt.Print(styleForTerminal(out))
}

// styleForTerminal runs the rendered markdown through glamour when stdout
// is an interactive terminal, matching width to the terminal (capped at
// 120 columns) and falling back to 80 columns when the size is unknown.
// --plain and piped output (not a terminal) skip styling entirely.
func styleForTerminal(out string) string {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if changelogPlain || !isTerminal {
		return out
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
		if width > 120 {
			width = 120
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return out
	}

	styled, err := r.Render(out)
	if err != nil {
		return out
	}
	return styled
}

// changelogRangeAndEndpoints resolves the three changelog entry points
// (§6): an explicit range argument, `--at TAG` for a past release, or the
// default "unreleased since latest tag" view.
func changelogRangeAndEndpoints(a *app, args []string) (spec string, target rangeresolve.OidOf, previous *rangeresolve.OidOf) {
	if len(args) == 1 {
		spec = args[0]
		oid, err := a.facade.ResolveRevision("HEAD")
		if err != nil {
			infraFail("cannot resolve HEAD: %v", err)
		}
		return spec, rangeresolve.Head(oid), nil
	}

	tags, err := a.facade.AllTags()
	if err != nil {
		infraFail("cannot list tags: %v", err)
	}

	if changelogAt != "" {
		parsed, err := versionTag(a, changelogAt)
		if err != nil {
			fail("%v", err)
		}
		oid, err := a.facade.ResolveRevision(changelogAt)
		if err != nil {
			fail("cannot resolve tag %q: %v", changelogAt, err)
		}
		prevTag, prevOid, found := previousTag(tags, parsed, a)
		spec = prevTag.Format(a.cfg.MonorepoSeparator) + ".." + changelogAt
		if !found {
			spec = ".." + changelogAt
		}
		target = rangeresolve.Tag(parsed, oid)
		if found {
			p := rangeresolve.Tag(prevTag, prevOid)
			previous = &p
		}
		return spec, target, previous
	}

	latest, latestOid, found, err := rangeresolve.LatestTag(tags, rangeresolve.LatestTagOpts{
		Prefix:    a.cfg.TagPrefix,
		Separator: a.cfg.MonorepoSeparator,
	})
	if err != nil {
		infraFail("cannot resolve latest tag: %v", err)
	}
	oid, err := a.facade.ResolveRevision("HEAD")
	if err != nil {
		infraFail("cannot resolve HEAD: %v", err)
	}
	if !found {
		return "", rangeresolve.Head(oid), nil
	}
	p := rangeresolve.Tag(latest, latestOid)
	return latest.Format(a.cfg.MonorepoSeparator) + "..", rangeresolve.Head(oid), &p
}

func versionTag(a *app, name string) (version.Tag, error) {
	return version.ParseTag(name, a.cfg.TagPrefix, "", a.cfg.MonorepoSeparator)
}

func previousTag(tags []gitrepo.TagRef, current version.Tag, a *app) (version.Tag, string, bool) {
	type candidate struct {
		tag version.Tag
		oid string
	}
	var candidates []candidate
	for _, ref := range tags {
		parsed, err := versionTag(a, ref.Name)
		if err != nil {
			continue
		}
		if parsed.Package != current.Package {
			continue
		}
		if parsed.Version.Compare(current.Version) >= 0 {
			continue
		}
		candidates = append(candidates, candidate{tag: parsed, oid: ref.Oid})
	}
	if len(candidates) == 0 {
		return version.Tag{}, "", false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].tag.Version.Compare(candidates[j].tag.Version) < 0
	})
	best := candidates[len(candidates)-1]
	return best.tag, best.oid, true
}

func classifyQuietly(a *app, raw []conventional.RawCommit) []conventional.Commit {
	opts := a.parseOpts(nil)
	var out []conventional.Commit
	for _, r := range raw {
		c, excluded, err := conventional.ParseMessage(r, a.registry, opts)
		if excluded || err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
