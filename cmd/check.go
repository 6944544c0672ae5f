package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/rangeresolve"
)

var checkFromLatestTag bool

var checkCmd = &cobra.Command{
	Use:   "check [range]",
	Short: "Check every commit in range parses as a conventional commit",
	Args:  cobra.MaximumNArgs(1),
	Run:   runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkFromLatestTag, "from-latest-tag", false, "check only commits since the latest tag")
}

func runCheck(cmd *cobra.Command, args []string) {
	a := loadApp()

	spec := ""
	if len(args) == 1 {
		spec = args[0]
	}
	if checkFromLatestTag {
		spec = latestTagRangeSpec(a)
	}

	resolved, err := rangeresolve.Resolve(a.facade, spec, rangeresolve.Options{
		Prefix:          a.cfg.TagPrefix,
		Separator:       a.cfg.MonorepoSeparator,
		FirstParentOnly: a.cfg.OnlyFirstParent,
	})
	if err != nil {
		fail("cannot resolve range %q: %v", spec, err)
	}

	opts := a.parseOpts(nil)
	var failures int
	for _, raw := range resolved.Commits {
		_, excluded, err := conventional.ParseMessage(raw, a.registry, opts)
		if excluded {
			continue
		}
		if err != nil {
			fmt.Println(err)
			failures++
		}
	}

	if failures > 0 {
		fail("Found %d non compliant commits", failures)
	}
	fmt.Println("ok")
}

// latestTagRangeSpec resolves "<latest tag>.." for the global tag line,
// or "" (first_commit..HEAD) when no tag exists yet.
func latestTagRangeSpec(a *app) string {
	tags, err := a.facade.AllTags()
	if err != nil {
		infraFail("cannot list tags: %v", err)
	}
	tag, _, found, err := rangeresolve.LatestTag(tags, rangeresolve.LatestTagOpts{
		Prefix:    a.cfg.TagPrefix,
		Separator: a.cfg.MonorepoSeparator,
	})
	if err != nil {
		infraFail("cannot resolve latest tag: %v", err)
	}
	if !found {
		return ""
	}
	return tag.Format(a.cfg.MonorepoSeparator) + ".."
}
