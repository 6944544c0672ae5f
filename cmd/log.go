package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/rangeresolve"
)

var (
	logTypes        []string
	logScopes       []string
	logAuthors      []string
	logBreakingOnly bool
	logNoError      bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List conventional commits, optionally filtered",
	Args:  cobra.NoArgs,
	Run:   runLog,
}

func init() {
	logCmd.Flags().StringSliceVar(&logTypes, "type", nil, "only include commits of these types")
	logCmd.Flags().StringSliceVar(&logScopes, "scope", nil, "only include commits with these scopes")
	logCmd.Flags().StringSliceVar(&logAuthors, "author", nil, "only include commits by these authors")
	logCmd.Flags().BoolVar(&logBreakingOnly, "breaking-change", false, "only include breaking changes")
	logCmd.Flags().BoolVar(&logNoError, "no-error", false, "skip non-compliant commits instead of failing")
}

func runLog(cmd *cobra.Command, args []string) {
	a := loadApp()

	resolved, err := rangeresolve.Resolve(a.facade, "", rangeresolve.Options{
		Prefix:          a.cfg.TagPrefix,
		Separator:       a.cfg.MonorepoSeparator,
		FirstParentOnly: a.cfg.OnlyFirstParent,
	})
	if err != nil {
		fail("cannot resolve commit range: %v", err)
	}

	opts := a.parseOpts(nil)
	var failures int
	for _, raw := range resolved.Commits {
		c, excluded, err := conventional.ParseMessage(raw, a.registry, opts)
		if excluded {
			continue
		}
		if err != nil {
			if logNoError {
				continue
			}
			fmt.Println(err)
			failures++
			continue
		}
		if !matchesFilters(c) {
			continue
		}
		printLogLine(c)
	}

	if failures > 0 {
		fail("Found %d non compliant commits", failures)
	}
}

func matchesFilters(c conventional.Commit) bool {
	if len(logTypes) > 0 && !contains(logTypes, c.Type.Name) {
		return false
	}
	if len(logScopes) > 0 && !contains(logScopes, c.Scope) {
		return false
	}
	if len(logAuthors) > 0 && !contains(logAuthors, c.Author) {
		return false
	}
	if logBreakingOnly && !c.Breaking {
		return false
	}
	return true
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func printLogLine(c conventional.Commit) {
	oid := c.Oid
	if len(oid) > 7 {
		oid = oid[:7]
	}
	breaking := ""
	if c.Breaking {
		breaking = "!"
	}
	scope := ""
	if c.Scope != "" {
		scope = "(" + c.Scope + ")"
	}
	fmt.Printf("%s %s%s%s: %s (%s)\n", oid, c.Type.Name, scope, breaking, c.Summary, c.Author)
}
