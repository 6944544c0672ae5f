package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/hook"
	"github.com/frgrisk/cog/internal/rangeresolve"
)

var editFromLatestTag bool

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Review non-compliant commit messages in $EDITOR",
	Args:  cobra.NoArgs,
	Run:   runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&editFromLatestTag, "from-latest-tag", false, "only review commits since the latest tag")
}

// runEdit is a non-interactive, dry-run-safe stand-in for cocogitto's
// rebase-style editor: go-git exposes no interactive rebase plumbing, so
// rather than rewrite history this opens each non-compliant message in
// $EDITOR for review and prints the oid the user needs to `git commit
// --amend` or `git rebase -i` by hand.
func runEdit(cmd *cobra.Command, args []string) {
	a := loadApp()

	spec := ""
	if editFromLatestTag {
		spec = latestTagRangeSpec(a)
	}

	resolved, err := rangeresolve.Resolve(a.facade, spec, rangeresolve.Options{
		Prefix:          a.cfg.TagPrefix,
		Separator:       a.cfg.MonorepoSeparator,
		FirstParentOnly: a.cfg.OnlyFirstParent,
	})
	if err != nil {
		fail("cannot resolve range: %v", err)
	}

	opts := a.parseOpts(nil)
	editor := os.Getenv("EDITOR")
	runner := hook.ExecRunner{Dir: a.facade.Path()}

	var reviewed int
	for _, raw := range resolved.Commits {
		_, excluded, err := conventional.ParseMessage(raw, a.registry, opts)
		if excluded || err == nil {
			continue
		}

		fmt.Printf("%s: %v\n", shortOid(raw.Oid), err)
		if editor == "" {
			continue
		}

		tmp, werr := os.CreateTemp("", "cog-edit-*.txt")
		if werr != nil {
			continue
		}
		tmp.WriteString(raw.Message)
		tmp.Close()

		if _, err := runner.Run(editor+" "+tmp.Name(), nil); err != nil {
			fmt.Fprintf(os.Stderr, "editor failed: %v\n", err)
		}
		os.Remove(tmp.Name())
		reviewed++
	}

	if reviewed == 0 && editor == "" {
		fmt.Println("set $EDITOR to review message bodies interactively")
	}
}

func shortOid(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}
