package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <type>",
	Short: "Print the configured changelog title and bump rule for a commit type",
	Args:  cobra.ExactArgs(1),
	Run:   runExplain,
}

func runExplain(cmd *cobra.Command, args []string) {
	a := loadApp()

	typeName := args[0]
	ct, ok := a.registry.Lookup(typeName)
	if !ok {
		fail("unknown commit type %q", typeName)
	}

	bump := "no version bump"
	switch {
	case ct.BumpMinor:
		bump = "bumps the minor version"
	case ct.BumpPatch:
		bump = "bumps the patch version"
	}

	changelogBehavior := "included in the changelog"
	if ct.OmitFromChangelog {
		changelogBehavior = "omitted from the changelog"
	}

	fmt.Printf("%s: %q\n", typeName, ct.ChangelogTitle)
	fmt.Printf("  %s\n", bump)
	fmt.Printf("  %s\n", changelogBehavior)
}
