package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/rangeresolve"
	"github.com/frgrisk/cog/internal/version"
)

var (
	getVersionFallback        string
	getVersionDisableFallback bool
	getVersionPackage         string
)

var getVersionCmd = &cobra.Command{
	Use:   "get-version",
	Short: "Print the current SemVer (latest tag) for the repository or a package",
	Args:  cobra.NoArgs,
	Run:   runGetVersion,
}

func init() {
	getVersionCmd.Flags().StringVar(&getVersionFallback, "fallback", "0.0.0", "version to print when no tag exists")
	getVersionCmd.Flags().BoolVar(&getVersionDisableFallback, "disable-fallback", false, "fail instead of falling back when no tag exists")
	getVersionCmd.Flags().StringVar(&getVersionPackage, "package", "", "report the version of this monorepo package instead of the global line")
}

func runGetVersion(cmd *cobra.Command, args []string) {
	a := loadApp()

	tags, err := a.facade.AllTags()
	if err != nil {
		infraFail("cannot list tags: %v", err)
	}

	tag, _, found, err := rangeresolve.LatestTag(tags, rangeresolve.LatestTagOpts{
		Prefix:    a.cfg.TagPrefix,
		Package:   getVersionPackage,
		Separator: a.cfg.MonorepoSeparator,
	})
	if err != nil {
		infraFail("cannot resolve latest tag: %v", err)
	}

	if found {
		fmt.Println(tag.Version.String())
		return
	}

	if getVersionDisableFallback {
		fail("no tag found")
	}

	fallback, err := version.Parse(getVersionFallback)
	if err != nil {
		fail("invalid --fallback value %q: %v", getVersionFallback, err)
	}
	fmt.Println(fallback.String())
}
