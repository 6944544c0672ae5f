package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/changelog"
	"github.com/frgrisk/cog/internal/gitrepo"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a repository for cog: git repo, cog.toml, CHANGELOG.md",
	Args:  cobra.MaximumNArgs(1),
	Run:   runInit,
}

const defaultConfig = `tag_prefix = "v"
monorepo_separator = "-"
ignore_merge_commits = true

[changelog]
template = "default"
path = "CHANGELOG.md"
`

func runInit(cmd *cobra.Command, args []string) {
	path := repoPath()
	if len(args) == 1 {
		path = args[0]
	}
	path = filepath.Clean(path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		infraFail("cannot create %q: %v", path, err)
	}

	if _, err := gitrepo.Init(path); err != nil {
		infraFail("cannot initialize repository: %v", err)
	}

	cfgPath := filepath.Join(path, "cog.toml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := os.WriteFile(cfgPath, []byte(defaultConfig), 0o644); err != nil {
			infraFail("cannot write cog.toml: %v", err)
		}
		fmt.Println("wrote", cfgPath)
	}

	changelogPath := filepath.Join(path, "CHANGELOG.md")
	if err := changelog.InitFile(changelogPath); err != nil {
		infraFail("cannot write CHANGELOG.md: %v", err)
	}
	fmt.Println("cog-ready repository at", path)
}
