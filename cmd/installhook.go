package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var installHookCmd = &cobra.Command{
	Use:   "install-hook <type>",
	Short: "Install a git hook that runs cog verify on every commit message",
	Args:  cobra.ExactArgs(1),
	Run:   runInstallHook,
}

const commitMsgHookScript = `#!/bin/sh
# Installed by "cog install-hook commit-msg".
cog verify --file "$1" || exit 1
`

const prepareCommitMsgHookScript = `#!/bin/sh
# Installed by "cog install-hook prepare-commit-msg".
cog verify --file "$1" || exit 1
`

func runInstallHook(cmd *cobra.Command, args []string) {
	hookType := args[0]

	var script string
	switch hookType {
	case "commit-msg":
		script = commitMsgHookScript
	case "prepare-commit-msg":
		script = prepareCommitMsgHookScript
	case "all":
		installHook("commit-msg", commitMsgHookScript)
		installHook("prepare-commit-msg", prepareCommitMsgHookScript)
		return
	default:
		fail("unknown hook type %q (want commit-msg, prepare-commit-msg, or all)", hookType)
	}

	installHook(hookType, script)
}

func installHook(name, script string) {
	path := filepath.Join(repoPath(), ".git", "hooks", name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		infraFail("cannot write hook %q: %v", path, err)
	}
	fmt.Println("installed", path)
}
