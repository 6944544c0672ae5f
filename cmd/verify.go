package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/conventional"
)

var (
	verifyFile               string
	verifyIgnoreMergeCommits bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <msg>",
	Short: "Verify a commit message against the conventional commit grammar",
	Args:  cobra.MaximumNArgs(1),
	Run:   runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFile, "file", "", "read the message from a file instead of an argument")
	verifyCmd.Flags().BoolVar(&verifyIgnoreMergeCommits, "ignore-merge-commits", false, "treat merge commit messages as compliant")
}

func runVerify(cmd *cobra.Command, args []string) {
	message, err := messageFromArgsOrFile(args, verifyFile)
	if err != nil {
		fail("%v", err)
	}

	a := loadApp()
	raw := conventional.RawCommit{Message: message}
	ignore := verifyIgnoreMergeCommits
	commit, excluded, err := conventional.ParseMessage(raw, a.registry, a.parseOpts(&ignore))
	if err != nil {
		fail("invalid commit message: %v", err)
	}
	if excluded {
		fmt.Println("merge commit, skipped")
		return
	}
	fmt.Printf("ok: %s", commit.Type.Name)
	if commit.Scope != "" {
		fmt.Printf("(%s)", commit.Scope)
	}
	if commit.Breaking {
		fmt.Print("!")
	}
	fmt.Printf(": %s\n", commit.Summary)
}

func messageFromArgsOrFile(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("cannot read %q: %w", file, err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return "", fmt.Errorf("either a message argument or --file is required")
}
