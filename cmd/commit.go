package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frgrisk/cog/internal/gitrepo"
)

var (
	commitBreaking   bool
	commitSign       bool
	commitStageAll   bool
	commitAllowEmpty bool
)

var commitCmd = &cobra.Command{
	Use:   "commit <type> <message> [scope] [body] [footer]",
	Short: "Create a conventional commit",
	Args:  cobra.RangeArgs(2, 5),
	Run:   runCommit,
}

func init() {
	commitCmd.Flags().BoolVarP(&commitBreaking, "breaking-change", "B", false, "mark this commit as a breaking change")
	commitCmd.Flags().BoolVar(&commitSign, "sign", false, "GPG-sign the commit")
	commitCmd.Flags().BoolVarP(&commitStageAll, "all", "a", false, "stage all working tree changes before committing")
	// -u allows an empty commit, for the type/message-only convenience
	// commits cocogitto's onboarding flow produces before any file changes.
	commitCmd.Flags().BoolVarP(&commitAllowEmpty, "allow-empty", "u", false, "allow an empty commit")
}

func runCommit(cmd *cobra.Command, args []string) {
	a := loadApp()

	typeName, message := args[0], args[1]
	if _, ok := a.registry.Lookup(typeName); !ok {
		fail("unknown commit type %q", typeName)
	}

	var scope, body, footer string
	if len(args) > 2 {
		scope = args[2]
	}
	if len(args) > 3 {
		body = args[3]
	}
	if len(args) > 4 {
		footer = args[4]
	}

	header := typeName
	if scope != "" {
		header += "(" + scope + ")"
	}
	if commitBreaking {
		header += "!"
	}
	header += ": " + message

	var parts []string
	parts = append(parts, header)
	if body != "" {
		parts = append(parts, body)
	}
	if commitBreaking && footer == "" {
		footer = "BREAKING CHANGE: " + message
	}
	if footer != "" {
		parts = append(parts, footer)
	}
	fullMessage := strings.Join(parts, "\n\n")

	if commitStageAll {
		if err := a.facade.AddAll(); err != nil {
			infraFail("cannot stage changes: %v", err)
		}
	}

	name, email, err := a.facade.GetAuthor()
	if err != nil {
		infraFail("cannot read git author: %v", err)
	}

	oid, err := a.facade.Commit(gitrepo.CommitOpts{
		Message:    fullMessage,
		AuthorName: name,
		AuthorMail: email,
		AllowEmpty: commitAllowEmpty,
		Sign:       commitSign,
	})
	if err != nil {
		infraFail("cannot commit: %v", err)
	}
	fmt.Println(oid)
}
