package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frgrisk/cog/internal/logx"
)

// rootCmd is the base command when cog is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "cog",
	Short: "Conventional commit tooling and SemVer release automation",
}

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initLogging)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	rootCmd.PersistentFlags().StringP("repo", "r", cwd, "path to git repository")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	if err := rootCmd.MarkPersistentFlagDirname("repo"); err != nil {
		panic(err)
	}
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(changelogCmd)
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(getVersionCmd)
	rootCmd.AddCommand(installHookCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(explainCmd)
}

func initLogging() {
	logx.Configure(viper.GetBool("verbose"))
}

// repoPath returns the --repo flag value, the same persistent flag the
// teacher binds in root.go's init().
func repoPath() string {
	return viper.GetString("repo")
}

// fail prints msg to stderr and exits 1, the "controlled failure" exit
// code of §6 (non-compliant commit, nothing to bump, precondition
// violated).
func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// infraFail prints msg and exits above 1, reserved for infrastructure
// errors (repository cannot be opened, disk I/O failure) per §6.
func infraFail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
