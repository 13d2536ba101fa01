// Package cmd implements the plox command-line interface: a REPL when
// invoked with no arguments, single-file execution when given a script
// path, and a couple of pipeline-debugging subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var trace bool

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "plox [script]",
	Short: "A tree-walking interpreter for Lox",
	Long: `plox is a tree-walking interpreter for Lox, the teaching language
from Crafting Interpreters.

Run with no arguments to start an interactive prompt, or pass a single
script path to execute a .lox file.`,
	Version: Version,
	RunE:    runMain,
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log scan/parse/resolve/eval milestones to stderr")
}

// Execute runs the root command. runMain calls os.Exit directly for the
// 64/65/70 exit codes a script run can produce, since Cobra's RunE return
// value only distinguishes success from a generic failure.
func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func runMain(_ *cobra.Command, args []string) error {
	if trace {
		log.SetLevel(logrus.DebugLevel)
	}

	switch len(args) {
	case 0:
		runRepl()
		return nil
	case 1:
		runFile(args[0])
		return nil
	default:
		fmt.Fprintln(os.Stderr, "Usage: plox [script]")
		os.Exit(64)
		return nil
	}
}
