package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/plox/internal/errors"
	"github.com/cwbudde/plox/internal/lexer"
	"github.com/cwbudde/plox/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <script>",
	Short: "Parse a script and print its statement tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read file %s: %w", args[0], err)
	}

	diags := errors.New()
	tokens := lexer.New(string(source), diags).ScanTokens()
	statements := parser.New(tokens, diags).Parse()
	for _, stmt := range statements {
		fmt.Printf("%+v\n", stmt)
	}
	if diags.HadError {
		diags.Print(os.Stderr)
		os.Exit(65)
	}
	return nil
}
