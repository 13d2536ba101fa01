package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/plox/internal/errors"
	"github.com/cwbudde/plox/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <script>",
	Short: "Scan a script and print its tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(_ *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read file %s: %w", args[0], err)
	}

	diags := errors.New()
	tokens := lexer.New(string(source), diags).ScanTokens()
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	if diags.HadError {
		diags.Print(os.Stderr)
		os.Exit(65)
	}
	return nil
}
