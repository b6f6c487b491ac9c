package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hxsl/internal/diagfmt"
	"hxsl/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.hxsl",
	Short: "Tokenize an HXSL source or module file",
	Long:  `Tokenize prints the token stream of a file; module files use the structural grammar`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().String("grammar", "", "force a grammar (shader|structural); default: by content")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	grammar, err := cmd.Flags().GetString("grammar")
	if err != nil {
		return fmt.Errorf("failed to get grammar flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	printer, err := newDiagPrinter(cmd, "pretty")
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	result, err := driver.Tokenize(args[0], grammar, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printer.print(os.Stderr, result.Bag, result.FileSet); err != nil {
		return err
	}

	switch format {
	case "pretty":
		if !isQuiet(cmd) {
			fmt.Fprintf(os.Stdout, "# grammar: %s\n", result.Grammar.Name)
		}
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
