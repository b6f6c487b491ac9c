package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hxsl/internal/diagfmt"
	"hxsl/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.hxsl",
	Short: "Parse and bind a single HXSL shader",
	Long:  `Parse builds the declaration tree of one shader file, binds its types and prints the result`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	addCompilerFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	diagFormat, err := cmd.Flags().GetString("diag-format")
	if err != nil {
		return err
	}
	printer, err := newDiagPrinter(cmd, diagFormat)
	if err != nil {
		return err
	}
	cfg, err := projectConfig(cmd, path)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	res, err := driver.Parse(cmd.Context(), path, compilerOptions(cfg))
	if errors.Is(err, driver.ErrModuleSource) {
		return fmt.Errorf("%w: hxslc compile %s", err, path)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	defer res.Result.Release()

	if err := printer.print(os.Stderr, res.Result.Bag, res.FileSet); err != nil {
		return err
	}
	if wantTimings(cmd) {
		fmt.Fprint(os.Stderr, res.Result.Timings.Summary())
	}
	if res.Err != nil || res.Result.Compilation == nil {
		cmd.SilenceErrors = true
		return errFailed{what: "parse"}
	}

	title := res.File.FormatPath("auto", res.FileSet.BaseDir())
	switch format {
	case "pretty":
		return printSummary(os.Stdout, title, driver.Summarize(res.Result))
	case "tree":
		return diagfmt.FormatCompilationTree(os.Stdout, res.Result.Compilation, title, res.FileSet)
	case "json":
		return diagfmt.FormatCompilationJSON(os.Stdout, res.Result.Compilation, title, res.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func printSummary(w io.Writer, title string, s driver.Summary) error {
	_, err := fmt.Fprintf(w, "%s\n  namespaces: %s\n  structs: %d  classes: %d  fields: %d\n  functions: %s\n  types bound: %d\n",
		title, joinOrDash(s.Namespaces), s.Structs, s.Classes, s.Fields, joinOrDash(s.Functions), s.Bound)
	if err != nil {
		return err
	}
	if len(s.Unresolved) > 0 {
		fmt.Fprintf(w, "  unresolved: %s\n", strings.Join(s.Unresolved, ", "))
	}
	if len(s.Links) > 0 {
		fmt.Fprintf(w, "  linked: @%s\n", strings.Join(s.Links, ", @"))
	}
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
