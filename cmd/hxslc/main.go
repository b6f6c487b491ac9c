// Command hxslc is the HXSL front-end driver: tokenize, parse and compile
// shaders and shader modules, with diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hxsl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hxslc",
	Short: "HXSL shader front end",
	Long:  `hxslc parses HXSL shaders and shader modules, binds their types and reports diagnostics`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		stop, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profCleanup = stop
		return nil
	},
}

// traceCleanup сбрасывает трейсер; вызывается после Execute и при ошибке.
var traceCleanup = func(bool) {}

var profCleanup = func() {}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect per shader")
	pf.String("config", "", "path to hxsl.toml (default: search upwards)")
	pf.String("path-mode", "auto", "how file paths are shown (auto|absolute|relative|basename)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity in events")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	rootCmd.Version = version.Version
	err := rootCmd.Execute()
	profCleanup()
	traceCleanup(err != nil)
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// errFailed: диагностики уже напечатаны, cobra не должна добавлять своё.
type errFailed struct{ what string }

func (e errFailed) Error() string { return fmt.Sprintf("%s failed", e.what) }
