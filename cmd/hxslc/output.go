package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"hxsl/internal/compiler"
	"hxsl/internal/diag"
	"hxsl/internal/diagfmt"
	"hxsl/internal/project"
	"hxsl/internal/source"
	"hxsl/internal/version"
)

func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(colorFlag) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return !env.Has("NO_COLOR") && isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
}

func isQuiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

func wantTimings(cmd *cobra.Command) bool {
	t, _ := cmd.Root().PersistentFlags().GetBool("timings")
	return t
}

// diagPrinter печатает Bag в выбранном формате; sarif и json: один документ на Bag.
type diagPrinter struct {
	format string
	pretty diagfmt.PrettyOpts
	json   diagfmt.JSONOpts
	args   []string
}

func newDiagPrinter(cmd *cobra.Command, format string) (*diagPrinter, error) {
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return nil, err
	}
	modeStr, err := cmd.Root().PersistentFlags().GetString("path-mode")
	if err != nil {
		return nil, err
	}
	mode, ok := diagfmt.ParsePathMode(modeStr)
	if !ok {
		return nil, fmt.Errorf("invalid --path-mode value %q", modeStr)
	}
	switch format {
	case "pretty", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown diagnostics format: %s (expected pretty|json|sarif)", format)
	}
	return &diagPrinter{
		format: format,
		pretty: diagfmt.PrettyOpts{Color: color, Context: 2, PathMode: mode, ShowNotes: true},
		json:   diagfmt.JSONOpts{IncludePositions: true, PathMode: mode, IncludeNotes: true},
		args:   os.Args[1:],
	}, nil
}

func (p *diagPrinter) print(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	switch p.format {
	case "json":
		return diagfmt.JSON(w, bag, fs, p.json)
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{ToolName: "hxslc", ToolVersion: version.Version, InvocationArgs: p.args})
	default:
		diagfmt.Pretty(w, bag, fs, p.pretty)
		return nil
	}
}

// projectConfig resolves hxsl.toml for the first target and applies flag
// overrides on top of file and environment values.
func projectConfig(cmd *cobra.Command, target string) (project.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, err
	}
	start := "."
	if target != "" {
		start = filepath.Dir(target)
	}
	cfg, err := project.Resolve(start, explicit)
	if err != nil {
		return project.Config{}, err
	}
	pf := cmd.Root().PersistentFlags()
	if pf.Changed("max-diagnostics") {
		if cfg.Compiler.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return project.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Lookup("classes") != nil && flags.Changed("classes") {
		cfg.Compiler.Classes, _ = flags.GetBool("classes")
	}
	if flags.Lookup("allow-unresolved") != nil && flags.Changed("allow-unresolved") {
		cfg.Compiler.AllowUnresolved, _ = flags.GetBool("allow-unresolved")
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		cfg.Compiler.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Lookup("no-cache") != nil && flags.Changed("no-cache") {
		cfg.Cache.Disabled, _ = flags.GetBool("no-cache")
	}
	if flags.Lookup("cache-dir") != nil && flags.Changed("cache-dir") {
		cfg.Cache.Dir, _ = flags.GetString("cache-dir")
	}
	return cfg, nil
}

func compilerOptions(cfg project.Config) compiler.Options {
	return compiler.Options{
		MaxDepth:        cfg.Compiler.MaxDepth,
		Classes:         cfg.Compiler.Classes,
		AllowUnresolved: cfg.Compiler.AllowUnresolved,
		MaxDiagnostics:  cfg.Compiler.MaxDiagnostics,
	}
}

// addCompilerFlags registers the flags that map onto [compiler] in hxsl.toml.
func addCompilerFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("classes", false, "enable the class declaration analyzer")
	cmd.Flags().Bool("allow-unresolved", false, "report unknown types and unlinked @references as warnings")
	cmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|json|sarif)")
}
