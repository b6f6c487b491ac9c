package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hxsl/internal/compiler"
	"hxsl/internal/driver"
	"hxsl/internal/project"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] module...",
	Short: "Compile shader modules",
	Long: `Compile loads modules (hxsl.toml-style manifests, structural module files or bare
shaders), checks imports between them and compiles every shader concurrently`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	addCompilerFlags(compileCmd)
	addBuildFlags(compileCmd)
	compileCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	compileCmd.Flags().Bool("summary", false, "print a summary line per shader")
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max shaders compiled in parallel (0=auto)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the shader cache")
	cmd.Flags().String("cache-dir", "", "shader cache directory (default: $XDG_CACHE_HOME/hxsl)")
}

// buildEnv is what compile and watch share: config, printer and cache.
type buildEnv struct {
	cfg     project.Config
	printer *diagPrinter
	opts    driver.BuildOptions
}

func newBuildEnv(cmd *cobra.Command, target string, mem *driver.MemoryCache) (*buildEnv, error) {
	cfg, err := projectConfig(cmd, target)
	if err != nil {
		return nil, err
	}
	diagFormat, err := cmd.Flags().GetString("diag-format")
	if err != nil {
		return nil, err
	}
	printer, err := newDiagPrinter(cmd, diagFormat)
	if err != nil {
		return nil, err
	}
	env := &buildEnv{
		cfg:     cfg,
		printer: printer,
		opts: driver.BuildOptions{
			Compiler: compilerOptions(cfg),
			Jobs:     cfg.Compiler.Jobs,
			Timings:  wantTimings(cmd),
		},
	}
	if cfg.Cache.Disabled {
		env.opts.Cache = driver.Layered(mem, nil)
		return env, nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		if dir, err = driver.DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	disk, err := driver.OpenDiskCache(dir)
	if err != nil {
		// кэш не обязателен: предупреждаем и собираем без него
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: shader cache disabled: %v\n", err)
		env.opts.Cache = driver.Layered(mem, nil)
		return env, nil
	}
	env.opts.Cache = driver.Layered(mem, disk)
	return env, nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	env, err := newBuildEnv(cmd, args[0], nil)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	sess := compiler.NewSession(nil, env.opts.Compiler)
	var results []*driver.BuildResult
	if shouldUseTUI(mode) && !isQuiet(cmd) && env.printer.format == "pretty" {
		results, err = runBuildWithUI(cmd.Context(), sess, args, env.opts)
	} else {
		results, err = driver.BuildAll(cmd.Context(), sess, args, env.opts)
	}
	if err != nil {
		return err
	}
	defer func() {
		for _, r := range results {
			r.Release()
		}
	}()

	failed, err := env.report(cmd.OutOrStdout(), cmd.ErrOrStderr(), sess, results, summary && !isQuiet(cmd))
	if err != nil {
		return err
	}
	if failed {
		cmd.SilenceErrors = true
		return errFailed{what: "compilation"}
	}
	return nil
}

// report prints diagnostics of every shader and module, and optional summary
// lines. It reports whether any shader failed.
func (e *buildEnv) report(out, errOut io.Writer, sess *compiler.Session, results []*driver.BuildResult, summary bool) (bool, error) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	if !e.printer.pretty.Color {
		ok.DisableColor()
		bad.DisableColor()
	}
	failed := false
	for _, r := range results {
		for i := range r.Shaders {
			sh := &r.Shaders[i]
			if err := e.printer.print(errOut, sh.Bag, sess.Files()); err != nil {
				return failed, err
			}
			if sh.Failed() {
				failed = true
				if sh.Err != nil && sh.Bag.Len() == 0 {
					fmt.Fprintf(errOut, "%s/%s: %v\n", r.Module.Name, sh.Name, sh.Err)
				}
			}
			if !summary {
				continue
			}
			mark, note := ok.Sprint("ok"), ""
			if sh.Failed() {
				mark = bad.Sprint("FAIL")
			}
			if sh.Cached {
				note = " (cached)"
			}
			fmt.Fprintf(out, "%-4s %s/%s: %d namespace(s), %d function(s), %d bound, %d linked%s\n",
				mark, r.Module.Name, sh.Name, len(sh.Summary.Namespaces), len(sh.Summary.Functions),
				sh.Summary.Bound, len(sh.Summary.Links), note)
		}
		if err := e.printer.print(errOut, r.Bag, sess.Files()); err != nil {
			return failed, err
		}
		if e.opts.Timings && e.printer.format == "pretty" {
			fmt.Fprint(errOut, r.Timings.Summary())
		}
	}
	return failed, nil
}

// buildAll is BuildAll that tolerates a nil context.
func buildAll(ctx context.Context, sess *compiler.Session, paths []string, opts driver.BuildOptions) ([]*driver.BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return driver.BuildAll(ctx, sess, paths, opts)
}
