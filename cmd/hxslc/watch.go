package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"hxsl/internal/compiler"
	"hxsl/internal/driver"
)

const watchDebounce = 150 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [flags] module...",
	Short: "Recompile modules whenever their files change",
	Long: `Watch compiles the given modules, then recompiles on every change to a module
file or a shader file it references. Unchanged shaders are served from memory`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	addCompilerFlags(watchCmd)
	addBuildFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	mem := driver.NewMemoryCache(64)
	env, err := newBuildEnv(cmd, args[0], mem)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	files := env.rebuild(ctx, args, isQuiet(cmd))
	if err := watchDirs(watcher, files); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, files) {
				continue
			}
			// серия записей одного сохранения: одна пересборка
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		case <-pending:
			pending = nil
			files = env.rebuild(ctx, args, isQuiet(cmd))
			if err := watchDirs(watcher, files); err != nil {
				return err
			}
		}
	}
}

// rebuild compiles everything once and returns the on-disk files the build
// depends on. A fresh session per round keeps the FileSet from growing.
func (e *buildEnv) rebuild(ctx context.Context, paths []string, quiet bool) map[string]struct{} {
	start := time.Now()
	sess := compiler.NewSession(nil, e.opts.Compiler)
	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		files[cleanAbs(p)] = struct{}{}
	}

	results, err := driver.BuildAll(ctx, sess, paths, e.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return files
	}
	defer func() {
		for _, r := range results {
			r.Release()
		}
	}()
	for _, r := range results {
		for _, sh := range r.Module.Shaders {
			if sh.File != "" && !strings.Contains(sh.File, "#") {
				files[cleanAbs(sh.File)] = struct{}{}
			}
		}
	}

	failed, err := e.report(os.Stdout, os.Stderr, sess, results, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if !quiet {
		status := "ok"
		if failed {
			status = "failed"
		}
		fmt.Fprintf(os.Stdout, "[%s] %s in %s, %d module(s)\n", time.Now().Format("15:04:05"), status,
			time.Since(start).Round(time.Millisecond), len(results))
	}
	return files
}

// watchDirs: редакторы сохраняют через rename, поэтому следим за каталогами.
func watchDirs(w *fsnotify.Watcher, files map[string]struct{}) error {
	seen := make(map[string]struct{}, len(w.WatchList()))
	for _, dir := range w.WatchList() {
		seen[dir] = struct{}{}
	}
	for f := range files {
		dir := filepath.Dir(f)
		if _, ok := seen[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		seen[dir] = struct{}{}
	}
	return nil
}

func relevant(ev fsnotify.Event, files map[string]struct{}) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	_, ok := files[cleanAbs(ev.Name)]
	return ok
}

func cleanAbs(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
