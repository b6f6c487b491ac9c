package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"hxsl/internal/compiler"
	"hxsl/internal/diag"
	"hxsl/internal/module"
	"hxsl/internal/observ"
	"hxsl/internal/project"
	"hxsl/internal/source"
	"hxsl/internal/trace"
)

// BuildOptions configure Build and BuildAll.
type BuildOptions struct {
	Compiler compiler.Options
	Jobs     int         // 0: GOMAXPROCS
	Cache    ShaderCache // nil: без кэша
	Observer Observer
	Timings  bool // OBS6001 с таблицей фаз в Bag модуля
}

// ShaderOutcome is one shader of a build.
type ShaderOutcome struct {
	Name    string
	File    *source.File
	Result  *compiler.Result // nil, если взято из кэша
	Cached  bool
	Summary Summary
	Bag     *diag.Bag
	Err     error
	Timings observ.Report
}

// Failed reports a fault or an error diagnostic.
func (o *ShaderOutcome) Failed() bool {
	return o.Err != nil || (o.Bag != nil && o.Bag.HasErrors())
}

// BuildResult is one module of a build.
type BuildResult struct {
	Module  *module.Module
	Shaders []ShaderOutcome
	Bag     *diag.Bag // диагностики уровня модуля (тайминги)
	Timings observ.Report
}

func (r *BuildResult) Failed() bool {
	for i := range r.Shaders {
		if r.Shaders[i].Failed() {
			return true
		}
	}
	return false
}

// Release frees every compilation the build still holds.
func (r *BuildResult) Release() {
	for i := range r.Shaders {
		r.Shaders[i].Result.Release()
	}
}

// Build loads the module at path (manifest, structural file or bare shader)
// and compiles its shaders concurrently.
func Build(ctx context.Context, sess *compiler.Session, path string, opts BuildOptions) (*BuildResult, error) {
	res, err := BuildAll(ctx, sess, []string{path}, opts)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// BuildAll loads every module first, checks imports between them, then
// builds them one after another. Imports are only checked when more than one
// module is given: a lone module has nothing to resolve against.
func BuildAll(ctx context.Context, sess *compiler.Session, paths []string, opts BuildOptions) ([]*BuildResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "build")
	defer span.End("")

	mods := make([]*module.Module, 0, len(paths))
	loadTimes := make([]observ.Report, 0, len(paths))
	for _, path := range paths {
		timer := observ.NewTimer()
		idx := timer.Begin("load")
		mod, err := module.Load(sess.Files(), path)
		if err != nil {
			return nil, err
		}
		timer.End(idx, strconv.Itoa(len(mod.Shaders))+" shader(s)")
		mods = append(mods, mod)
		loadTimes = append(loadTimes, timer.Report())
	}
	if len(mods) > 1 {
		if err := module.ResolveImports(mods); err != nil {
			return nil, err
		}
	}

	out := make([]*BuildResult, 0, len(mods))
	for i, mod := range mods {
		r, err := buildModule(ctx, sess, mod, opts)
		if r != nil {
			all := loadTimes[i]
			all.Merge("", r.Timings)
			r.Timings = all
			if opts.Timings {
				appendTimingDiagnostic(r.Bag, timingPayload{Kind: "module", Path: mod.Path, TotalMS: r.Timings.TotalMS, Phases: r.Timings.Phases})
			}
			out = append(out, r)
		}
		if err != nil {
			for _, done := range out {
				done.Release()
			}
			return nil, err
		}
	}
	return out, nil
}

func buildModule(ctx context.Context, sess *compiler.Session, mod *module.Module, opts BuildOptions) (*BuildResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeModule, "module:"+mod.Name)
	res := &BuildResult{
		Module:  mod,
		Shaders: make([]ShaderOutcome, len(mod.Shaders)),
		Bag:     diag.NewBag(sess.Opts.MaxDiagnostics),
	}
	if len(mod.Shaders) == 0 {
		span.End("no shaders")
		return res, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for i := range mod.Shaders {
		opts.notify(ShaderEvent{Module: mod.Name, Shader: mod.Shaders[i].Name, Status: ShaderQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(mod.Shaders)))
	for i := range mod.Shaders {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			res.Shaders[i] = compileShader(gctx, sess, mod, &mod.Shaders[i], opts)
			if err := res.Shaders[i].Err; errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	for i := range res.Shaders {
		res.Timings.Merge(mod.Shaders[i].Name, res.Shaders[i].Timings)
	}
	if err != nil {
		span.End(err.Error())
		res.Release()
		return nil, err
	}
	span.WithExtra("shaders", strconv.Itoa(len(mod.Shaders))).End("")
	return res, nil
}

func (o BuildOptions) notify(ev ShaderEvent) {
	if o.Observer != nil {
		o.Observer(ev)
	}
}

func compileShader(ctx context.Context, sess *compiler.Session, mod *module.Module, sh *module.Shader, opts BuildOptions) ShaderOutcome {
	start := time.Now()
	opts.notify(ShaderEvent{Module: mod.Name, Shader: sh.Name, Status: ShaderStarted})

	var (
		key      project.Digest
		cacheErr error
	)
	if opts.Cache != nil {
		key = ShaderKey(mod, sh, sess.Opts)
		var p DiskPayload
		ok, err := opts.Cache.Get(key, &p)
		if ok {
			out := restoreOutcome(sess, mod, sh, &p)
			opts.notify(ShaderEvent{Module: mod.Name, Shader: sh.Name, Status: ShaderCached, Elapsed: time.Since(start)})
			return out
		}
		cacheErr = err
	}

	r, err := compiler.CompileShaderToHLSL(ctx, sess, mod, sh.Name)
	out := ShaderOutcome{Name: sh.Name, Result: r, Err: err}
	if r != nil {
		out.File, out.Bag, out.Timings = r.File, r.Bag, r.Timings
		out.Summary = Summarize(r)
	} else {
		out.Bag = diag.NewBag(sess.Opts.MaxDiagnostics)
	}

	canceled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if opts.Cache != nil && !canceled {
		if perr := opts.Cache.Put(key, newPayload(mod, sh, &out)); perr != nil && cacheErr == nil {
			cacheErr = perr
		}
	}
	if cacheErr != nil {
		diag.ReportWarning(diag.BagReporter{Bag: out.Bag}, diag.IOCacheError, source.Span{},
			fmt.Sprintf("shader cache: %v", cacheErr)).Emit()
	}

	status := ShaderDone
	if out.Failed() {
		status = ShaderFailed
	}
	opts.notify(ShaderEvent{Module: mod.Name, Shader: sh.Name, Status: status, Elapsed: time.Since(start)})
	return out
}

func newPayload(mod *module.Module, sh *module.Shader, out *ShaderOutcome) *DiskPayload {
	p := &DiskPayload{
		Module:      mod.Name,
		Shader:      sh.Name,
		Broken:      out.Failed(),
		Summary:     out.Summary,
		Diagnostics: cacheDiagnostics(out.Bag.Items()),
		Timings:     out.Timings,
	}
	if out.Err != nil {
		p.Fault = out.Err.Error()
	}
	return p
}

// errCached wraps the text of a fault restored from the cache.
type errCached struct{ msg string }

func (e *errCached) Error() string { return e.msg + " (cached)" }

func restoreOutcome(sess *compiler.Session, mod *module.Module, sh *module.Shader, p *DiskPayload) ShaderOutcome {
	file := sess.AddVirtual(compiler.ShaderFileName(mod, sh), sh.Source)
	bag := diag.NewBag(sess.Opts.MaxDiagnostics)
	restoreDiagnostics(bag, file.ID, p.Diagnostics)
	out := ShaderOutcome{
		Name:    sh.Name,
		File:    file,
		Cached:  true,
		Summary: p.Summary,
		Bag:     bag,
		Timings: p.Timings,
	}
	if p.Fault != "" {
		out.Err = &errCached{msg: p.Fault}
	}
	return out
}
