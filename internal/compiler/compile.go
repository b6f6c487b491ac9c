package compiler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hxsl/internal/ast"
	"hxsl/internal/binder"
	"hxsl/internal/diag"
	"hxsl/internal/lexer"
	"hxsl/internal/module"
	"hxsl/internal/observ"
	"hxsl/internal/parser"
	"hxsl/internal/source"
	"hxsl/internal/stream"
	"hxsl/internal/trace"
)

var (
	// ErrUnknownShader: the module has no shader of the requested name.
	ErrUnknownShader = errors.New("unknown shader")
	// ErrDiagnostics: every phase ran, but error diagnostics were reported.
	ErrDiagnostics = errors.New("compilation reported errors")
)

// Result is the outcome of one shader compile. On failure Compilation is nil
// and Bag holds the fault as an error diagnostic.
type Result struct {
	Module      string
	Shader      string
	File        *source.File
	Compilation *ast.Compilation
	Bag         *diag.Bag
	Timings     observ.Report
	Tokens      int
	Bind        binder.Result
	Links       []ast.VariableReference
}

// OK reports whether the compile produced a bound compilation.
func (r *Result) OK() bool { return r != nil && r.Compilation != nil && !r.Bag.HasErrors() }

// Release frees the compilation; safe to call more than once.
func (r *Result) Release() {
	if r != nil && r.Compilation != nil {
		r.Compilation.Release()
	}
}

// CompileShaderToHLSL compiles the shader called shaderName from mod. The
// shader text is lexed with the in-shader grammar into a fresh Compilation,
// parsed until the tokens run out, bound against the session catalog and its
// `@name` references are linked to mod's properties.
//
// HLSL text is not emitted; the bound Compilation is the product.
func CompileShaderToHLSL(ctx context.Context, sess *Session, mod *module.Module, shaderName string) (*Result, error) {
	sh := mod.FindShader(shaderName)
	if sh == nil {
		return nil, fmt.Errorf("%w %q in module %q", ErrUnknownShader, shaderName, mod.Name)
	}
	file := sess.AddVirtual(ShaderFileName(mod, sh), sh.Source)
	return compile(ctx, sess, file, mod, sh.Name)
}

// ShaderFileName is the name diagnostics use for sh: its own file, or
// "<module path>#<shader>" for inline sources.
func ShaderFileName(mod *module.Module, sh *module.Shader) string {
	if sh.File != "" {
		return sh.File
	}
	return mod.Path + "#" + sh.Name
}

// CompileSource compiles standalone shader text. There is no property table,
// so `@name` references stay unlinked without a diagnostic.
func CompileSource(ctx context.Context, sess *Session, name, src string) (*Result, error) {
	return compile(ctx, sess, sess.AddVirtual(name, src), nil, name)
}

// CompileFile compiles a file already registered in the session's file set,
// like CompileSource.
func CompileFile(ctx context.Context, sess *Session, file *source.File) (*Result, error) {
	return compile(ctx, sess, file, nil, file.Path)
}

func compile(ctx context.Context, sess *Session, file *source.File, mod *module.Module, shader string) (res *Result, err error) {
	res = &Result{Shader: shader, File: file, Bag: diag.NewBag(sess.Opts.MaxDiagnostics)}
	label := shader
	if mod != nil {
		res.Module = mod.Name
		label = mod.Name + "." + shader
	}
	reporter := diag.BagReporter{Bag: res.Bag}
	timer := observ.NewTimer()

	ctx, span := trace.BeginCtx(ctx, trace.ScopeShader, "shader:"+label)
	c := ast.NewCompilation(file.ID, ast.Hints{})
	defer func() {
		res.Timings = timer.Report()
		if err != nil {
			if f, ok := diag.AsFault(err); ok {
				res.Bag.Add(f.Diagnostic())
			}
			c.Release()
			res.Compilation = nil
			span.End(err.Error())
			return
		}
		span.WithExtra("bound", strconv.Itoa(res.Bind.Bound())).End("")
	}()

	// tokenize
	phase := timer.Begin("tokenize")
	_, ps := trace.BeginCtx(ctx, trace.ScopePhase, "tokenize")
	toks := lexer.Tokenize(file, lexer.Options{Config: lexer.Shader, Reporter: reporter})
	res.Tokens = len(toks)
	ps.WithExtra("tokens", strconv.Itoa(len(toks))).End("")
	timer.End(phase, fmt.Sprintf("%d tokens", len(toks)))
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// parse
	phase = timer.Begin("parse")
	pctx, ps := trace.BeginCtx(ctx, trace.ScopePhase, "parse")
	s, err := stream.New(stream.NewSliceSource(toks), stream.Options{MaxDepth: sess.Opts.MaxStackDepth})
	if err != nil {
		ps.End(err.Error())
		return res, err
	}
	p := parser.New(c, s, parser.Options{MaxScopeDepth: sess.Opts.MaxDepth, Classes: sess.Opts.Classes})
	err = p.Parse(pctx)
	ps.WithExtra("nodes", strconv.Itoa(c.Live())).End("")
	timer.End(phase, fmt.Sprintf("%d nodes", c.Live()))
	if err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// bind
	phase = timer.Begin("bind")
	_, ps = trace.BeginCtx(ctx, trace.ScopePhase, "bind")
	res.Bind, err = binder.Bind(c, binder.Options{
		Catalog:         sess.Catalog(),
		Reporter:        reporter,
		Classes:         sess.Opts.Classes,
		AllowUnresolved: sess.Opts.AllowUnresolved,
	})
	ps.WithExtra("bound", strconv.Itoa(res.Bind.Bound())).End("")
	timer.End(phase, fmt.Sprintf("%d bound, %d unresolved", res.Bind.Bound(), len(res.Bind.Unresolved)))
	if err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// link
	if mod != nil {
		phase = timer.Begin("link")
		_, ps = trace.BeginCtx(ctx, trace.ScopePhase, "link")
		res.Links, err = link(c, mod, reporter, sess.Opts.AllowUnresolved)
		ps.WithExtra("linked", strconv.Itoa(len(res.Links))).End("")
		timer.End(phase, fmt.Sprintf("%d linked", len(res.Links)))
		if err != nil {
			return res, err
		}
	}

	if res.Bag.HasErrors() {
		return res, fmt.Errorf("%s: %w", file.Path, ErrDiagnostics)
	}
	res.Compilation = c
	return res, nil
}
