package parser

import (
	"context"
	"testing"

	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/lexer"
	"hxsl/internal/source"
	"hxsl/internal/stream"
	"hxsl/internal/testkit"
)

type parsed struct {
	file *source.File
	c    *ast.Compilation
	p    *Parser
	err  error
}

// parseSource parses src without releasing the compilation on failure, so
// tests can inspect ownership after a fault.
func parseSource(t *testing.T, src string, opts Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.hxsl", []byte(src)))
	s, err := stream.New(lexer.New(file, lexer.Options{Config: lexer.Shader}), stream.Options{MaxDepth: opts.MaxStackDepth})
	if err != nil {
		t.Fatalf("stream.New: %v", err)
	}
	c := ast.NewCompilation(file.ID, ast.Hints{})
	p := New(c, s, opts)
	return parsed{file: file, c: c, p: p, err: p.Parse(context.Background())}
}

func mustParse(t *testing.T, src string) parsed {
	t.Helper()
	r := parseSource(t, src, Options{})
	if r.err != nil {
		t.Fatalf("parse %q: %v", src, r.err)
	}
	if err := testkit.CheckSpanInvariants(r.c, r.file); err != nil {
		t.Fatalf("span invariants for %q: %v", src, err)
	}
	return r
}

func faultOf(t *testing.T, err error) *diag.Fault {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a fault, got nil")
	}
	f, ok := diag.AsFault(err)
	if !ok {
		t.Fatalf("expected *diag.Fault, got %T: %v", err, err)
	}
	return f
}

func (r parsed) text(sp source.Span) string { return sp.Text(r.file.Content) }

func (r parsed) typeName(id ast.TypeID) string {
	if ty := r.c.Type(id); ty != nil {
		return ty.Header.Name
	}
	return "<dead>"
}
