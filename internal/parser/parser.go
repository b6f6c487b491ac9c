package parser

import (
	"context"
	"fmt"

	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/lexer"
	"hxsl/internal/source"
	"hxsl/internal/stream"
)

// DefaultMaxScopeDepth совпадает с глубиной стека откатов курсора.
const DefaultMaxScopeDepth = 64

type Options struct {
	MaxScopeDepth int  // 0: DefaultMaxScopeDepth
	MaxStackDepth int  // глубина стека откатов курсора; 0: stream.DefaultMaxDepth
	Classes       bool // включает анализатор `class`
	Registry      *Registry
}

// Parser: состояние разбора одного исходника.
type Parser struct {
	s    *stream.Stream
	c    *ast.Compilation
	reg  *Registry
	opts Options

	scopes   []ScopeContext
	maxDepth int

	ns       ast.NamespaceID // активный namespace, NoNamespaceID если закрыт
	nsLevel  int             // уровень вложенности тела namespace
	nsScoped bool            // открыт через '{', закрывается вместе со scope
}

// New creates a parser that fills c from s.
func New(c *ast.Compilation, s *stream.Stream, opts Options) *Parser {
	depth := opts.MaxScopeDepth
	if depth <= 0 {
		depth = DefaultMaxScopeDepth
	}
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry(opts)
	}
	return &Parser{
		s:        s,
		c:        c,
		reg:      reg,
		opts:     opts,
		scopes:   make([]ScopeContext, 0, depth),
		maxDepth: depth,
	}
}

// Stream exposes the token cursor to analyzers.
func (p *Parser) Stream() *stream.Stream { return p.s }

// Compilation is the unit being built.
func (p *Parser) Compilation() *ast.Compilation { return p.c }

// Namespace is the active namespace, NoNamespaceID outside of one.
func (p *Parser) Namespace() ast.NamespaceID { return p.ns }

// Parse drives the scope tracker and the analyzer registry until the tokens
// run out. The first fault aborts parsing; there is no recovery.
func (p *Parser) Parse(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := p.TryAdvance()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		cur := p.s.Current()
		matched, err := p.reg.TryParse(p)
		if err != nil {
			return err
		}
		if !matched {
			return diag.SyntaxFault(diag.SynUnknownDecl, cur.Span, "declaration", cur.Describe())
		}
	}
	if n := len(p.scopes); n != 0 {
		return &diag.Fault{
			Class:   diag.ErrStream,
			Code:    diag.SynUnclosedScope,
			Span:    p.s.Current().Span,
			Message: fmt.Sprintf("unexpected end of tokens: %d unclosed scope(s)", n),
		}
	}
	return nil
}

// ParseFile lexes file with the in-shader grammar and parses it into a new
// Compilation. On failure the partial compilation is released and nil is returned.
func ParseFile(ctx context.Context, file *source.File, opts Options) (*ast.Compilation, error) {
	lx := lexer.New(file, lexer.Options{Config: lexer.Shader})
	s, err := stream.New(lx, stream.Options{MaxDepth: opts.MaxStackDepth})
	if err != nil {
		return nil, err
	}
	c := ast.NewCompilation(file.ID, ast.Hints{})
	if err := New(c, s, opts).Parse(ctx); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}
