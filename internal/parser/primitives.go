package parser

import (
	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/stream"
	"hxsl/internal/token"
)

// txn: точка отката курсора. rollback после commit ничего не делает,
// поэтому его удобно откладывать через defer сразу после begin.
type txn struct {
	s    *stream.Stream
	done bool
}

func (p *Parser) begin() (*txn, error) {
	if err := p.s.PushState(); err != nil {
		return nil, err
	}
	return &txn{s: p.s}, nil
}

func (t *txn) commit() {
	if !t.done {
		t.done = true
		t.s.PopState(false)
	}
}

func (t *txn) rollback() {
	if !t.done {
		t.done = true
		t.s.PopState(true)
	}
}

var modifierKeywords = map[token.KeywordID]ast.Modifiers{
	token.KwPublic:          ast.ModPublic,
	token.KwPrivate:         ast.ModPrivate,
	token.KwInternal:        ast.ModInternal,
	token.KwInline:          ast.ModInline,
	token.KwStatic:          ast.ModStatic,
	token.KwNointerpolation: ast.ModNointerpolation,
	token.KwShared:          ast.ModShared,
	token.KwGroupshared:     ast.ModGroupshared,
	token.KwUniform:         ast.ModUniform,
	token.KwVolatile:        ast.ModVolatile,
	token.KwConst:           ast.ModConst,
}

var accessKeywords = map[token.KeywordID]ast.AccessModifier{
	token.KwPublic:   ast.AccessPublic,
	token.KwPrivate:  ast.AccessPrivate,
	token.KwInternal: ast.AccessInternal,
}

var paramKeywords = map[token.KeywordID]ast.ParameterFlags{
	token.KwIn:      ast.ParamIn,
	token.KwOut:     ast.ParamOut,
	token.KwInout:   ast.ParamInOut,
	token.KwUniform: ast.ParamUniform,
}

// ParseModifiers consumes a run of modifier keywords.
func (p *Parser) ParseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for {
		m, ok := modifierKeywords[p.s.Current().Keyword()]
		if !ok {
			return mods
		}
		mods |= m
		p.s.TryAdvance()
	}
}

// ParseAccessModifier consumes a run of access keywords; the last one wins.
// Without any the declaration is private.
func (p *Parser) ParseAccessModifier() ast.AccessModifier {
	access := ast.AccessPrivate
	for {
		a, ok := accessKeywords[p.s.Current().Keyword()]
		if !ok {
			return access
		}
		access = a
		p.s.TryAdvance()
	}
}

// ParseParameterFlags consumes in/out/inout/uniform.
func (p *Parser) ParseParameterFlags() ast.ParameterFlags {
	var flags ast.ParameterFlags
	for {
		f, ok := paramKeywords[p.s.Current().Keyword()]
		if !ok {
			return flags
		}
		flags |= f
		p.s.TryAdvance()
	}
}

// TryParseType accepts `void`, a scalar type keyword or an identifier and
// returns an unresolved slot for it. Names are checked only by the binder.
func (p *Parser) TryParseType() (ast.TypeID, bool) {
	cur := p.s.Current()
	switch {
	case cur.IsKeyword(token.KwVoid), cur.Keyword().IsScalarType(), cur.Kind == token.Identifier:
	default:
		return ast.NoTypeID, false
	}
	p.s.TryAdvance()
	return p.c.NewUnresolvedType(cur, p.ns), true
}

// ParseType is TryParseType with a syntax fault on mismatch.
func (p *Parser) ParseType() (ast.TypeID, error) {
	if id, ok := p.TryParseType(); ok {
		return id, nil
	}
	cur := p.s.Current()
	if cur.IsEOF() {
		return ast.NoTypeID, p.expected("type")
	}
	return ast.NoTypeID, diag.SyntaxFault(diag.SynExpectType, cur.Span, "type", cur.Describe())
}

// parseSemantic: optional `: IDENT`.
func (p *Parser) parseSemantic() (string, error) {
	if !p.s.TryGetDelimiter(':') {
		return "", nil
	}
	tok, err := p.s.ExpectIdentifier()
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}
