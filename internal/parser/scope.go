package parser

import (
	"fmt"
	"strings"

	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/source"
	"hxsl/internal/token"
)

// ScopeKind classifies a brace-delimited scope.
type ScopeKind uint8

const (
	ScopeUnknown ScopeKind = iota
	ScopeNamespace
	ScopeStruct
	ScopeClass
	ScopeFunction
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeNamespace:
		return "namespace"
	case ScopeStruct:
		return "struct"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// ScopeContext: (имя, вид, payload). Payload: хэндл узла, который строится
// внутри scope (StructID, ClassID, FunctionID), 0 если его нет.
type ScopeContext struct {
	Name    source.Span
	Kind    ScopeKind
	Payload uint32
}

// Level is the current nesting level.
func (p *Parser) Level() int { return len(p.scopes) }

// CurrentScope returns the innermost scope; at global level it is ScopeUnknown.
func (p *Parser) CurrentScope() ScopeContext {
	if len(p.scopes) == 0 {
		return ScopeContext{}
	}
	return p.scopes[len(p.scopes)-1]
}

// IsInNamespaceScope: strict: ровно на уровне тела namespace, иначе на нём или глубже.
func (p *Parser) IsInNamespaceScope(strict bool) bool {
	if !p.ns.IsValid() {
		return false
	}
	if strict {
		return len(p.scopes) == p.nsLevel
	}
	return len(p.scopes) >= p.nsLevel
}

// IsInGlobalOrNamespaceScope gates where `using` is legal.
func (p *Parser) IsInGlobalOrNamespaceScope() bool {
	return len(p.scopes) == 0 || p.IsInNamespaceScope(true)
}

// TryAdvance consumes namespace and using declarations and braces until the
// cursor rests on content for the analyzers. It returns false at end of stream.
func (p *Parser) TryAdvance() (bool, error) {
	for {
		cur := p.s.Current()
		switch {
		case cur.IsEOF():
			return false, nil
		case cur.IsKeyword(token.KwNamespace):
			if err := p.parseNamespace(); err != nil {
				return false, err
			}
		case cur.IsKeyword(token.KwUsing):
			if err := p.parseUsing(); err != nil {
				return false, err
			}
		case cur.IsDelimiter('{'):
			if err := p.EnterScope(source.Span{}, ScopeUnknown, 0); err != nil {
				return false, err
			}
		case cur.IsDelimiter('}'):
			if err := p.s.Advance(); err != nil {
				return false, err
			}
			if err := p.ExitScope(); err != nil {
				return false, err
			}
		default:
			if !p.ns.IsValid() {
				return false, diag.SyntaxFault(diag.SynExpectNamespace, cur.Span, "namespace", cur.Describe())
			}
			return true, nil
		}
	}
}

// EnterScope expects '{' and pushes a scope.
func (p *Parser) EnterScope(name source.Span, kind ScopeKind, payload uint32) error {
	if _, err := p.s.ExpectDelimiter('{'); err != nil {
		return err
	}
	return p.pushScope(ScopeContext{Name: name, Kind: kind, Payload: payload})
}

// TryEnterScope enters a scope only when the cursor is on '{'.
func (p *Parser) TryEnterScope(name source.Span, kind ScopeKind, payload uint32) (bool, error) {
	if !p.s.Current().IsDelimiter('{') {
		return false, nil
	}
	return true, p.EnterScope(name, kind, payload)
}

func (p *Parser) pushScope(sc ScopeContext) error {
	if len(p.scopes) >= p.maxDepth {
		return diag.StructuralFault(diag.SynStackOverflow, p.s.LastToken().Span,
			fmt.Sprintf("stack overflow: scope nesting exceeds %d", p.maxDepth))
	}
	p.scopes = append(p.scopes, sc)
	return nil
}

// ExitScope pops the innermost scope. The closing brace is consumed by the caller.
// Leaving the body of a braced namespace closes the namespace.
func (p *Parser) ExitScope() error {
	n := len(p.scopes)
	if n == 0 {
		return diag.StructuralFault(diag.SynScopeUnderflow, p.s.LastToken().Span, "scope stack underflow: unmatched '}'")
	}
	p.scopes = p.scopes[:n-1]
	if p.nsScoped && p.ns.IsValid() && len(p.scopes) < p.nsLevel {
		p.ns = ast.NoNamespaceID
		p.nsScoped = false
		p.nsLevel = 0
	}
	return nil
}

// SkipScope advances past the current scope without parsing it and returns
// the closing brace. Reaching the end of tokens first is a stream fault.
func (p *Parser) SkipScope() (token.Token, error) {
	depth := 0
	for {
		cur := p.s.Current()
		if cur.IsEOF() {
			return token.Token{}, diag.StreamFault(cur.Span, "unexpected end of tokens")
		}
		if err := p.s.Advance(); err != nil {
			return token.Token{}, err
		}
		switch {
		case cur.IsDelimiter('{'):
			depth++
		case cur.IsDelimiter('}'):
			if depth == 0 {
				return cur, p.ExitScope()
			}
			depth--
		}
	}
}

// IterateScope runs the registry inside the current scope until its closing
// brace is consumed.
func (p *Parser) IterateScope() (token.Token, error) {
	for {
		cur := p.s.Current()
		if cur.IsEOF() {
			return token.Token{}, diag.StreamFault(cur.Span, "unexpected end of tokens")
		}
		if p.s.TryGetDelimiter('}') {
			return cur, p.ExitScope()
		}
		matched, err := p.reg.TryParse(p)
		if err != nil {
			return token.Token{}, err
		}
		if !matched {
			return token.Token{}, diag.SyntaxFault(diag.SynUnknownDecl, cur.Span, "declaration", cur.Describe())
		}
	}
}

// namespace A.B { ... }  |  namespace A.B;
func (p *Parser) parseNamespace() error {
	kw := p.s.Current()
	if len(p.scopes) != 0 {
		return diag.StructuralFault(diag.SynNamespaceNotGlobal, kw.Span, "namespace must be declared at global scope")
	}
	if p.ns.IsValid() {
		return diag.StructuralFault(diag.SynNamespaceNested, kw.Span,
			fmt.Sprintf("namespace %q is already open", p.c.Namespace(p.ns).Name))
	}
	if err := p.s.Advance(); err != nil {
		return err
	}
	name, nameSpan, err := p.parseQualifiedName()
	if err != nil {
		return err
	}
	ns := p.c.AddNamespace(name, nameSpan)

	switch cur := p.s.Current(); {
	case cur.IsDelimiter(';'):
		p.s.TryAdvance()
		p.ns, p.nsLevel, p.nsScoped = ns, 0, false
		return nil
	case cur.IsDelimiter('{'):
		if err := p.EnterScope(nameSpan, ScopeNamespace, uint32(ns)); err != nil {
			return err
		}
		p.ns, p.nsLevel, p.nsScoped = ns, len(p.scopes), true
		return nil
	default:
		return p.expected("'{' or ';'")
	}
}

// using A.B;  |  using Alias = A.B;
func (p *Parser) parseUsing() error {
	kw := p.s.Current()
	if !p.IsInGlobalOrNamespaceScope() {
		return diag.StructuralFault(diag.SynUsingPlacement, kw.Span, "using is only allowed at global or namespace scope")
	}
	if err := p.s.Advance(); err != nil {
		return err
	}
	target, targetSpan, err := p.parseQualifiedName()
	if err != nil {
		return err
	}
	u := ast.Using{Target: target}
	if p.s.TryGetOperator(token.OpAssign) {
		// первое имя оказалось псевдонимом
		if strings.Contains(target, ".") {
			return diag.SyntaxFault(diag.SynExpectIdentifier, targetSpan, "alias identifier", "'"+target+"'")
		}
		u.Alias, u.AliasSpan = target, targetSpan
		if u.Target, targetSpan, err = p.parseQualifiedName(); err != nil {
			return err
		}
	}
	end, err := p.s.ExpectDelimiter(';')
	if err != nil {
		return err
	}
	u.Span = kw.Span.Cover(end.Span)
	if p.IsInNamespaceScope(true) {
		p.c.AddUsing(p.ns, u)
	} else {
		p.c.AddUsing(ast.NoNamespaceID, u)
	}
	return nil
}

// parseQualifiedName: Ident ('.' Ident)*
func (p *Parser) parseQualifiedName() (string, source.Span, error) {
	first, err := p.s.ExpectIdentifier()
	if err != nil {
		return "", source.Span{}, err
	}
	var b strings.Builder
	b.WriteString(first.Text)
	sp := first.Span
	for p.s.TryGetOperator(token.OpDot) {
		seg, err := p.s.ExpectIdentifier()
		if err != nil {
			return "", source.Span{}, err
		}
		b.WriteByte('.')
		b.WriteString(seg.Text)
		sp = sp.Cover(seg.Span)
	}
	return b.String(), sp, nil
}

func (p *Parser) expected(what string) error {
	cur := p.s.Current()
	if cur.IsEOF() {
		f := diag.StreamFault(cur.Span, "")
		f.Expected, f.Found = what, cur.Describe()
		return f
	}
	return diag.SyntaxFault(diag.SynUnexpectedToken, cur.Span, what, cur.Describe())
}
