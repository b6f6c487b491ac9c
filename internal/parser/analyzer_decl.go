package parser

import (
	"fmt"

	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/source"
	"hxsl/internal/token"
)

// DeclarationAnalyzer parses fields and functions:
//
//	mods type name ( params ) [: semantic] { body } | ;
//	mods type name [: semantic] ;
type DeclarationAnalyzer struct{}

func (DeclarationAnalyzer) Name() string { return "declaration" }

func (DeclarationAnalyzer) TryParse(p *Parser) (bool, error) {
	start := p.s.Current().Span
	tx, err := p.begin()
	if err != nil {
		return false, err
	}
	defer tx.rollback()

	mods := p.ParseModifiers()
	ty, ok := p.TryParseType()
	if !ok {
		return false, nil
	}
	// спекулятивный тип освобождается на любом пути, кроме передачи владения
	owned := false
	defer func() {
		if !owned {
			p.c.ReleaseType(ty)
		}
	}()

	name := p.s.Current()
	if name.Kind != token.Identifier {
		return false, nil
	}
	p.s.TryAdvance()

	d := declHead{start: start, mods: mods, ty: ty, name: name}
	switch cur := p.s.Current(); {
	case cur.IsDelimiter('('):
		tx.commit()
		if err := p.parseFunction(d); err != nil {
			return true, err
		}
	case cur.IsDelimiter(';'), cur.IsDelimiter(':'):
		tx.commit()
		if err := p.parseField(d); err != nil {
			return true, err
		}
	default:
		return false, nil
	}
	owned = true
	return true, nil
}

type declHead struct {
	start source.Span
	mods  ast.Modifiers
	ty    ast.TypeID
	name  token.Token
}

func (p *Parser) checkModifiers(d declHead, allowed ast.Modifiers, what string) error {
	if bad := d.mods &^ allowed; bad != 0 {
		return diag.ModifierFault(diag.SynModifierNotAllowed, d.start,
			fmt.Sprintf("invalid %s modifier(s) '%s' on %q", what, bad, d.name.Text))
	}
	return nil
}

// parseFunction takes ownership of d.ty only when it returns nil.
func (p *Parser) parseFunction(d declHead) error {
	if err := p.checkModifiers(d, ast.FunctionModifiers, "function"); err != nil {
		return err
	}
	if !p.ns.IsValid() {
		return diag.StructuralFault(diag.SynFunctionOutsideNS, d.name.Span, "function declared outside of a namespace")
	}
	if sc := p.CurrentScope(); sc.Kind == ScopeStruct || sc.Kind == ScopeClass {
		return diag.StructuralFault(diag.SynScopeKindMismatch, d.name.Span,
			fmt.Sprintf("function %q is not allowed inside a %s", d.name.Text, sc.Kind))
	}

	var params []ast.ParamID
	done := false
	defer func() {
		if !done {
			for _, id := range params {
				p.c.ReleaseParam(id)
			}
		}
	}()

	if _, err := p.s.ExpectDelimiter('('); err != nil {
		return err
	}
	if err := p.parseParamList(&params); err != nil {
		return err
	}
	semantic, err := p.parseSemantic()
	if err != nil {
		return err
	}

	fn := ast.Function{
		Name:       d.name.Span,
		NameText:   d.name.Text,
		ReturnType: d.ty,
		Flags:      d.mods,
		Semantic:   semantic,
	}
	switch cur := p.s.Current(); {
	case cur.IsDelimiter('{'):
		if err := p.EnterScope(d.name.Span, ScopeFunction, 0); err != nil {
			return err
		}
		end, err := p.SkipScope()
		if err != nil {
			return err
		}
		fn.Body, fn.HasBody = cur.Span.Cover(end.Span), true
		fn.Span = d.start.Cover(end.Span)
	case cur.IsDelimiter(';'):
		p.s.TryAdvance()
		fn.Span = d.start.Cover(cur.Span)
	default:
		return p.expected("'{' or ';'")
	}

	fn.Params = params
	p.c.AttachFunction(p.ns, p.c.NewFunction(fn))
	done = true
	return nil
}

// parseParamList parses after '(' up to and including ')'. Parsed parameters
// are appended to *params as soon as they exist so the caller can release them.
func (p *Parser) parseParamList(params *[]ast.ParamID) error {
	if p.s.TryGetDelimiter(')') {
		return nil
	}
	// f(void)
	if p.s.Current().IsKeyword(token.KwVoid) {
		tx, err := p.begin()
		if err != nil {
			return err
		}
		p.s.TryAdvance()
		if p.s.TryGetDelimiter(')') {
			tx.commit()
			return nil
		}
		tx.rollback()
	}
	for {
		id, ok, err := p.tryParseParameter()
		if err != nil {
			return err
		}
		if !ok {
			return p.expected("parameter")
		}
		*params = append(*params, id)
		if p.s.TryGetDelimiter(',') {
			continue
		}
		if _, err := p.s.ExpectDelimiter(')'); err != nil {
			return err
		}
		return nil
	}
}

// tryParseParameter: flags type name [: semantic]. Каждый параметр:
// отдельная транзакция со своим guard на тип.
func (p *Parser) tryParseParameter() (ast.ParamID, bool, error) {
	start := p.s.Current().Span
	tx, err := p.begin()
	if err != nil {
		return ast.NoParamID, false, err
	}
	defer tx.rollback()

	flags := p.ParseParameterFlags()
	ty, ok := p.TryParseType()
	if !ok {
		return ast.NoParamID, false, nil
	}
	owned := false
	defer func() {
		if !owned {
			p.c.ReleaseType(ty)
		}
	}()

	name := p.s.Current()
	if name.Kind != token.Identifier {
		return ast.NoParamID, false, nil
	}
	p.s.TryAdvance()
	tx.commit()

	semantic, err := p.parseSemantic()
	if err != nil {
		return ast.NoParamID, true, err
	}
	id := p.c.NewParam(ast.Parameter{
		Span:     start.Cover(p.s.LastToken().Span),
		Flags:    flags,
		Type:     ty,
		Name:     name.Span,
		NameText: name.Text,
		Semantic: semantic,
	})
	owned = true
	return id, true, nil
}

// parseField takes ownership of d.ty only when it returns nil.
func (p *Parser) parseField(d declHead) error {
	if err := p.checkModifiers(d, ast.FieldModifiers, "field"); err != nil {
		return err
	}
	semantic, err := p.parseSemantic()
	if err != nil {
		return err
	}
	end, err := p.s.ExpectDelimiter(';')
	if err != nil {
		return err
	}
	if !p.ns.IsValid() {
		return diag.StructuralFault(diag.SynFieldOutsideNS, d.name.Span, "field declared outside of a namespace")
	}

	id := p.c.NewField(ast.Field{
		Span:     d.start.Cover(end.Span),
		Type:     d.ty,
		Name:     d.name.Span,
		NameText: d.name.Text,
		Flags:    d.mods,
		Semantic: semantic,
	})
	switch sc := p.CurrentScope(); sc.Kind {
	case ScopeStruct:
		p.c.AttachStructField(ast.StructID(sc.Payload), id)
	case ScopeClass:
		p.c.AttachClassField(ast.ClassID(sc.Payload), id)
	default:
		p.c.AttachField(p.ns, id)
	}
	return nil
}
