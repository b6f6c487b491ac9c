package parser

import (
	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/token"
)

// StructAnalyzer parses `[access] struct Name { decls } [;]`.
type StructAnalyzer struct{}

func (StructAnalyzer) Name() string { return "struct" }

func (StructAnalyzer) TryParse(p *Parser) (bool, error) {
	start := p.s.Current().Span
	tx, err := p.begin()
	if err != nil {
		return false, err
	}
	defer tx.rollback()

	access := p.ParseAccessModifier()
	if !p.s.TryGetKeyword(token.KwStruct) {
		return false, nil
	}
	// после ключевого слова откатываться некуда
	tx.commit()
	kw := p.s.LastToken()

	if !p.ns.IsValid() {
		return true, diag.StructuralFault(diag.SynStructOutsideNS, kw.Span, "struct declared outside of a namespace")
	}
	name, err := p.s.ExpectIdentifier()
	if err != nil {
		return true, err
	}

	id := p.c.NewStruct(ast.Struct{
		Header: ast.TypeHeader{
			Symbol:    ast.Symbol{Span: name.Span},
			Namespace: p.ns,
			Name:      name.Text,
		},
		Access: access,
		Span:   start,
	})
	attached := false
	defer func() {
		if !attached {
			p.c.ReleaseStruct(id)
		}
	}()

	if err := p.EnterScope(name.Span, ScopeStruct, uint32(id)); err != nil {
		return true, err
	}
	end, err := p.IterateScope()
	if err != nil {
		return true, err
	}
	if p.s.TryGetDelimiter(';') {
		end = p.s.LastToken()
	}
	s := p.c.Struct(id)
	s.Span = start.Cover(end.Span)
	p.c.AttachStruct(p.ns, id)
	attached = true
	return true, nil
}

// ClassAnalyzer parses `class Name { fields } [;]`.
type ClassAnalyzer struct{}

func (ClassAnalyzer) Name() string { return "class" }

func (ClassAnalyzer) TryParse(p *Parser) (bool, error) {
	kw := p.s.Current()
	if !p.s.TryGetKeyword(token.KwClass) {
		return false, nil
	}
	if !p.ns.IsValid() {
		return true, diag.StructuralFault(diag.SynStructOutsideNS, kw.Span, "class declared outside of a namespace")
	}
	name, err := p.s.ExpectIdentifier()
	if err != nil {
		return true, err
	}

	id := p.c.NewClass(ast.Class{
		Header: ast.TypeHeader{
			Symbol:    ast.Symbol{Span: name.Span},
			Namespace: p.ns,
			Name:      name.Text,
		},
		Span: kw.Span,
	})
	attached := false
	defer func() {
		if !attached {
			p.c.ReleaseClass(id)
		}
	}()

	if err := p.EnterScope(name.Span, ScopeClass, uint32(id)); err != nil {
		return true, err
	}
	end, err := p.IterateScope()
	if err != nil {
		return true, err
	}
	if p.s.TryGetDelimiter(';') {
		end = p.s.LastToken()
	}
	p.c.Class(id).Span = kw.Span.Cover(end.Span)
	p.c.AttachClass(p.ns, id)
	attached = true
	return true, nil
}

// PropertyRefAnalyzer parses `@Name;`, a reference to a module property.
type PropertyRefAnalyzer struct{}

func (PropertyRefAnalyzer) Name() string { return "property-ref" }

func (PropertyRefAnalyzer) TryParse(p *Parser) (bool, error) {
	at := p.s.Current()
	if !p.s.TryGetOperator(token.OpAt) {
		return false, nil
	}
	if !p.ns.IsValid() {
		return true, diag.StructuralFault(diag.SynPropertyRefOutsideNS, at.Span, "property reference outside of a namespace")
	}
	name, err := p.s.ExpectIdentifier()
	if err != nil {
		return true, err
	}
	end, err := p.s.ExpectDelimiter(';')
	if err != nil {
		return true, err
	}
	p.c.AddReference(p.ns, ast.VariableReference{
		Span:     at.Span.Cover(end.Span),
		Name:     name.Text,
		Property: -1,
	})
	return true, nil
}
