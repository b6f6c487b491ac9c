// Package binder resolves the placeholder type slots left by the parser.
package binder

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/types"
)

// Options configure a binding pass over one compilation.
type Options struct {
	Catalog  *types.Catalog // nil: собственный каталог на каждый вызов
	Reporter diag.Reporter
	// Classes включает поиск среди классов namespace после структур.
	Classes bool
	// AllowUnresolved превращает неразрешённые имена из фатальной ошибки в предупреждения.
	AllowUnresolved bool
}

// Result counts what a pass did.
type Result struct {
	Primitives int
	Structs    int
	Classes    int
	Unresolved []ast.TypeID
}

// Bound is the number of slots resolved by the pass.
func (r Result) Bound() int { return r.Primitives + r.Structs + r.Classes }

// Bind resolves every namespace's unresolved list in place: primitive catalog
// first, then namespace-local structs, then classes. A second call on an
// already bound compilation touches nothing.
//
// Names that match nothing stay in the unresolved list. Unless
// AllowUnresolved is set they are returned as one binding fault.
func Bind(c *ast.Compilation, opts Options) (Result, error) {
	var res Result
	if c == nil || c.Released() {
		return res, nil
	}
	cat := opts.Catalog
	if cat == nil {
		cat = types.NewCatalog()
	}
	b := binder{c: c, cat: cat, opts: opts, res: &res}
	for _, ns := range c.Namespaces {
		b.checkDuplicates(ns)
		b.bindNamespace(ns)
	}
	// проход идёт с конца списков; отчёт: в порядке исходника
	slices.SortFunc(res.Unresolved, func(x, y ast.TypeID) int {
		return cmp.Compare(c.Type(x).Header.Symbol.Span.Start, c.Type(y).Header.Symbol.Span.Start)
	})
	return res, b.finish()
}

type binder struct {
	c    *ast.Compilation
	cat  *types.Catalog
	opts Options
	res  *Result
}

func (b *binder) bindNamespace(id ast.NamespaceID) {
	ns := b.c.Namespace(id)
	// с конца: удаление текущего элемента не сдвигает ещё не просмотренные
	for i := len(ns.Unresolved) - 1; i >= 0; i-- {
		slot := ns.Unresolved[i]
		ty := b.c.Type(slot)
		u := ty.Unresolved()
		if u == nil {
			ns.Unresolved = append(ns.Unresolved[:i], ns.Unresolved[i+1:]...)
			continue
		}
		v := b.resolve(id, u.Token.Text)
		if v == nil {
			b.res.Unresolved = append(b.res.Unresolved, slot)
			continue
		}
		b.c.Rebind(slot, v)
		ns.Unresolved = append(ns.Unresolved[:i], ns.Unresolved[i+1:]...)
	}
}

func (b *binder) resolve(ns ast.NamespaceID, name string) ast.TypeVariant {
	if prim, ok := b.cat.Lookup(name); ok {
		b.res.Primitives++
		return &ast.PrimitiveType{Primitive: prim}
	}
	if ref, ok := b.c.Internal.LookupKind(name, ast.SymStruct, ns); ok {
		b.res.Structs++
		return &ast.StructType{Struct: ast.StructID(ref.Handle)}
	}
	if b.opts.Classes {
		if ref, ok := b.c.Internal.LookupKind(name, ast.SymClass, ns); ok {
			b.res.Classes++
			return &ast.ClassType{Class: ast.ClassID(ref.Handle)}
		}
	}
	return nil
}

// checkDuplicates: при повторе имени тип связывается с первым объявлением.
func (b *binder) checkDuplicates(id ast.NamespaceID) {
	ns := b.c.Namespace(id)
	seen := make(map[string]*ast.Struct, len(ns.Structs))
	for _, sid := range ns.Structs {
		s := b.c.Struct(sid)
		first, dup := seen[s.Header.Name]
		if !dup {
			seen[s.Header.Name] = s
			continue
		}
		diag.ReportWarning(b.opts.Reporter, diag.SemaDuplicateStruct, s.Header.Symbol.Span,
			fmt.Sprintf("struct %q is declared more than once in namespace %q", s.Header.Name, ns.Name)).
			WithNote(first.Header.Symbol.Span, "first declared here").
			Emit()
	}
}

func (b *binder) finish() error {
	if len(b.res.Unresolved) == 0 {
		return nil
	}
	if b.opts.AllowUnresolved {
		for _, slot := range b.res.Unresolved {
			ty := b.c.Type(slot)
			diag.ReportWarning(b.opts.Reporter, diag.SemaUnresolvedType, ty.Header.Symbol.Span,
				fmt.Sprintf("unknown type %q", ty.Header.Name)).Emit()
		}
		return nil
	}
	names := make([]string, 0, len(b.res.Unresolved))
	seen := make(map[string]struct{}, len(b.res.Unresolved))
	for _, slot := range b.res.Unresolved {
		name := b.c.Type(slot).Header.Name
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	first := b.c.Type(b.res.Unresolved[0])
	return diag.BindingFault(first.Header.Symbol.Span,
		fmt.Sprintf("unresolved type(s): %s", strings.Join(names, ", ")))
}
