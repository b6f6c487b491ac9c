package compiler

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"hxsl/internal/ast"
	"hxsl/internal/diag"
	"hxsl/internal/module"
)

// link resolves `@name` references against the module's properties. A linked
// reference gets the property index and an External SymVariable entry.
func link(c *ast.Compilation, mod *module.Module, r diag.Reporter, allowUnlinked bool) ([]ast.VariableReference, error) {
	var (
		linked   []ast.VariableReference
		unlinked []ast.VariableReference
	)
	for _, nsID := range c.Namespaces {
		ns := c.Namespace(nsID)
		for i := range ns.References {
			ref := &ns.References[i]
			p := mod.FindProperty(ref.Name)
			if p == nil {
				ref.Property = -1
				unlinked = append(unlinked, *ref)
				continue
			}
			ref.Property = p.Index
			if _, ok := c.External.LookupKind(ref.Name, ast.SymVariable, nsID); !ok {
				handle, err := safecast.Conv[uint32](p.Index)
				if err != nil {
					panic(fmt.Errorf("property index overflow: %w", err))
				}
				c.External.Insert(ref.Name, ast.SymVariable, ref.Span, nsID, handle)
			}
			linked = append(linked, *ref)
		}
	}
	if len(unlinked) == 0 {
		return linked, nil
	}
	if allowUnlinked {
		for _, ref := range unlinked {
			diag.ReportWarning(r, diag.SemaUnlinkedReference, ref.Span,
				fmt.Sprintf("@%s does not name a property of module %q", ref.Name, mod.Name)).Emit()
		}
		return linked, nil
	}
	names := make([]string, len(unlinked))
	for i, ref := range unlinked {
		names[i] = "@" + ref.Name
	}
	return linked, &diag.Fault{
		Class:   diag.ErrBinding,
		Code:    diag.SemaUnlinkedReference,
		Span:    unlinked[0].Span,
		Message: fmt.Sprintf("unlinked reference(s) in module %q: %s", mod.Name, strings.Join(names, ", ")),
	}
}
