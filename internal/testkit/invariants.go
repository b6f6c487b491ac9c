package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"hxsl/internal/ast"
	"hxsl/internal/source"
)

// CheckSpanInvariants runs span checks over a parsed compilation:
// 1) every declaration span is non-empty, inside sf and points at sf
// 2) struct and class fields lie inside their owner
// 3) function name, parameters and body lie inside the function span
func CheckSpanInvariants(c *ast.Compilation, sf *source.File) error {
	if c == nil || sf == nil {
		return fmt.Errorf("nil compilation or file")
	}
	if c.Released() {
		return fmt.Errorf("compilation is released")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inFile := func(what string, sp source.Span) error {
		if sp.End <= sp.Start {
			return fmt.Errorf("%s: empty span %v", what, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s: span file mismatch: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.End > size {
			return fmt.Errorf("%s: span end beyond content: %d > %d", what, sp.End, size)
		}
		return nil
	}
	inside := func(what string, outer, sp source.Span) error {
		if err := inFile(what, sp); err != nil {
			return err
		}
		if !outer.Contains(sp) {
			return fmt.Errorf("%s: span %v is outside %v", what, sp, outer)
		}
		return nil
	}

	for _, nsID := range c.Namespaces {
		ns := c.Namespace(nsID)
		if ns == nil {
			return fmt.Errorf("nil namespace for id=%d", nsID)
		}
		if err := inFile("namespace "+ns.Name, ns.Span); err != nil {
			return err
		}
		for _, id := range ns.Structs {
			s := c.Struct(id)
			if err := inFile("struct "+s.Header.Name, s.Span); err != nil {
				return err
			}
			for _, f := range s.Fields {
				fd := c.Field(f)
				if err := inside("field "+fd.NameText, s.Span, fd.Span); err != nil {
					return err
				}
			}
		}
		for _, id := range ns.Classes {
			cl := c.Class(id)
			if err := inFile("class "+cl.Header.Name, cl.Span); err != nil {
				return err
			}
			for _, f := range cl.Fields {
				fd := c.Field(f)
				if err := inside("field "+fd.NameText, cl.Span, fd.Span); err != nil {
					return err
				}
			}
		}
		for _, id := range ns.Functions {
			fn := c.Function(id)
			if err := inFile("function "+fn.NameText, fn.Span); err != nil {
				return err
			}
			if err := inside("function name "+fn.NameText, fn.Span, fn.Name); err != nil {
				return err
			}
			for _, p := range fn.Params {
				prm := c.Param(p)
				if err := inside("parameter "+prm.NameText, fn.Span, prm.Span); err != nil {
					return err
				}
			}
			if fn.HasBody {
				if err := inside("body of "+fn.NameText, fn.Span, fn.Body); err != nil {
					return err
				}
			}
		}
		for _, id := range ns.Fields {
			fd := c.Field(id)
			if err := inFile("field "+fd.NameText, fd.Span); err != nil {
				return err
			}
		}
		for _, ref := range ns.References {
			if err := inFile("@"+ref.Name, ref.Span); err != nil {
				return err
			}
		}
	}
	return nil
}
