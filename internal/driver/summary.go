package driver

import (
	"hxsl/internal/ast"
	"hxsl/internal/compiler"
)

// Summary is the part of a compile result that survives caching.
type Summary struct {
	Tokens     int      `msgpack:"tokens" json:"tokens"`
	Namespaces []string `msgpack:"namespaces" json:"namespaces"`
	Structs    int      `msgpack:"structs" json:"structs"`
	Classes    int      `msgpack:"classes" json:"classes"`
	Functions  []string `msgpack:"functions" json:"functions"`
	Fields     int      `msgpack:"fields" json:"fields"`
	Bound      int      `msgpack:"bound" json:"bound"`
	Unresolved []string `msgpack:"unresolved,omitempty" json:"unresolved,omitempty"`
	Links      []string `msgpack:"links,omitempty" json:"links,omitempty"`
}

// Summarize walks a successful result. Functions are listed as
// "Namespace.Name" in declaration order.
func Summarize(res *compiler.Result) Summary {
	s := Summary{Tokens: res.Tokens, Bound: res.Bind.Bound()}
	for _, ref := range res.Links {
		s.Links = append(s.Links, ref.Name)
	}
	c := res.Compilation
	if c == nil {
		return s
	}
	for _, id := range res.Bind.Unresolved {
		s.Unresolved = append(s.Unresolved, c.Type(id).Header.Name)
	}
	for _, nsID := range c.Namespaces {
		ns := c.Namespace(nsID)
		s.Namespaces = append(s.Namespaces, ns.Name)
		s.Structs += len(ns.Structs)
		s.Classes += len(ns.Classes)
		s.Fields += len(ns.Fields) + nestedFields(c, ns)
		for _, fn := range ns.Functions {
			s.Functions = append(s.Functions, ns.Name+"."+c.Function(fn).NameText)
		}
	}
	return s
}

func nestedFields(c *ast.Compilation, ns *ast.Namespace) int {
	n := 0
	for _, id := range ns.Structs {
		n += len(c.Struct(id).Fields)
	}
	for _, id := range ns.Classes {
		n += len(c.Class(id).Fields)
	}
	return n
}
