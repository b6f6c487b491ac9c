package ast

import (
	"fmt"
	"slices"

	"hxsl/internal/source"
	"hxsl/internal/token"
)

type Hints struct{ Namespaces, Structs, Functions, Fields, Params, Types uint }

// Compilation владеет всеми узлами одного исходника. Узел создаётся, когда
// строится родитель, и освобождается ровно один раз, когда родитель
// освобождается. Release каскадный и идемпотентный.
type Compilation struct {
	File       source.FileID
	Usings     []Using
	Namespaces []NamespaceID
	Strings    *source.Interner
	Internal   *SymbolTable
	External   *SymbolTable

	namespaces *Arena[Namespace]
	structs    *Arena[Struct]
	classes    *Arena[Class]
	functions  *Arena[Function]
	fields     *Arena[Field]
	params     *Arena[Parameter]
	types      *Arena[Type]
	released   bool
}

func NewCompilation(file source.FileID, hints Hints) *Compilation {
	if hints.Namespaces == 0 {
		hints.Namespaces = 1 << 2
	}
	if hints.Structs == 0 {
		hints.Structs = 1 << 4
	}
	if hints.Functions == 0 {
		hints.Functions = 1 << 4
	}
	if hints.Fields == 0 {
		hints.Fields = 1 << 6
	}
	if hints.Params == 0 {
		hints.Params = 1 << 6
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	strs := source.NewInterner()
	return &Compilation{
		File:       file,
		Strings:    strs,
		Internal:   NewSymbolTable(strs),
		External:   NewSymbolTable(strs),
		namespaces: NewArena[Namespace](hints.Namespaces),
		structs:    NewArena[Struct](hints.Structs),
		classes:    NewArena[Class](hints.Structs),
		functions:  NewArena[Function](hints.Functions),
		fields:     NewArena[Field](hints.Fields),
		params:     NewArena[Parameter](hints.Params),
		types:      NewArena[Type](hints.Types),
	}
}

func (c *Compilation) Namespace(id NamespaceID) *Namespace { return c.namespaces.Get(uint32(id)) }
func (c *Compilation) Struct(id StructID) *Struct          { return c.structs.Get(uint32(id)) }
func (c *Compilation) Class(id ClassID) *Class             { return c.classes.Get(uint32(id)) }
func (c *Compilation) Function(id FunctionID) *Function    { return c.functions.Get(uint32(id)) }
func (c *Compilation) Field(id FieldID) *Field             { return c.fields.Get(uint32(id)) }
func (c *Compilation) Param(id ParamID) *Parameter         { return c.params.Get(uint32(id)) }
func (c *Compilation) Type(id TypeID) *Type                { return c.types.Get(uint32(id)) }

// Released reports whether Release has run.
func (c *Compilation) Released() bool { return c.released }

// Live is the number of allocated, not yet released nodes.
func (c *Compilation) Live() int {
	return c.namespaces.Live() + c.structs.Live() + c.classes.Live() +
		c.functions.Live() + c.fields.Live() + c.params.Live() + c.types.Live()
}

// --- построение ---

// AddNamespace opens the namespace called name, reusing an existing one.
func (c *Compilation) AddNamespace(name string, sp source.Span) NamespaceID {
	for _, id := range c.Namespaces {
		if c.Namespace(id).Name == name {
			return id
		}
	}
	id := NamespaceID(c.namespaces.Allocate(Namespace{Name: name, Span: sp}))
	c.Namespaces = append(c.Namespaces, id)
	c.Internal.Insert(name, SymNamespace, sp, id, uint32(id))
	return id
}

// FindNamespace looks a namespace up by name.
func (c *Compilation) FindNamespace(name string) (NamespaceID, bool) {
	for _, id := range c.Namespaces {
		if c.Namespace(id).Name == name {
			return id, true
		}
	}
	return NoNamespaceID, false
}

// NewUnresolvedType allocates a placeholder for tok and registers it in the
// unresolved list of ns.
func (c *Compilation) NewUnresolvedType(tok token.Token, ns NamespaceID) TypeID {
	id := TypeID(c.types.Allocate(Type{
		Header: TypeHeader{
			Symbol:    Symbol{Span: tok.Span, Kind: SymType},
			Namespace: ns,
			Name:      tok.Text,
		},
		Variant: &UnresolvedType{Token: tok},
	}))
	if n := c.Namespace(ns); n != nil {
		n.Unresolved = append(n.Unresolved, id)
	}
	return id
}

// Rebind replaces the variant of a type slot; the header and the ID stay.
func (c *Compilation) Rebind(id TypeID, v TypeVariant) {
	t := c.Type(id)
	if t == nil {
		panic(fmt.Sprintf("ast: rebind of dead type slot %d", id))
	}
	t.Variant = v
}

func (c *Compilation) NewStruct(s Struct) StructID {
	s.Header.Symbol.Kind = SymStruct
	return StructID(c.structs.Allocate(s))
}

func (c *Compilation) NewClass(cl Class) ClassID {
	cl.Header.Symbol.Kind = SymClass
	return ClassID(c.classes.Allocate(cl))
}

func (c *Compilation) NewFunction(fn Function) FunctionID {
	return FunctionID(c.functions.Allocate(fn))
}

func (c *Compilation) NewField(f Field) FieldID {
	return FieldID(c.fields.Allocate(f))
}

func (c *Compilation) NewParam(p Parameter) ParamID {
	return ParamID(c.params.Allocate(p))
}

// --- передача владения ---

func (c *Compilation) AttachStruct(ns NamespaceID, id StructID) {
	n, s := c.mustNamespace(ns), c.Struct(id)
	n.Structs = append(n.Structs, id)
	c.Internal.Insert(s.Header.Name, SymStruct, s.Header.Symbol.Span, ns, uint32(id))
}

func (c *Compilation) AttachClass(ns NamespaceID, id ClassID) {
	n, cl := c.mustNamespace(ns), c.Class(id)
	n.Classes = append(n.Classes, id)
	c.Internal.Insert(cl.Header.Name, SymClass, cl.Header.Symbol.Span, ns, uint32(id))
}

func (c *Compilation) AttachFunction(ns NamespaceID, id FunctionID) {
	n, fn := c.mustNamespace(ns), c.Function(id)
	n.Functions = append(n.Functions, id)
	c.Internal.Insert(fn.NameText, SymFunction, fn.Name, ns, uint32(id))
}

func (c *Compilation) AttachField(ns NamespaceID, id FieldID) {
	n, f := c.mustNamespace(ns), c.Field(id)
	n.Fields = append(n.Fields, id)
	c.Internal.Insert(f.NameText, SymField, f.Name, ns, uint32(id))
}

func (c *Compilation) AttachStructField(owner StructID, id FieldID) {
	s := c.Struct(owner)
	if s == nil {
		panic(fmt.Sprintf("ast: attach field to dead struct %d", owner))
	}
	s.Fields = append(s.Fields, id)
}

func (c *Compilation) AttachClassField(owner ClassID, id FieldID) {
	cl := c.Class(owner)
	if cl == nil {
		panic(fmt.Sprintf("ast: attach field to dead class %d", owner))
	}
	cl.Fields = append(cl.Fields, id)
}

// AddUsing records a using declaration in ns, or at the top level for NoNamespaceID.
func (c *Compilation) AddUsing(ns NamespaceID, u Using) {
	if n := c.Namespace(ns); n != nil {
		n.Usings = append(n.Usings, u)
		return
	}
	c.Usings = append(c.Usings, u)
}

func (c *Compilation) AddReference(ns NamespaceID, ref VariableReference) {
	n := c.mustNamespace(ns)
	n.References = append(n.References, ref)
}

func (c *Compilation) mustNamespace(ns NamespaceID) *Namespace {
	n := c.Namespace(ns)
	if n == nil {
		panic(fmt.Sprintf("ast: dead namespace %d", ns))
	}
	return n
}

// --- освобождение ---

// ReleaseType frees a type slot and drops it from its namespace's unresolved list.
func (c *Compilation) ReleaseType(id TypeID) {
	t := c.Type(id)
	if t == nil {
		panic(fmt.Sprintf("ast: double free of type %d", id))
	}
	if n := c.Namespace(t.Header.Namespace); n != nil {
		if i := slices.Index(n.Unresolved, id); i >= 0 {
			n.Unresolved = slices.Delete(n.Unresolved, i, i+1)
		}
	}
	c.types.Free(uint32(id))
}

func (c *Compilation) ReleaseField(id FieldID) {
	if f := c.Field(id); f != nil && f.Type.IsValid() {
		c.ReleaseType(f.Type)
	}
	c.fields.Free(uint32(id))
}

func (c *Compilation) ReleaseParam(id ParamID) {
	if p := c.Param(id); p != nil && p.Type.IsValid() {
		c.ReleaseType(p.Type)
	}
	c.params.Free(uint32(id))
}

func (c *Compilation) ReleaseFunction(id FunctionID) {
	if fn := c.Function(id); fn != nil {
		for _, p := range fn.Params {
			c.ReleaseParam(p)
		}
		if fn.ReturnType.IsValid() {
			c.ReleaseType(fn.ReturnType)
		}
	}
	c.functions.Free(uint32(id))
}

func (c *Compilation) ReleaseStruct(id StructID) {
	if s := c.Struct(id); s != nil {
		for _, f := range s.Fields {
			c.ReleaseField(f)
		}
	}
	c.structs.Free(uint32(id))
}

func (c *Compilation) ReleaseClass(id ClassID) {
	if cl := c.Class(id); cl != nil {
		for _, f := range cl.Fields {
			c.ReleaseField(f)
		}
	}
	c.classes.Free(uint32(id))
}

func (c *Compilation) releaseNamespace(id NamespaceID) {
	n := c.Namespace(id)
	if n == nil {
		panic(fmt.Sprintf("ast: double free of namespace %d", id))
	}
	for _, s := range n.Structs {
		c.ReleaseStruct(s)
	}
	for _, cl := range n.Classes {
		c.ReleaseClass(cl)
	}
	for _, fn := range n.Functions {
		c.ReleaseFunction(fn)
	}
	for _, f := range n.Fields {
		c.ReleaseField(f)
	}
	c.namespaces.Free(uint32(id))
}

// Release frees every node. Calling it again is a no-op.
func (c *Compilation) Release() {
	if c.released {
		return
	}
	for _, ns := range c.Namespaces {
		c.releaseNamespace(ns)
	}
	c.Namespaces = nil
	c.Usings = nil
	c.Internal.reset()
	c.External.reset()
	c.released = true
}

// Reachable counts the nodes reachable from the namespace list.
func (c *Compilation) Reachable() int {
	n := 0
	countField := func(id FieldID) {
		n++
		if c.Field(id).Type.IsValid() {
			n++
		}
	}
	for _, nsID := range c.Namespaces {
		ns := c.Namespace(nsID)
		n++
		for _, s := range ns.Structs {
			n++
			for _, f := range c.Struct(s).Fields {
				countField(f)
			}
		}
		for _, cl := range ns.Classes {
			n++
			for _, f := range c.Class(cl).Fields {
				countField(f)
			}
		}
		for _, fnID := range ns.Functions {
			fn := c.Function(fnID)
			n++
			if fn.ReturnType.IsValid() {
				n++
			}
			for _, p := range fn.Params {
				n++
				if c.Param(p).Type.IsValid() {
					n++
				}
			}
		}
		for _, f := range ns.Fields {
			countField(f)
		}
	}
	return n
}
