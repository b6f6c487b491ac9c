package ast

import (
	"hxsl/internal/source"
	"hxsl/internal/token"
	"hxsl/internal/types"
)

// SymbolKind classifies a Symbol.
type SymbolKind uint8

const (
	SymUnknown SymbolKind = iota
	SymNamespace
	SymStruct
	SymClass
	SymFunction
	SymField
	SymParameter
	SymType
	SymVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymNamespace:
		return "namespace"
	case SymStruct:
		return "struct"
	case SymClass:
		return "class"
	case SymFunction:
		return "function"
	case SymField:
		return "field"
	case SymParameter:
		return "parameter"
	case SymType:
		return "type"
	case SymVariable:
		return "variable"
	default:
		return "unknown"
	}
}

type Symbol struct {
	Span source.Span
	Kind SymbolKind
}

// TypeHeader: общая часть всех вариантов типа. Namespace: ключ поиска, не владение.
type TypeHeader struct {
	Symbol    Symbol
	Namespace NamespaceID
	Name      string
}

// TypeVariant is the payload of a type slot. The slot's kind is derived from
// the variant, so the two cannot disagree.
type TypeVariant interface {
	typeKind() types.Kind
}

// UnresolvedType is the placeholder produced by the parser.
type UnresolvedType struct {
	Token token.Token
}

type PrimitiveType struct {
	types.Primitive
}

type StructType struct {
	Struct StructID
}

type ClassType struct {
	Class ClassID
}

func (*UnresolvedType) typeKind() types.Kind { return types.KindUnknown }
func (*PrimitiveType) typeKind() types.Kind  { return types.KindPrimitive }
func (*StructType) typeKind() types.Kind     { return types.KindStruct }
func (*ClassType) typeKind() types.Kind      { return types.KindClass }

// Type is one slot of the type arena. Binding reassigns Variant in place;
// the TypeID stays the same.
type Type struct {
	Header  TypeHeader
	Variant TypeVariant
}

func (t *Type) Kind() types.Kind {
	if t == nil || t.Variant == nil {
		return types.KindUnknown
	}
	return t.Variant.typeKind()
}

// IsResolved reports whether the slot holds a concrete type.
func (t *Type) IsResolved() bool {
	return t.Kind() != types.KindUnknown
}

// Unresolved returns the placeholder variant, nil once bound.
func (t *Type) Unresolved() *UnresolvedType {
	if t == nil {
		return nil
	}
	u, _ := t.Variant.(*UnresolvedType)
	return u
}
