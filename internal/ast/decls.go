package ast

import (
	"hxsl/internal/source"
)

// Using is `using A.B;` or `using Alias = A.B;`.
type Using struct {
	Span      source.Span
	Target    string
	Alias     string
	AliasSpan source.Span
}

// VariableReference is an `@name` reference into the generated constant buffer.
// Property is the index of the module property it links to, -1 when unlinked.
type VariableReference struct {
	Span     source.Span
	Name     string
	Property int
}

type Namespace struct {
	Name       string
	Span       source.Span
	Usings     []Using
	Structs    []StructID
	Classes    []ClassID
	Functions  []FunctionID
	Fields     []FieldID
	Unresolved []TypeID // не владеет: слоты принадлежат полям/параметрам/функциям
	References []VariableReference
}

type Struct struct {
	Header TypeHeader
	Access AccessModifier
	Span   source.Span
	Fields []FieldID
}

type Class struct {
	Header TypeHeader
	Span   source.Span
	Fields []FieldID
}

type Field struct {
	Span     source.Span
	Type     TypeID
	Name     source.Span
	NameText string
	Flags    Modifiers
	Semantic string
}

type Function struct {
	Span       source.Span
	Name       source.Span
	NameText   string
	ReturnType TypeID
	Params     []ParamID
	Flags      Modifiers
	Semantic   string
	Body       source.Span
	HasBody    bool // false: прототип, закрытый ';'
}

type Parameter struct {
	Span     source.Span
	Flags    ParameterFlags
	Type     TypeID
	Name     source.Span
	NameText string
	Semantic string
}
