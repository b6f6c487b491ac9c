package ast

import "strings"

// Modifiers: битовые флаги модификаторов объявления.
type Modifiers uint16

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModInternal
	ModInline
	ModStatic
	ModNointerpolation
	ModShared
	ModGroupshared
	ModUniform
	ModVolatile
	ModConst

	ModNone Modifiers = 0
)

var modifierNames = []struct {
	flag Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModPrivate, "private"},
	{ModInternal, "internal"},
	{ModInline, "inline"},
	{ModStatic, "static"},
	{ModNointerpolation, "nointerpolation"},
	{ModShared, "shared"},
	{ModGroupshared, "groupshared"},
	{ModUniform, "uniform"},
	{ModVolatile, "volatile"},
	{ModConst, "const"},
}

// FunctionModifiers / FieldModifiers are the allow-sets per declaration kind.
const (
	FunctionModifiers = ModPublic | ModPrivate | ModInternal | ModInline | ModStatic
	FieldModifiers    = ModPublic | ModPrivate | ModInternal | ModStatic | ModNointerpolation |
		ModShared | ModGroupshared | ModUniform | ModVolatile | ModConst
)

func (m Modifiers) Has(f Modifiers) bool { return m&f == f }

func (m Modifiers) String() string {
	if m == ModNone {
		return "none"
	}
	parts := make([]string, 0, 4)
	for _, e := range modifierNames {
		if m&e.flag != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

// AccessModifier of a type declaration. The zero value is private.
type AccessModifier uint8

const (
	AccessPrivate AccessModifier = iota
	AccessPublic
	AccessInternal
)

func (a AccessModifier) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessInternal:
		return "internal"
	default:
		return "private"
	}
}

// ParameterFlags: in/out/inout/uniform.
type ParameterFlags uint8

const (
	ParamIn ParameterFlags = 1 << iota
	ParamOut
	ParamUniform

	ParamNone  ParameterFlags = 0
	ParamInOut                = ParamIn | ParamOut
)

func (p ParameterFlags) String() string {
	if p == ParamNone {
		return "none"
	}
	parts := make([]string, 0, 2)
	switch {
	case p&ParamInOut == ParamInOut:
		parts = append(parts, "inout")
	case p&ParamIn != 0:
		parts = append(parts, "in")
	case p&ParamOut != 0:
		parts = append(parts, "out")
	}
	if p&ParamUniform != 0 {
		parts = append(parts, "uniform")
	}
	return strings.Join(parts, " ")
}
