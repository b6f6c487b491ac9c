package module

import (
	"fmt"

	"hxsl/internal/types"
)

// SType: внутренняя классификация типа свойства: скаляр или вектор.
type SType uint8

const (
	STypeUnknown SType = iota
	STypeBool
	STypeInt
	STypeInt2
	STypeInt3
	STypeInt4
	STypeUInt
	STypeUInt2
	STypeUInt3
	STypeUInt4
	STypeFloat
	STypeFloat2
	STypeFloat3
	STypeFloat4
)

type stypeInfo struct {
	kind  types.PrimitiveKind
	width uint8
}

var stypeTable = [...]stypeInfo{
	STypeUnknown: {},
	STypeBool:    {types.Bool, 1},
	STypeInt:     {types.Int, 1},
	STypeInt2:    {types.Int, 2},
	STypeInt3:    {types.Int, 3},
	STypeInt4:    {types.Int, 4},
	STypeUInt:    {types.Uint, 1},
	STypeUInt2:   {types.Uint, 2},
	STypeUInt3:   {types.Uint, 3},
	STypeUInt4:   {types.Uint, 4},
	STypeFloat:   {types.Float, 1},
	STypeFloat2:  {types.Float, 2},
	STypeFloat3:  {types.Float, 3},
	STypeFloat4:  {types.Float, 4},
}

// Components is the number of scalar components, 0 for STypeUnknown.
func (t SType) Components() int {
	if int(t) >= len(stypeTable) {
		return 0
	}
	return int(stypeTable[t].width)
}

// Primitive is the HLSL type the property occupies in the constant buffer.
func (t SType) Primitive() (types.Primitive, bool) {
	if t == STypeUnknown || int(t) >= len(stypeTable) {
		return types.Primitive{}, false
	}
	info := stypeTable[t]
	if info.width == 1 {
		return types.MakeScalar(info.kind), true
	}
	return types.MakeVector(info.kind, info.width), true
}

func (t SType) String() string {
	if p, ok := t.Primitive(); ok {
		return p.Name()
	}
	return fmt.Sprintf("SType(%d)", t)
}

// STypeOf maps a primitive onto an SType. Matrices and reduced-precision
// kinds have no SType.
func STypeOf(p types.Primitive) (SType, bool) {
	if p.Class == types.Matrix {
		return STypeUnknown, false
	}
	for t := STypeBool; int(t) < len(stypeTable); t++ {
		if stypeTable[t].kind == p.Kind && int(stypeTable[t].width) == int(p.Rows) {
			return t, true
		}
	}
	return STypeUnknown, false
}

// ParseSType resolves an HLSL type name through the primitive catalog.
func ParseSType(cat *types.Catalog, name string) (SType, bool) {
	p, ok := cat.Lookup(name)
	if !ok {
		return STypeUnknown, false
	}
	return STypeOf(p)
}
