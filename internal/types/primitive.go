package types

import (
	"fmt"
	"strconv"
)

// PrimitiveClass is the shape of a primitive.
type PrimitiveClass uint8

const (
	Scalar PrimitiveClass = iota
	Vector
	Matrix
)

func (c PrimitiveClass) String() string {
	switch c {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	default:
		return fmt.Sprintf("PrimitiveClass(%d)", c)
	}
}

// PrimitiveKind is the element type of a primitive.
type PrimitiveKind uint8

const (
	Void PrimitiveKind = iota
	Bool
	Int
	Uint
	Half
	Float
	Double
	Min16Float
	Min10Float
	Min16Int
	Min12Int
	Min16Uint
	primitiveKindCount
)

var primitiveKindNames = [...]string{
	Void:       "void",
	Bool:       "bool",
	Int:        "int",
	Uint:       "uint",
	Half:       "half",
	Float:      "float",
	Double:     "double",
	Min16Float: "min16float",
	Min10Float: "min10float",
	Min16Int:   "min16int",
	Min12Int:   "min12int",
	Min16Uint:  "min16uint",
}

func (k PrimitiveKind) String() string {
	if k >= primitiveKindCount {
		return fmt.Sprintf("PrimitiveKind(%d)", k)
	}
	return primitiveKindNames[k]
}

// ElementKinds lists the kinds that have vector and matrix forms. Void is scalar only.
func ElementKinds() []PrimitiveKind {
	out := make([]PrimitiveKind, 0, primitiveKindCount-1)
	for k := Bool; k < primitiveKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Primitive describes a built-in type. Vectors use Rows for their arity and
// Columns = 1; scalars are 1x1.
type Primitive struct {
	Class   PrimitiveClass
	Kind    PrimitiveKind
	Rows    uint8
	Columns uint8
}

func MakeScalar(k PrimitiveKind) Primitive {
	return Primitive{Class: Scalar, Kind: k, Rows: 1, Columns: 1}
}

func MakeVector(k PrimitiveKind, n uint8) Primitive {
	return Primitive{Class: Vector, Kind: k, Rows: n, Columns: 1}
}

func MakeMatrix(k PrimitiveKind, rows, cols uint8) Primitive {
	return Primitive{Class: Matrix, Kind: k, Rows: rows, Columns: cols}
}

// Name is the conventional display name: float, float3, float4x4.
func (p Primitive) Name() string {
	base := p.Kind.String()
	switch p.Class {
	case Vector:
		return base + strconv.Itoa(int(p.Rows))
	case Matrix:
		return base + strconv.Itoa(int(p.Rows)) + "x" + strconv.Itoa(int(p.Columns))
	default:
		return base
	}
}

func (p Primitive) String() string {
	return fmt.Sprintf("%s(%s)", p.Name(), p.Class)
}
