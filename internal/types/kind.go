package types

import "fmt"

// Kind is the discriminator of a type slot.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindStruct
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}
