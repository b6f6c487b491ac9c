package token

// KeywordID is stored in Token.Value for Keyword tokens.
type KeywordID int

const (
	NoKeyword KeywordID = iota

	// структура модуля и объявления
	KwNamespace
	KwUsing
	KwStruct
	KwClass
	KwCbuffer

	// access / modifiers
	KwPublic
	KwPrivate
	KwInternal
	KwInline
	KwStatic
	KwNointerpolation
	KwShared
	KwGroupshared
	KwUniform
	KwVolatile
	KwConst

	// parameter flags
	KwIn
	KwOut
	KwInout

	// скалярные типы
	KwVoid
	KwBool
	KwInt
	KwUint
	KwDword
	KwHalf
	KwFloat
	KwDouble
	KwMatrix
	KwMin16Float
	KwMin10Float
	KwMin16Int
	KwMin12Int
	KwMin16Uint

	// statements (тело функции не разбирается, но лексер их различает)
	KwReturn
	KwIf
	KwElse
	KwFor
	KwWhile
	KwDo
	KwBreak
	KwContinue
	KwDiscard
	KwSwitch
	KwCase
	KwDefault

	// structural grammar
	KwShader
	KwPass
	KwProperty
	KwImport
	KwModule

	keywordCount
)

var keywordNames = [...]string{
	NoKeyword:         "",
	KwNamespace:       "namespace",
	KwUsing:           "using",
	KwStruct:          "struct",
	KwClass:           "class",
	KwCbuffer:         "cbuffer",
	KwPublic:          "public",
	KwPrivate:         "private",
	KwInternal:        "internal",
	KwInline:          "inline",
	KwStatic:          "static",
	KwNointerpolation: "nointerpolation",
	KwShared:          "shared",
	KwGroupshared:     "groupshared",
	KwUniform:         "uniform",
	KwVolatile:        "volatile",
	KwConst:           "const",
	KwIn:              "in",
	KwOut:             "out",
	KwInout:           "inout",
	KwVoid:            "void",
	KwBool:            "bool",
	KwInt:             "int",
	KwUint:            "uint",
	KwDword:           "dword",
	KwHalf:            "half",
	KwFloat:           "float",
	KwDouble:          "double",
	KwMatrix:          "matrix",
	KwMin16Float:      "min16float",
	KwMin10Float:      "min10float",
	KwMin16Int:        "min16int",
	KwMin12Int:        "min12int",
	KwMin16Uint:       "min16uint",
	KwReturn:          "return",
	KwIf:              "if",
	KwElse:            "else",
	KwFor:             "for",
	KwWhile:           "while",
	KwDo:              "do",
	KwBreak:           "break",
	KwContinue:        "continue",
	KwDiscard:         "discard",
	KwSwitch:          "switch",
	KwCase:            "case",
	KwDefault:         "default",
	KwShader:          "shader",
	KwPass:            "pass",
	KwProperty:        "property",
	KwImport:          "import",
	KwModule:          "module",
}

func (k KeywordID) String() string {
	if k <= NoKeyword || k >= keywordCount {
		return "<keyword?>"
	}
	return keywordNames[k]
}

// IsScalarType reports whether k names a scalar type (void excluded).
func (k KeywordID) IsScalarType() bool {
	return k >= KwBool && k <= KwMin16Uint
}

// KeywordSet maps source spellings to keyword ids for one grammar.
type KeywordSet map[string]KeywordID

// Lookup returns the keyword for word, if the set knows it.
func (s KeywordSet) Lookup(word string) (KeywordID, bool) {
	k, ok := s[word]
	return k, ok
}

func setOf(from, to KeywordID, extra ...KeywordID) KeywordSet {
	out := make(KeywordSet, int(to-from)+1+len(extra))
	for k := from; k <= to; k++ {
		out[keywordNames[k]] = k
	}
	for _, k := range extra {
		out[keywordNames[k]] = k
	}
	return out
}

var (
	// ShaderKeywords is the HLSL-flavoured in-shader grammar.
	ShaderKeywords = setOf(KwNamespace, KwDefault)
	// StructuralKeywords is the module-level grammar.
	StructuralKeywords = setOf(KwShader, KwModule, KwNamespace, KwUsing)
)

// LookupKeyword resolves word against the in-shader grammar.
func LookupKeyword(word string) (KeywordID, bool) {
	return ShaderKeywords.Lookup(word)
}
