package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedCodeblock    Code = 1006

	// Поток токенов и синтаксис
	SynInfo             Code = 2000
	SynUnexpectedEOF    Code = 2001
	SynUnexpectedToken  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectDelimiter  Code = 2004
	SynExpectKeyword    Code = 2005
	SynExpectOperator   Code = 2006
	SynExpectType       Code = 2007
	SynExpectNamespace  Code = 2008
	SynUnclosedScope    Code = 2009
	SynUnknownDecl      Code = 2010

	// Структурные нарушения грамматики
	SynNamespaceNested      Code = 2100
	SynNamespaceNotGlobal   Code = 2101
	SynUsingPlacement       Code = 2102
	SynScopeUnderflow       Code = 2103
	SynStackOverflow        Code = 2104
	SynScopeKindMismatch    Code = 2105
	SynStructOutsideNS      Code = 2106
	SynFunctionOutsideNS    Code = 2107
	SynFieldOutsideNS       Code = 2108
	SynPropertyRefOutsideNS Code = 2109

	// Модификаторы
	SynModifierNotAllowed  Code = 2200
	SynParamFlagConflict   Code = 2201
	SynAccessModifierTwice Code = 2202

	// Семантика / связывание
	SemaInfo              Code = 3000
	SemaUnresolvedType    Code = 3001
	SemaUnlinkedReference Code = 3002
	SemaDuplicateStruct   Code = 3003
	SemaUnknownShader     Code = 3004

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Проект / модуль
	ProjInfo                Code = 5000
	ProjManifestInvalid     Code = 5001
	ProjBadVersion          Code = 5002
	ProjImportConstraint    Code = 5003
	ProjDuplicateShader     Code = 5004
	ProjDuplicateProperty   Code = 5005
	ProjUnknownPropertyType Code = 5006
	ProjMissingShaderSource Code = 5007

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexTokenTooLong:             "Token too long",
	LexUnterminatedCodeblock:    "Unterminated codeblock",
	SynInfo:                     "Syntax information",
	SynUnexpectedEOF:            "Unexpected end of tokens",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectDelimiter:          "Expected delimiter",
	SynExpectKeyword:            "Expected keyword",
	SynExpectOperator:           "Expected operator",
	SynExpectType:               "Expected type",
	SynExpectNamespace:          "Expected namespace",
	SynUnclosedScope:            "Unclosed scope",
	SynUnknownDecl:              "Unrecognized declaration",
	SynNamespaceNested:          "Namespace already open",
	SynNamespaceNotGlobal:       "Namespace must be declared at global scope",
	SynUsingPlacement:           "Using outside global or namespace scope",
	SynScopeUnderflow:           "Scope stack underflow",
	SynStackOverflow:            "Stack overflow",
	SynScopeKindMismatch:        "Scope kind mismatch",
	SynStructOutsideNS:          "Struct outside namespace",
	SynFunctionOutsideNS:        "Function outside namespace",
	SynFieldOutsideNS:           "Field outside namespace",
	SynPropertyRefOutsideNS:     "Property reference outside namespace",
	SynModifierNotAllowed:       "Modifier not allowed here",
	SynParamFlagConflict:        "Conflicting parameter flags",
	SynAccessModifierTwice:      "Duplicate access modifier",
	SemaInfo:                    "Semantic information",
	SemaUnresolvedType:          "Unresolved type",
	SemaUnlinkedReference:       "Unlinked property reference",
	SemaDuplicateStruct:         "Duplicate struct",
	SemaUnknownShader:           "Unknown shader",
	IOLoadFileError:             "Cannot load file",
	IOCacheError:                "Compile cache error",
	ProjInfo:                    "Project information",
	ProjManifestInvalid:         "Invalid module manifest",
	ProjBadVersion:              "Invalid version",
	ProjImportConstraint:        "Import constraint not satisfied",
	ProjDuplicateShader:         "Duplicate shader",
	ProjDuplicateProperty:       "Duplicate property",
	ProjUnknownPropertyType:     "Unknown property type",
	ProjMissingShaderSource:     "Missing shader source",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
