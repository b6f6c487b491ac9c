package token

import (
	"fmt"

	"hxsl/internal/source"
)

// Token is one lexeme of the source.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Value int
}

// IsEOF reports the end-of-stream token.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// IsKeyword reports whether t is the keyword kw.
func (t Token) IsKeyword(kw KeywordID) bool {
	return t.Kind == Keyword && t.Value == int(kw)
}

// IsOperator reports whether t is the operator op.
func (t Token) IsOperator(op OperatorID) bool {
	return t.Kind == Operator && t.Value == int(op)
}

// IsDelimiter reports whether t is the delimiter ch.
func (t Token) IsDelimiter(ch byte) bool {
	return t.Kind == Delimiter && t.Value == int(ch)
}

// Keyword returns the keyword id, NoKeyword for other kinds.
func (t Token) Keyword() KeywordID {
	if t.Kind != Keyword {
		return NoKeyword
	}
	return KeywordID(t.Value)
}

// Describe renders t for expected/found messages.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of stream"
	case Delimiter, Operator:
		return fmt.Sprintf("'%s'", t.Text)
	case Codeblock:
		return "codeblock"
	default:
		return fmt.Sprintf("%s '%s'", t.Kind, t.Text)
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Text, t.Span)
}
