package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the token stream.
	EOF
	// Delimiter covers { } ( ) [ ] ; , and :.
	Delimiter
	// Keyword is a reserved word; Value holds its Keyword id.
	Keyword
	// Operator is a punctuation operator; Value holds its Operator id.
	Operator
	// Identifier is any non-keyword name.
	Identifier
	// Literal covers numbers, strings and booleans.
	Literal
	// Codeblock is an opaque brace-delimited body (structural grammar only).
	Codeblock
	// Comment is a line or block comment.
	Comment
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "end of stream"
	case Delimiter:
		return "delimiter"
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	case Identifier:
		return "identifier"
	case Literal:
		return "literal"
	case Codeblock:
		return "codeblock"
	case Comment:
		return "comment"
	}
	return "unknown"
}

// IsDelimiterChar reports whether ch is lexed as a Delimiter.
func IsDelimiterChar(ch byte) bool {
	switch ch {
	case '{', '}', '(', ')', '[', ']', ';', ',', ':':
		return true
	}
	return false
}
