package lexer

import (
	"hxsl/internal/diag"
	"hxsl/internal/token"
)

// skipWhitespace пропускает пробелы, табы и переводы строк.
func (lx *Lexer) skipWhitespace() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) isCommentStart() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '/' && (b1 == '/' || b1 == '*')
}

// scanComment: //... до \n или /* ... */ (без вложенности, как в HLSL).
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Bump() == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.emit(token.Comment, start, 0)
	}
	if lx.skipBlockCommentBody() {
		return lx.emit(token.Comment, start, 0)
	}
	tok := lx.emit(token.Comment, start, 0)
	lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, "unterminated block comment")
	return tok
}

// skipBlockCommentBody съедает всё до "*/" включительно; false: если дошли до EOF.
func (lx *Lexer) skipBlockCommentBody() bool {
	for !lx.cursor.EOF() {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return true
		}
		lx.cursor.Bump()
	}
	return false
}
