package lexer

import (
	"hxsl/internal/diag"
	"hxsl/internal/token"
)

// scanCodeblock захватывает "{ ... }" целиком, включая скобки.
// Скобки внутри строк и комментариев не считаются.
func (lx *Lexer) scanCodeblock() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '{'
	depth := 1
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '{':
			depth++
			lx.cursor.Bump()
		case b == '}':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return lx.emit(token.Codeblock, start, 0)
			}
		case b == '"':
			lx.skipQuoted()
		case b == '/' && lx.isCommentStart():
			lx.cursor.Bump()
			if lx.cursor.Bump() == '/' {
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
			} else {
				lx.skipBlockCommentBody()
			}
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start, 0)
	lx.errLex(diag.LexUnterminatedCodeblock, tok.Span, "unterminated codeblock")
	return tok
}

func (lx *Lexer) skipQuoted() {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '\\':
			lx.cursor.Bump()
		case '"', '\n':
			return
		}
	}
}

// CodeblockBody returns the text between the outer braces of a Codeblock token.
func CodeblockBody(tok token.Token) string {
	if tok.Kind != token.Codeblock || len(tok.Text) < 2 {
		return ""
	}
	return tok.Text[1 : len(tok.Text)-1]
}
