package lexer

import (
	"hxsl/internal/diag"
	"hxsl/internal/token"
)

func (lx *Lexer) scanDelimiter() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	return lx.emit(token.Delimiter, start, int(ch))
}

// Жадность: сначала 3-символьные (<<=, >>=), затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()
	content := lx.file.Content
	for n := uint32(3); n >= 1; n-- {
		end := lx.cursor.Off + n
		if end > lx.cursor.Limit {
			continue
		}
		if op, ok := token.LookupOperator(string(content[lx.cursor.Off:end])); ok {
			lx.cursor.Off = end
			return lx.emit(token.Operator, start, int(op))
		}
	}

	// неизвестный символ: съедаем руну целиком
	if _, sz := lx.peekRune(); sz > 1 {
		lx.bumpRune()
	} else {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start, 0)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}
