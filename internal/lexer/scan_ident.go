package lexer

import (
	"hxsl/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор и проверяет его по таблице
// ключевых слов текущей грамматики. true/false: литералы.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		// не буква: пусть разбирается как оператор/неизвестный символ
		return lx.scanOperator()
	}
	lx.bumpRune()
	for {
		if b := lx.cursor.Peek(); b < utf8RuneSelf {
			if !isIdentContinueByte(b) || lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.emit(token.Identifier, start, 0)
	switch tok.Text {
	case "true", "false":
		tok.Kind = token.Literal
		return tok
	}
	if k, ok := lx.opts.Config.Keywords.Lookup(tok.Text); ok {
		tok.Kind = token.Keyword
		tok.Value = int(k)
	}
	return tok
}
