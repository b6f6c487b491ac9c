package lexer

import (
	"hxsl/internal/diag"
	"hxsl/internal/token"
)

// Поддержка: 0, 123, 0x1F, 1.0, .5, 1., 1e-3, 1.0e+10 и HLSL-суффиксы
// (f, h, u, l, в любом регистре и сочетании: 1.0f, 10u, 0x1Fu).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		if _, b1, ok := lx.cursor.Peek2(); ok && (b1 == 'x' || b1 == 'X') {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !isHex(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected hex digit after 0x")
				return lx.emit(token.Invalid, start, 0)
			}
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.scanNumberSuffix()
			return lx.emit(token.Literal, start, 0)
		}
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// дробная часть; "1." допустимо как float
	if lx.cursor.Eat('.') {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			return lx.emit(token.Invalid, start, 0)
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	lx.scanNumberSuffix()
	return lx.emit(token.Literal, start, 0)
}

func (lx *Lexer) scanNumberSuffix() {
	for {
		switch lx.cursor.Peek() {
		case 'f', 'F', 'h', 'H', 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}
