package lexer

import (
	"hxsl/internal/diag"
	"hxsl/internal/source"
	"hxsl/internal/token"
)

// maxTokenLength ограничивает длину одного лексемы (кроме Codeblock).
const maxTokenLength = 4096

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	prev   [2]token.Token // два последних значимых токена, для захвата тел
}

func New(file *source.File, opts Options) *Lexer {
	if opts.Config.Keywords == nil {
		opts.Config = Shader
	}
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий токен, включая комментарии.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipWhitespace()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case ch == '/' && lx.isCommentStart():
		return lx.scanComment()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.limitLength(lx.scanIdentOrKeyword())
	case isDec(ch), ch == '.' && lx.isNumberAfterDot():
		tok = lx.limitLength(lx.scanNumber())
	case ch == '"':
		tok = lx.limitLength(lx.scanString())
	case ch == '{' && lx.bodyArmed():
		tok = lx.scanCodeblock()
	case token.IsDelimiterChar(ch):
		tok = lx.scanDelimiter()
	default:
		tok = lx.scanOperator()
	}

	lx.prev[0], lx.prev[1] = lx.prev[1], tok
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Offset returns the position the next call to Next starts from.
func (lx *Lexer) Offset() uint32 {
	if lx.look != nil {
		return lx.look.Span.Start
	}
	return lx.cursor.Off
}

// Seek repositions the lexer. The body-capture context is cleared.
func (lx *Lexer) Seek(off uint32) {
	lx.look = nil
	lx.prev = [2]token.Token{}
	lx.cursor.Seek(off)
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// Tokenize lexes the whole file, comments included; the last token is EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) bodyArmed() bool {
	if !lx.opts.Config.CaptureBodies {
		return false
	}
	kw, name := lx.prev[0], lx.prev[1]
	return name.Kind == token.Identifier && (kw.IsKeyword(token.KwShader) || kw.IsKeyword(token.KwPass))
}

// limitLength превращает слишком длинную лексему в Invalid и проматывает до EOF.
func (lx *Lexer) limitLength(tok token.Token) token.Token {
	if tok.Span.Len() <= maxTokenLength {
		return tok
	}
	lx.errLex(diag.LexTokenTooLong, tok.Span, "token too long")
	lx.cursor.Off = lx.cursor.Limit
	return token.Token{Kind: token.Invalid, Span: tok.Span}
}

func (lx *Lexer) emit(kind token.Kind, start Mark, value int) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind:  kind,
		Span:  sp,
		Text:  string(lx.file.Content[sp.Start:sp.End]),
		Value: value,
	}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
