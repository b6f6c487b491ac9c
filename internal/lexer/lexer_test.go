package lexer_test

import (
	"strings"
	"testing"

	"hxsl/internal/diag"
	"hxsl/internal/lexer"
	"hxsl/internal/source"
	"hxsl/internal/token"
)

func makeTestLexer(input string, cfg lexer.Config) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hxsl", []byte(input))
	bag := diag.NewBag(16)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Config: cfg, Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

type tokSpec struct {
	kind token.Kind
	text string
}

func checkTokens(t *testing.T, got []token.Token, want []tokSpec) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Kind != want[i].kind || got[i].Text != want[i].text {
			t.Fatalf("token %d: got %s %q, want %s %q", i, got[i].Kind, got[i].Text, want[i].kind, want[i].text)
		}
	}
}

func TestStructDeclaration(t *testing.T) {
	lx, bag := makeTestLexer("namespace Foo { struct Bar { float x; } }", lexer.Shader)
	checkTokens(t, collectAllTokens(lx), []tokSpec{
		{token.Keyword, "namespace"},
		{token.Identifier, "Foo"},
		{token.Delimiter, "{"},
		{token.Keyword, "struct"},
		{token.Identifier, "Bar"},
		{token.Delimiter, "{"},
		{token.Keyword, "float"},
		{token.Identifier, "x"},
		{token.Delimiter, ";"},
		{token.Delimiter, "}"},
		{token.Delimiter, "}"},
		{token.EOF, ""},
	})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestTokenValues(t *testing.T) {
	lx, _ := makeTestLexer("struct ; <<= @", lexer.Shader)
	toks := collectAllTokens(lx)
	if !toks[0].IsKeyword(token.KwStruct) {
		t.Fatalf("expected struct keyword, got %v", toks[0])
	}
	if !toks[1].IsDelimiter(';') {
		t.Fatalf("expected ';' delimiter, got %v", toks[1])
	}
	if !toks[2].IsOperator(token.OpShlAssign) {
		t.Fatalf("expected <<= operator, got %v", toks[2])
	}
	if !toks[3].IsOperator(token.OpAt) {
		t.Fatalf("expected @ operator, got %v", toks[3])
	}
}

func TestNumbersAndLiterals(t *testing.T) {
	tests := []string{"0", "123", "0x1F", "0x1Fu", "1.0", ".5", "1.", "1e-3", "1.0e+10", "1.0f", "2h", "10u", "true", "false", `"path\"x"`}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			lx, bag := makeTestLexer(in, lexer.Shader)
			tok := lx.Next()
			if tok.Kind != token.Literal || tok.Text != in {
				t.Fatalf("got %s %q", tok.Kind, tok.Text)
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
		})
	}
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"1e+", "0x"} {
		lx, bag := makeTestLexer(in, lexer.Shader)
		if tok := lx.Next(); tok.Kind != token.Invalid {
			t.Fatalf("%q: expected invalid, got %v", in, tok)
		}
		if !bag.HasErrors() || bag.Items()[0].Code != diag.LexBadNumber {
			t.Fatalf("%q: expected LexBadNumber, got %v", in, bag.Items())
		}
	}
}

func TestCommentsAreTokens(t *testing.T) {
	lx, _ := makeTestLexer("a // line\n/* block */ b", lexer.Shader)
	checkTokens(t, collectAllTokens(lx), []tokSpec{
		{token.Identifier, "a"},
		{token.Comment, "// line"},
		{token.Comment, "/* block */"},
		{token.Identifier, "b"},
		{token.EOF, ""},
	})
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, bag := makeTestLexer("/* open", lexer.Shader)
	if tok := lx.Next(); tok.Kind != token.Comment {
		t.Fatalf("expected comment, got %v", tok)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected LexUnterminatedBlockComment, got %v", bag.Items())
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeTestLexer("$ x", lexer.Shader)
	if tok := lx.Next(); tok.Kind != token.Invalid || tok.Text != "$" {
		t.Fatalf("expected invalid '$', got %v", tok)
	}
	if tok := lx.Next(); tok.Kind != token.Identifier {
		t.Fatalf("lexer must continue after unknown char, got %v", tok)
	}
	if bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected LexUnknownChar, got %v", bag.Items())
	}
}

func TestStructuralCapturesBodies(t *testing.T) {
	src := "shader Forward { float4 main() { return 0; } /* } */ }\npass Main { vertex = VS; }\nproperty float4 Tint;"
	lx, bag := makeTestLexer(src, lexer.Structural)
	toks := collectAllTokens(lx)
	checkTokens(t, toks, []tokSpec{
		{token.Keyword, "shader"},
		{token.Identifier, "Forward"},
		{token.Codeblock, "{ float4 main() { return 0; } /* } */ }"},
		{token.Keyword, "pass"},
		{token.Identifier, "Main"},
		{token.Codeblock, "{ vertex = VS; }"},
		{token.Keyword, "property"},
		{token.Identifier, "float4"},
		{token.Identifier, "Tint"},
		{token.Delimiter, ";"},
		{token.EOF, ""},
	})
	if got := lexer.CodeblockBody(toks[5]); got != " vertex = VS; " {
		t.Fatalf("CodeblockBody = %q", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestShaderGrammarDoesNotCaptureBodies(t *testing.T) {
	lx, _ := makeTestLexer("shader Forward { }", lexer.Shader)
	toks := collectAllTokens(lx)
	if toks[0].Kind != token.Identifier || toks[2].Kind != token.Delimiter {
		t.Fatalf("shader grammar treats structural words as identifiers: %v", toks)
	}
}

func TestUnterminatedCodeblock(t *testing.T) {
	lx, bag := makeTestLexer("shader S { {", lexer.Structural)
	toks := collectAllTokens(lx)
	if toks[2].Kind != token.Invalid {
		t.Fatalf("expected invalid codeblock, got %v", toks[2])
	}
	if bag.Items()[0].Code != diag.LexUnterminatedCodeblock {
		t.Fatalf("expected LexUnterminatedCodeblock, got %v", bag.Items())
	}
}

func TestSeekReplaysTokens(t *testing.T) {
	lx, _ := makeTestLexer("float a; int b;", lexer.Shader)
	lx.Next()
	off := lx.Offset()
	first := lx.Next()
	lx.Next()
	lx.Seek(off)
	if again := lx.Next(); again != first {
		t.Fatalf("after Seek: got %v, want %v", again, first)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b", lexer.Shader)
	p := lx.Peek()
	if off := lx.Offset(); off != p.Span.Start {
		t.Fatalf("Offset after Peek = %d, want %d", off, p.Span.Start)
	}
	if n := lx.Next(); n != p {
		t.Fatalf("Next after Peek = %v, want %v", n, p)
	}
}

func TestOffsetsMonotonic(t *testing.T) {
	lx, _ := makeTestLexer("namespace N { float4 f(in float a : TEXCOORD0) { return a.xxxx; } }", lexer.Shader)
	var last uint32
	for _, tok := range collectAllTokens(lx) {
		if tok.Span.Start < last {
			t.Fatalf("offset went backwards at %v", tok)
		}
		last = tok.Span.End
	}
}

func TestTokenTooLong(t *testing.T) {
	lx, bag := makeTestLexer(strings.Repeat("a", 4097)+" b", lexer.Shader)
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if bag.Items()[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", bag.Items())
	}
	// после ошибки лексер проматывает до EOF
	if next := lx.Next(); next.Kind != token.EOF {
		t.Fatalf("expected EOF after long token, got %v", next.Kind)
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	lx, _ := makeTestLexer("цвет", lexer.Shader)
	if tok := lx.Next(); tok.Kind != token.Identifier || tok.Text != "цвет" {
		t.Fatalf("got %v", tok)
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.hxsl", []byte("a")))
	toks := lexer.Tokenize(f, lexer.Options{})
	if len(toks) != 2 || toks[1].Kind != token.EOF {
		t.Fatalf("Tokenize = %v", toks)
	}
}
