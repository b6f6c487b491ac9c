package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"hxsl/internal/compiler"
	"hxsl/internal/source"
	"hxsl/internal/token"
)

func TestCompilationTree(t *testing.T) {
	sess := compiler.NewSession(nil, compiler.Options{AllowUnresolved: true})
	res, err := compiler.CompileSource(context.Background(), sess, "tree.hxsl", `namespace Lit {
	using M = Common.Math;
	struct VSOut { float4 pos : SV_Position; };
	@Tint;
	VSOut VSMain(in float4 p : POSITION);
	static const dword seed;
	Texture2D albedo;
}
`)
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	defer res.Release()

	var buf bytes.Buffer
	if err := FormatCompilationTree(&buf, res.Compilation, "tree.hxsl", nil); err != nil {
		t.Fatal(err)
	}
	want := "tree.hxsl (1 namespace(s))\n└─ Namespace Lit (span: span(10-13))\n"
	if !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("tree:\n%s", buf.String())
	}
	for _, line := range []string{
		"   ├─ Using M = Common.Math\n",
		"   │  └─ Field pos: float4 : SV_Position\n",
		"   ├─ Function VSMain(in float4 p : POSITION) -> VSOut (prototype)\n",
		"   ├─ Field seed: uint [static const]\n",
		"   ├─ Field albedo: Texture2D?\n",
		"   └─ @Tint (unlinked)\n",
	} {
		if !strings.Contains(buf.String(), line) {
			t.Fatalf("missing %q in:\n%s", line, buf.String())
		}
	}

	buf.Reset()
	if err := FormatCompilationJSON(&buf, res.Compilation, "tree.hxsl", sess.Files()); err != nil {
		t.Fatal(err)
	}
	var root DeclNodeJSON
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 1 || root.Children[0].Label != "Namespace Lit (span: 1:11-1:14)" {
		t.Fatalf("root = %+v", root)
	}

	res.Compilation.Release()
	if err := FormatCompilationTree(&buf, res.Compilation, "x", nil); err == nil {
		t.Fatalf("released compilation printed")
	}
}

func TestTokensOutput(t *testing.T) {
	sess := compiler.NewSession(nil, compiler.Options{})
	file := sess.AddVirtual("t.hxsl", "float x;")
	toks := []token.Token{
		{Kind: token.Identifier, Text: "float", Span: spanOf(file.ID, 0, 5)},
		{Kind: token.EOF, Span: spanOf(file.ID, 8, 8)},
	}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, sess.Files()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), `  1: identifier  "float" at 1:1-1:6`) {
		t.Fatalf("pretty:\n%s", buf.String())
	}
	buf.Reset()
	if err := FormatTokensJSON(&buf, toks, sess.Files()); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil || len(out) != 2 || out[1].Col != 9 {
		t.Fatalf("json = %s (%v)", buf.String(), err)
	}
}

func spanOf(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}
