package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.AddVirtual("shader.hxsl", []byte("namespace A;"))
	id2 := fs.AddVirtual("shader.hxsl", []byte("namespace B;"))
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("shader.hxsl")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.hxsl", []byte("ab\ncd\n\nef"))
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		got, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if got != tt.want {
			t.Fatalf("offset %d: got %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.hxsl", []byte("first\nsecond\nthird")))
	if got := f.GetLine(2); got != "second" {
		t.Fatalf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Fatalf("line 3 = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("line 9 = %q, want empty", got)
	}
}

func TestAddRawNormalizesCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.AddRaw("a.hxsl", []byte("\xEF\xBB\xBFa\r\nb"))
	if err != nil {
		t.Fatalf("AddRaw: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

func TestAddRawDecodesUTF16(t *testing.T) {
	// "ns" в UTF-16LE с BOM
	raw := []byte{0xFF, 0xFE, 'n', 0, 's', 0}
	fs := NewFileSet()
	id, err := fs.AddRaw("wide.hxsl", raw)
	if err != nil {
		t.Fatalf("AddRaw: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "ns" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Encoding != EncodingUTF16LE || f.Flags&FileTranscoded == 0 {
		t.Fatalf("encoding = %s flags = %b", f.Encoding, f.Flags)
	}
}

func TestAddRawDecodesUTF32BE(t *testing.T) {
	raw := []byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'x'}
	fs := NewFileSet()
	id, err := fs.AddRaw("wide.hxsl", raw)
	if err != nil {
		t.Fatalf("AddRaw: %v", err)
	}
	if got := string(fs.Get(id).Content); got != "x" {
		t.Fatalf("content = %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lit.hxsl")
	if err := os.WriteFile(path, []byte("namespace Lit;\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fs.Get(id).FormatPath("relative", dir); got != "lit.hxsl" {
		t.Fatalf("relative path = %q", got)
	}
}

func TestSpanCoverAndText(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 10, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 4, End: 12}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file Cover must be a no-op, got %v", got)
	}
	if got := (Span{Start: 2, End: 5}).Text([]byte("float4")); got != "oat" {
		t.Fatalf("Text = %q", got)
	}
	if got := (Span{Start: 4, End: 50}).Text([]byte("float4")); got != "t4" {
		t.Fatalf("clamped Text = %q", got)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Foo")
	if a == NoStringID {
		t.Fatalf("Intern returned NoStringID")
	}
	if b := in.Intern("Foo"); b != a {
		t.Fatalf("Intern not stable: %d != %d", a, b)
	}
	if _, ok := in.Find("Bar"); ok {
		t.Fatalf("Find must not intern")
	}
	if s := in.MustLookup(a); s != "Foo" {
		t.Fatalf("Lookup = %q", s)
	}
}
