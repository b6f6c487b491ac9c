package ast

import (
	"testing"

	"hxsl/internal/source"
	"hxsl/internal/token"
	"hxsl/internal/types"
)

func ident(text string, start uint32) token.Token {
	end := start + uint32(len(text)) // #nosec G115 -- test data
	return token.Token{Kind: token.Identifier, Text: text, Span: source.Span{Start: start, End: end}}
}

// buildSample: namespace Foo { struct Bar { float x; } float4 f(float a, float b); float g; }
func buildSample(t *testing.T) (*Compilation, NamespaceID) {
	t.Helper()
	c := NewCompilation(0, Hints{})
	ns := c.AddNamespace("Foo", source.Span{})

	sid := c.NewStruct(Struct{Header: TypeHeader{Name: "Bar", Namespace: ns}})
	fid := c.NewField(Field{Type: c.NewUnresolvedType(ident("float", 1), ns), NameText: "x"})
	c.AttachStructField(sid, fid)
	c.AttachStruct(ns, sid)

	fn := Function{NameText: "f", ReturnType: c.NewUnresolvedType(ident("float4", 2), ns)}
	for i, name := range []string{"a", "b"} {
		fn.Params = append(fn.Params, c.NewParam(Parameter{
			NameText: name,
			Type:     c.NewUnresolvedType(ident("float", uint32(10+i)), ns), // #nosec G115
		}))
	}
	c.AttachFunction(ns, c.NewFunction(fn))

	c.AttachField(ns, c.NewField(Field{Type: c.NewUnresolvedType(ident("float", 20), ns), NameText: "g"}))
	return c, ns
}

func TestReleaseCascadesAndIsIdempotent(t *testing.T) {
	c, _ := buildSample(t)
	// ns + struct + field + type + fn + ret + 2*(param+type) + field + type
	if want := 12; c.Live() != want || c.Reachable() != want {
		t.Fatalf("Live=%d Reachable=%d, want %d", c.Live(), c.Reachable(), want)
	}
	c.Release()
	if c.Live() != 0 {
		t.Fatalf("Live after Release = %d", c.Live())
	}
	c.Release()
	if c.Live() != 0 || !c.Released() {
		t.Fatalf("second Release changed state")
	}
}

func TestUnresolvedListTracksSlots(t *testing.T) {
	c, ns := buildSample(t)
	if got := len(c.Namespace(ns).Unresolved); got != 5 {
		t.Fatalf("unresolved = %d, want 5", got)
	}
	// спекулятивный тип, освобождённый при откате, исчезает из списка
	tmp := c.NewUnresolvedType(ident("Baz", 30), ns)
	c.ReleaseType(tmp)
	if got := len(c.Namespace(ns).Unresolved); got != 5 {
		t.Fatalf("unresolved after release = %d, want 5", got)
	}
}

func TestDoubleFreePanics(t *testing.T) {
	c := NewCompilation(0, Hints{})
	ns := c.AddNamespace("N", source.Span{})
	id := c.NewUnresolvedType(ident("float", 0), ns)
	c.ReleaseType(id)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double free")
		}
	}()
	c.ReleaseType(id)
}

func TestRebindKeepsIdentityAndHeader(t *testing.T) {
	c := NewCompilation(0, Hints{})
	ns := c.AddNamespace("N", source.Span{})
	id := c.NewUnresolvedType(ident("float3", 4), ns)
	if k := c.Type(id).Kind(); k != types.KindUnknown {
		t.Fatalf("kind before bind = %v", k)
	}
	c.Rebind(id, &PrimitiveType{Primitive: types.MakeVector(types.Float, 3)})
	ty := c.Type(id)
	if ty.Kind() != types.KindPrimitive || ty.Header.Name != "float3" || ty.Header.Namespace != ns {
		t.Fatalf("after rebind: kind=%v header=%+v", ty.Kind(), ty.Header)
	}
	if ty.Unresolved() != nil {
		t.Fatalf("Unresolved() must be nil after binding")
	}
}

func TestAddNamespaceMergesByName(t *testing.T) {
	c := NewCompilation(0, Hints{})
	a := c.AddNamespace("A", source.Span{})
	if b := c.AddNamespace("A", source.Span{}); a != b {
		t.Fatalf("namespace not merged: %d vs %d", a, b)
	}
	if len(c.Namespaces) != 1 {
		t.Fatalf("namespaces = %d", len(c.Namespaces))
	}
	if refs := c.Internal.Lookup("A"); len(refs) != 1 || refs[0].Kind != SymNamespace {
		t.Fatalf("symbol table = %+v", refs)
	}
}

func TestSymbolTableLookupKind(t *testing.T) {
	c, ns := buildSample(t)
	ref, ok := c.Internal.LookupKind("Bar", SymStruct, ns)
	if !ok || StructID(ref.Handle) != c.Namespace(ns).Structs[0] {
		t.Fatalf("LookupKind(Bar) = %+v, %v", ref, ok)
	}
	if _, ok := c.Internal.LookupKind("Bar", SymFunction, ns); ok {
		t.Fatalf("kind filter ignored")
	}
	c.External.Insert("Tint", SymVariable, source.Span{}, ns, 3)
	if refs := c.External.Lookup("Tint"); len(refs) != 1 || c.External.NameOf(refs[0]) != "Tint" {
		t.Fatalf("external table = %+v", refs)
	}
}

func TestModifierStrings(t *testing.T) {
	if got := (ModPublic | ModInline).String(); got != "public inline" {
		t.Fatalf("Modifiers.String = %q", got)
	}
	if got := (ParamInOut | ParamUniform).String(); got != "inout uniform" {
		t.Fatalf("ParameterFlags.String = %q", got)
	}
	if FieldModifiers&ModInline != 0 || FunctionModifiers&ModConst != 0 {
		t.Fatalf("allow-sets are wrong")
	}
}
