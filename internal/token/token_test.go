package token

import "testing"

func TestKeywordTablesRoundTrip(t *testing.T) {
	for k := KwNamespace; k < keywordCount; k++ {
		if keywordNames[k] == "" {
			t.Fatalf("keyword %d has no spelling", k)
		}
	}
	for word, k := range ShaderKeywords {
		if k.String() != word {
			t.Fatalf("shader keyword %q maps to %s", word, k)
		}
	}
}

func TestStructuralKeywordsSubset(t *testing.T) {
	for _, w := range []string{"shader", "pass", "property", "import", "module", "namespace", "using"} {
		if _, ok := StructuralKeywords.Lookup(w); !ok {
			t.Fatalf("structural grammar misses %q", w)
		}
	}
	if _, ok := StructuralKeywords.Lookup("float"); ok {
		t.Fatalf("structural grammar must not reserve float")
	}
	if _, ok := ShaderKeywords.Lookup("shader"); ok {
		t.Fatalf("shader grammar must not reserve shader")
	}
}

func TestScalarTypeKeywords(t *testing.T) {
	scalars := []string{"bool", "int", "uint", "dword", "half", "float", "double", "matrix",
		"min16float", "min10float", "min16int", "min12int", "min16uint"}
	for _, s := range scalars {
		k, ok := LookupKeyword(s)
		if !ok || !k.IsScalarType() {
			t.Fatalf("%q: keyword=%v ok=%v", s, k, ok)
		}
	}
	if KwVoid.IsScalarType() {
		t.Fatalf("void is not a scalar type")
	}
	if _, ok := LookupKeyword("float4"); ok {
		t.Fatalf("vector names are identifiers")
	}
}

func TestOperatorLookup(t *testing.T) {
	tests := map[string]OperatorID{"<<=": OpShlAssign, "@": OpAt, ".": OpDot, "&&": OpAndAnd}
	for s, want := range tests {
		got, ok := LookupOperator(s)
		if !ok || got != want {
			t.Fatalf("LookupOperator(%q) = %v, %v", s, got, ok)
		}
		if got.String() != s {
			t.Fatalf("String() = %q, want %q", got.String(), s)
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	tok := Token{Kind: Keyword, Text: "struct", Value: int(KwStruct)}
	if !tok.IsKeyword(KwStruct) || tok.IsKeyword(KwClass) || tok.Keyword() != KwStruct {
		t.Fatalf("keyword predicates broken for %v", tok)
	}
	d := Token{Kind: Delimiter, Text: "{", Value: '{'}
	if !d.IsDelimiter('{') || d.IsDelimiter('}') || d.Keyword() != NoKeyword {
		t.Fatalf("delimiter predicates broken for %v", d)
	}
	if got := d.Describe(); got != "'{'" {
		t.Fatalf("Describe = %q", got)
	}
}
