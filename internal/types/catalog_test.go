package types

import (
	"fmt"
	"testing"
)

func TestCatalogCompleteness(t *testing.T) {
	c := NewCatalog()
	for _, k := range ElementKinds() {
		scalar, ok := c.Lookup(k.String())
		if !ok || scalar.Class != Scalar || scalar.Kind != k {
			t.Fatalf("scalar %s: %v %v", k, scalar, ok)
		}
		for n := 2; n <= 4; n++ {
			name := fmt.Sprintf("%s%d", k, n)
			p, ok := c.Lookup(name)
			if !ok || p.Class != Vector || p.Kind != k || int(p.Rows) != n {
				t.Fatalf("vector %s: %v %v", name, p, ok)
			}
		}
		for r := 1; r <= 4; r++ {
			for col := 1; col <= 4; col++ {
				name := fmt.Sprintf("%s%dx%d", k, r, col)
				p, ok := c.Lookup(name)
				if !ok || p.Class != Matrix || int(p.Rows) != r || int(p.Columns) != col {
					t.Fatalf("matrix %s: %v %v", name, p, ok)
				}
			}
		}
	}
	// 11 element kinds * (1 + 3 + 16) + void
	if want := 11*20 + 1; c.Len() != want {
		t.Fatalf("catalog size = %d, want %d", c.Len(), want)
	}
}

func TestCatalogExamples(t *testing.T) {
	c := NewCatalog()
	tests := []struct {
		name string
		want Primitive
	}{
		{"float", MakeScalar(Float)},
		{"float3", MakeVector(Float, 3)},
		{"float4x4", MakeMatrix(Float, 4, 4)},
		{"min16uint2", MakeVector(Min16Uint, 2)},
		{"void", MakeScalar(Void)},
		{"dword", MakeScalar(Uint)},
		{"matrix", MakeMatrix(Float, 4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Lookup(tt.name)
			if !ok || got != tt.want {
				t.Fatalf("Lookup(%q) = %v, %v; want %v", tt.name, got, ok, tt.want)
			}
		})
	}
	for _, miss := range []string{"float5", "void2", "float0x1", "Float"} {
		if _, ok := c.Lookup(miss); ok {
			t.Fatalf("Lookup(%q) unexpectedly succeeded", miss)
		}
	}
}

func TestPrimitiveNameRoundTrip(t *testing.T) {
	c := NewCatalog()
	for _, name := range c.Names() {
		p, _ := c.Lookup(name)
		if _, alias := catalogAliases[name]; alias {
			continue
		}
		if p.Name() != name {
			t.Fatalf("entry %q renders as %q", name, p.Name())
		}
	}
}
