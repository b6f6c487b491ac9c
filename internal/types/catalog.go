package types

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// PrimitiveID indexes the catalog; NoPrimitiveID is never a valid entry.
type PrimitiveID uint32

const NoPrimitiveID PrimitiveID = 0

// Catalog is the name-keyed table of primitive types. Read-only after NewCatalog.
type Catalog struct {
	entries []Primitive
	byName  map[string]PrimitiveID
}

// catalogAliases: ключевые слова, которые HLSL трактует как синонимы.
var catalogAliases = map[string]string{
	"dword":  "uint",
	"matrix": "float4x4",
	"vector": "float4",
}

// NewCatalog registers, for every kind, the scalar form, vector forms of arity
// 2..4 and matrix forms from 1x1 to 4x4.
func NewCatalog() *Catalog {
	c := &Catalog{
		entries: []Primitive{{}}, // 0: резерв под NoPrimitiveID
		byName:  make(map[string]PrimitiveID, 256),
	}
	c.add(MakeScalar(Void))
	for _, k := range ElementKinds() {
		c.add(MakeScalar(k))
		for n := uint8(2); n <= 4; n++ {
			c.add(MakeVector(k, n))
		}
		for r := uint8(1); r <= 4; r++ {
			for col := uint8(1); col <= 4; col++ {
				c.add(MakeMatrix(k, r, col))
			}
		}
	}
	for alias, target := range catalogAliases {
		c.byName[alias] = c.byName[target]
	}
	return c
}

func (c *Catalog) add(p Primitive) {
	n, err := safecast.Conv[uint32](len(c.entries))
	if err != nil {
		panic(fmt.Errorf("catalog overflow: %w", err))
	}
	name := p.Name()
	if _, dup := c.byName[name]; dup {
		panic(fmt.Sprintf("types: duplicate primitive %q", name))
	}
	c.entries = append(c.entries, p)
	c.byName[name] = PrimitiveID(n)
}

// Lookup finds a primitive by its display name or alias.
func (c *Catalog) Lookup(name string) (Primitive, bool) {
	id, ok := c.byName[name]
	if !ok {
		return Primitive{}, false
	}
	return c.entries[id], true
}

// LookupID is Lookup returning the catalog index.
func (c *Catalog) LookupID(name string) (PrimitiveID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Get returns the entry for id.
func (c *Catalog) Get(id PrimitiveID) (Primitive, bool) {
	if id == NoPrimitiveID || int(id) >= len(c.entries) {
		return Primitive{}, false
	}
	return c.entries[id], true
}

// Len is the number of distinct primitives (aliases excluded).
func (c *Catalog) Len() int {
	return len(c.entries) - 1
}

// Names returns every registered name, aliases included, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for name := range c.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
