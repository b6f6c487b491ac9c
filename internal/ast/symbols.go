package ast

import (
	"hxsl/internal/source"
)

// SymbolRef is one entry of a symbol table. Handle is the arena index of the
// declaration (StructID, FunctionID, ...) or an external index.
type SymbolRef struct {
	Name      source.StringID
	Kind      SymbolKind
	Span      source.Span
	Namespace NamespaceID
	Handle    uint32
}

// SymbolTable maps interned names to declarations. Names may repeat.
type SymbolTable struct {
	strings *source.Interner
	entries []SymbolRef
	byName  map[source.StringID][]int
}

func NewSymbolTable(strings *source.Interner) *SymbolTable {
	return &SymbolTable{
		strings: strings,
		byName:  make(map[source.StringID][]int),
	}
}

func (t *SymbolTable) Insert(name string, kind SymbolKind, sp source.Span, ns NamespaceID, handle uint32) {
	id := t.strings.Intern(name)
	t.byName[id] = append(t.byName[id], len(t.entries))
	t.entries = append(t.entries, SymbolRef{Name: id, Kind: kind, Span: sp, Namespace: ns, Handle: handle})
}

// Lookup returns every symbol registered under name.
func (t *SymbolTable) Lookup(name string) []SymbolRef {
	id, ok := t.strings.Find(name)
	if !ok {
		return nil
	}
	idx := t.byName[id]
	out := make([]SymbolRef, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.entries[i])
	}
	return out
}

// LookupKind returns the first symbol of kind registered under name in ns.
func (t *SymbolTable) LookupKind(name string, kind SymbolKind, ns NamespaceID) (SymbolRef, bool) {
	for _, ref := range t.Lookup(name) {
		if ref.Kind == kind && ref.Namespace == ns {
			return ref, true
		}
	}
	return SymbolRef{}, false
}

func (t *SymbolTable) Len() int { return len(t.entries) }

// NameOf resolves the interned name of ref.
func (t *SymbolTable) NameOf(ref SymbolRef) string {
	return t.strings.MustLookup(ref.Name)
}

func (t *SymbolTable) reset() {
	t.entries = t.entries[:0]
	clear(t.byName)
}
