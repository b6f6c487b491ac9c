package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"hxsl/internal/source"
)

func TestFaultClassesMatchWithErrorsIs(t *testing.T) {
	sp := source.Span{Start: 12, End: 13}
	tests := []struct {
		name  string
		fault *Fault
		class error
	}{
		{"stream", StreamFault(sp, "unexpected end of stream"), ErrStream},
		{"syntax", SyntaxFault(SynExpectIdentifier, sp, "identifier", "'{'"), ErrSyntax},
		{"structural", StructuralFault(SynStackOverflow, sp, "stack overflow"), ErrStructural},
		{"modifier", ModifierFault(SynModifierNotAllowed, sp, "invalid modifiers: inline"), ErrModifier},
		{"binding", BindingFault(sp, "unresolved type Foo"), ErrBinding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("compile: %w", tt.fault)
			if !errors.Is(wrapped, tt.class) {
				t.Fatalf("errors.Is(%v, %v) = false", wrapped, tt.class)
			}
			got, ok := AsFault(wrapped)
			if !ok || got != tt.fault {
				t.Fatalf("AsFault did not unwrap the fault")
			}
		})
	}
}

func TestSyntaxFaultMessageCarriesOffset(t *testing.T) {
	f := SyntaxFault(SynExpectIdentifier, source.Span{Start: 7, End: 8}, "identifier", "'{'")
	msg := f.Error()
	for _, want := range []string{"SYN2003", "offset 7", "expected identifier", "found '{'"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q misses %q", msg, want)
		}
	}
	if d := f.Diagnostic(); d.Severity != SevError || d.Code != SynExpectIdentifier {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	bag.Add(NewError(SemaUnresolvedType, source.Span{Start: 9}, "b"))
	bag.Add(New(SevWarning, SemaUnresolvedType, source.Span{Start: 1}, "a"))
	if bag.Add(NewError(SemaUnresolvedType, source.Span{}, "dropped")) {
		t.Fatalf("bag accepted item over its limit")
	}
	bag.Sort()
	if bag.Items()[0].Message != "a" {
		t.Fatalf("sort order wrong: %+v", bag.Items())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("severity queries broken")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(SemaUnresolvedType, SevWarning, sp, "unresolved type Foo", nil)
	r.Report(SemaUnresolvedType, SevWarning, sp, "unresolved type Foo", nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	id := fs.Add("/workspace/shaders/lit.hxsl", []byte("a\nb\n"), 0)
	diags := []Diagnostic{
		NewError(SynExpectIdentifier, source.Span{File: id, Start: 2, End: 3}, "expected identifier"),
		New(SevWarning, SemaUnresolvedType, source.Span{File: id, Start: 0, End: 1}, "first\nline"),
	}
	want := "warning SEM3001 shaders/lit.hxsl:1:1 first line\n" +
		"error SYN2003 shaders/lit.hxsl:2:1 expected identifier"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("short format:\nwant:\n%s\ngot:\n%s", want, got)
	}
}
