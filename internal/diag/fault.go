package diag

import (
	"errors"
	"fmt"
	"strings"

	"hxsl/internal/source"
)

// Классы фатальных ошибок компиляции; сравнивать через errors.Is.
var (
	// ErrStream: токены закончились там, где нужен ещё ввод.
	ErrStream = errors.New("stream fault")
	// ErrSyntax: ожидаемый вид/значение токена не найдено.
	ErrSyntax = errors.New("syntax fault")
	// ErrStructural: нарушен инвариант грамматики или внутреннего состояния.
	ErrStructural = errors.New("structural fault")
	// ErrModifier: недопустимая комбинация модификаторов.
	ErrModifier = errors.New("modifier fault")
	// ErrBinding: имя типа не разрешилось после связывания.
	ErrBinding = errors.New("binding fault")
)

// Fault is a fatal compiler error. It unwinds the whole compilation.
type Fault struct {
	Class    error
	Code     Code
	Span     source.Span
	Message  string
	Expected string
	Found    string
}

func (f *Fault) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at offset %d: ", f.Code.ID(), f.Span.Start)
	if f.Expected != "" {
		fmt.Fprintf(&b, "expected %s", f.Expected)
		if f.Found != "" {
			fmt.Fprintf(&b, ", found %s", f.Found)
		}
		if f.Message != "" {
			b.WriteString(" (")
			b.WriteString(f.Message)
			b.WriteByte(')')
		}
		return b.String()
	}
	b.WriteString(f.Message)
	return b.String()
}

func (f *Fault) Unwrap() error { return f.Class }

// Diagnostic converts the fault into a bag entry.
func (f *Fault) Diagnostic() Diagnostic {
	msg := f.Message
	if f.Expected != "" {
		msg = "expected " + f.Expected
		if f.Found != "" {
			msg += ", found " + f.Found
		}
		if f.Message != "" {
			msg += " (" + f.Message + ")"
		}
	}
	return NewError(f.Code, f.Span, msg)
}

// AsFault extracts a *Fault from err.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func StreamFault(sp source.Span, msg string) *Fault {
	return &Fault{Class: ErrStream, Code: SynUnexpectedEOF, Span: sp, Message: msg}
}

func SyntaxFault(code Code, sp source.Span, expected, found string) *Fault {
	return &Fault{Class: ErrSyntax, Code: code, Span: sp, Expected: expected, Found: found}
}

func StructuralFault(code Code, sp source.Span, msg string) *Fault {
	return &Fault{Class: ErrStructural, Code: code, Span: sp, Message: msg}
}

func ModifierFault(code Code, sp source.Span, msg string) *Fault {
	return &Fault{Class: ErrModifier, Code: code, Span: sp, Message: msg}
}

func BindingFault(sp source.Span, msg string) *Fault {
	return &Fault{Class: ErrBinding, Code: SemaUnresolvedType, Span: sp, Message: msg}
}
