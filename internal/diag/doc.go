// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Two channels exist:
//
//   - Diagnostic records collected in a Bag through a Reporter. They describe
//     lexical problems and non-fatal findings (e.g. unresolved types when the
//     compiler runs with AllowUnresolved).
//   - *Fault errors. A fault is fatal: it unwinds the whole compilation and is
//     returned as an ordinary Go error. Its class is matched with errors.Is
//     against ErrStream, ErrSyntax, ErrStructural, ErrModifier or ErrBinding.
//
// Package diag does no formatting beyond the single-line short form; pretty and
// JSON rendering live in internal/diagfmt.
package diag
