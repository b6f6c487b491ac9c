// Package token defines lexical tokens of HXSL.
// Invariants:
//   - Token.Text is the exact source text of Token.Span.
//   - Token.Value identifies the keyword (Keyword), operator (Operator) or the
//     delimiter character (Delimiter); it is zero for every other kind.
//   - Comments are real tokens of Kind Comment; consumers skip them.
//   - Scalar type names (float, int, ...) are keywords, vector and matrix
//     names (float4, float4x4) are identifiers resolved by the binder.
package token
