package stream

import (
	"fmt"

	"hxsl/internal/diag"
	"hxsl/internal/source"
	"hxsl/internal/token"
)

// DefaultMaxDepth bounds the save/restore stack.
const DefaultMaxDepth = 64

type Options struct {
	MaxDepth int // 0: DefaultMaxDepth
}

type snapshot struct {
	offset  uint32
	current token.Token
	last    token.Token
}

type Stream struct {
	src      Source
	current  token.Token
	last     token.Token
	stack    []snapshot
	maxDepth int
}

// New primes the cursor with the first significant token of src.
func New(src Source, opts Options) (*Stream, error) {
	if src == nil {
		return nil, fmt.Errorf("stream: nil token source")
	}
	depth := opts.MaxDepth
	switch {
	case depth == 0:
		depth = DefaultMaxDepth
	case depth < 0:
		return nil, fmt.Errorf("stream: negative max depth %d", depth)
	}
	s := &Stream{
		src:      src,
		stack:    make([]snapshot, 0, depth),
		maxDepth: depth,
	}
	s.current = s.nextSignificant()
	return s, nil
}

// Current is the lookahead token.
func (s *Stream) Current() token.Token { return s.current }

// LastToken is the token consumed by the previous advance.
func (s *Stream) LastToken() token.Token { return s.last }

// IsEndOfTokens reports whether the lookahead is EOF.
func (s *Stream) IsEndOfTokens() bool { return s.current.Kind == token.EOF }

// Offset is the source offset of the lookahead token.
func (s *Stream) Offset() uint32 { return s.current.Span.Start }

// Depth is the number of saved states.
func (s *Stream) Depth() int { return len(s.stack) }

// Advance consumes the lookahead. At end of stream it fails with a stream fault.
func (s *Stream) Advance() error {
	if s.IsEndOfTokens() {
		return diag.StreamFault(s.current.Span, "unexpected end of stream")
	}
	s.last = s.current
	s.current = s.nextSignificant()
	return nil
}

// TryAdvance is Advance without the error: false at end of stream.
func (s *Stream) TryAdvance() bool {
	return s.Advance() == nil
}

func (s *Stream) nextSignificant() token.Token {
	for {
		tok := s.src.Next()
		if tok.Kind != token.Comment {
			return tok
		}
	}
}

func (s *Stream) TryGetDelimiter(ch byte) bool {
	if !s.current.IsDelimiter(ch) {
		return false
	}
	return s.TryAdvance()
}

func (s *Stream) TryGetKeyword(kw token.KeywordID) bool {
	if !s.current.IsKeyword(kw) {
		return false
	}
	return s.TryAdvance()
}

func (s *Stream) TryGetOperator(op token.OperatorID) bool {
	if !s.current.IsOperator(op) {
		return false
	}
	return s.TryAdvance()
}

// TryGetIdentifier consumes an identifier and yields its span.
func (s *Stream) TryGetIdentifier() (source.Span, bool) {
	if s.current.Kind != token.Identifier {
		return source.Span{}, false
	}
	sp := s.current.Span
	return sp, s.TryAdvance()
}

func (s *Stream) ExpectDelimiter(ch byte) (token.Token, error) {
	if s.current.IsDelimiter(ch) {
		return s.consume()
	}
	return token.Token{}, s.mismatch(diag.SynExpectDelimiter, fmt.Sprintf("'%c'", ch))
}

func (s *Stream) ExpectKeyword(kw token.KeywordID) (token.Token, error) {
	if s.current.IsKeyword(kw) {
		return s.consume()
	}
	return token.Token{}, s.mismatch(diag.SynExpectKeyword, fmt.Sprintf("'%s'", kw))
}

func (s *Stream) ExpectOperator(op token.OperatorID) (token.Token, error) {
	if s.current.IsOperator(op) {
		return s.consume()
	}
	return token.Token{}, s.mismatch(diag.SynExpectOperator, fmt.Sprintf("'%s'", op))
}

func (s *Stream) ExpectIdentifier() (token.Token, error) {
	if s.current.Kind == token.Identifier {
		return s.consume()
	}
	return token.Token{}, s.mismatch(diag.SynExpectIdentifier, "identifier")
}

func (s *Stream) consume() (token.Token, error) {
	tok := s.current
	if err := s.Advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

// mismatch: EOF вместо ожидаемого токена: это stream fault, иначе syntax fault.
func (s *Stream) mismatch(code diag.Code, expected string) error {
	found := s.current.Describe()
	if s.IsEndOfTokens() {
		f := diag.StreamFault(s.current.Span, "")
		f.Expected, f.Found = expected, found
		return f
	}
	return diag.SyntaxFault(code, s.current.Span, expected, found)
}

// PushState snapshots the source position plus last/current tokens.
func (s *Stream) PushState() error {
	if len(s.stack) >= s.maxDepth {
		return diag.StructuralFault(diag.SynStackOverflow, s.current.Span,
			fmt.Sprintf("stack overflow: backtracking depth exceeds %d", s.maxDepth))
	}
	s.stack = append(s.stack, snapshot{
		offset:  s.src.Offset(),
		current: s.current,
		last:    s.last,
	})
	return nil
}

// PopState drops the latest snapshot; with restore it rewinds to it first.
func (s *Stream) PopState(restore bool) {
	n := len(s.stack)
	if n == 0 {
		panic("stream: PopState without matching PushState")
	}
	top := s.stack[n-1]
	s.stack = s.stack[:n-1]
	if !restore {
		return
	}
	s.current = top.current
	s.last = top.last
	s.src.Seek(top.offset)
}
