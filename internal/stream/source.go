package stream

import (
	"fmt"

	"hxsl/internal/token"

	"fortio.org/safecast"
)

// Source produces tokens in order. Offsets are opaque to the cursor: it only
// stores what Offset returns and hands it back to Seek.
type Source interface {
	Next() token.Token
	Offset() uint32
	Seek(off uint32)
}

// SliceSource replays a prepared token slice. The last token should be EOF;
// reading past the end keeps returning it.
type SliceSource struct {
	toks []token.Token
	pos  int
}

func NewSliceSource(toks []token.Token) *SliceSource {
	return &SliceSource{toks: toks}
}

func (s *SliceSource) Next() token.Token {
	if s.pos >= len(s.toks) {
		if len(s.toks) == 0 {
			return token.Token{Kind: token.EOF}
		}
		return s.toks[len(s.toks)-1]
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok
}

func (s *SliceSource) Offset() uint32 {
	off, err := safecast.Conv[uint32](s.pos)
	if err != nil {
		panic(fmt.Errorf("slice source offset overflow: %w", err))
	}
	return off
}

func (s *SliceSource) Seek(off uint32) {
	s.pos = min(int(off), len(s.toks))
}
