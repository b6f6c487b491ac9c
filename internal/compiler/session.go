// Package compiler runs the hxsl front end over one shader: tokenize, parse,
// bind and link module properties.
package compiler

import (
	"sync"

	"hxsl/internal/source"
	"hxsl/internal/types"
)

// DefaultMaxDiagnostics caps the bag of one shader compile.
const DefaultMaxDiagnostics = 100

// Options configure every compile of a Session.
type Options struct {
	MaxDepth        int  // глубина scope-стека парсера; 0: по умолчанию
	MaxStackDepth   int  // глубина стека откатов курсора; 0: по умолчанию
	Classes         bool // анализатор `class` и связывание с классами
	AllowUnresolved bool // неразрешённые типы и @ссылки: предупреждения
	MaxDiagnostics  int
}

// Session holds what shader compiles share: the file set and the primitive
// catalog. The catalog is built on first use and read-only afterwards, so one
// Session may compile shaders from several goroutines.
type Session struct {
	Opts Options

	mu    sync.Mutex // защищает files
	files *source.FileSet

	catOnce sync.Once
	cat     *types.Catalog
}

// NewSession wraps fs; nil creates a fresh file set.
func NewSession(fs *source.FileSet, opts Options) *Session {
	if fs == nil {
		fs = source.NewFileSet()
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultMaxDiagnostics
	}
	return &Session{Opts: opts, files: fs}
}

// Catalog returns the shared primitive catalog.
func (s *Session) Catalog() *types.Catalog {
	s.catOnce.Do(func() { s.cat = types.NewCatalog() })
	return s.cat
}

// Files exposes the file set for diagnostics rendering. Do not call while
// compiles are running.
func (s *Session) Files() *source.FileSet { return s.files }

// AddVirtual registers shader text under name and returns a stable copy of
// the file header. Safe for concurrent use.
func (s *Session) AddVirtual(name, content string) *source.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.files.AddVirtual(name, []byte(content))
	f := *s.files.Get(id)
	return &f
}
