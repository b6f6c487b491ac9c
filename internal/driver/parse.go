package driver

import (
	"context"
	"errors"
	"fmt"

	"hxsl/internal/compiler"
	"hxsl/internal/module"
	"hxsl/internal/source"
)

// ErrModuleSource: parse got a module file; modules go through Build.
var ErrModuleSource = errors.New("file is a module, use compile")

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Result  *compiler.Result
	Err     error // фатальная ошибка компиляции; диагностика уже в Result.Bag
}

// Parse compiles one bare shader file: tokenize, parse and bind. Load errors
// are returned; compile faults land in ParseResult.Err.
func Parse(ctx context.Context, path string, opts compiler.Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	if module.IsModuleSource(file) {
		return nil, fmt.Errorf("%s: %w", path, ErrModuleSource)
	}
	sess := compiler.NewSession(fs, opts)
	res, err := compiler.CompileFile(ctx, sess, file)
	return &ParseResult{FileSet: fs, File: file, Result: res, Err: err}, nil
}
