package driver

import (
	"fmt"

	"hxsl/internal/diag"
	"hxsl/internal/lexer"
	"hxsl/internal/module"
	"hxsl/internal/source"
	"hxsl/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Grammar lexer.Config
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes path. grammar is "shader", "structural" or "" to pick by
// content: a file opening with `module` is structural.
func Tokenize(path, grammar string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	cfg := lexer.Shader
	if grammar == "" {
		if module.IsModuleSource(file) {
			cfg = lexer.Structural
		}
	} else {
		var ok bool
		if cfg, ok = lexer.ConfigByName(grammar); !ok {
			return nil, fmt.Errorf("unknown grammar %q (expected: shader|structural)", grammar)
		}
	}

	bag := diag.NewBag(maxDiagnostics)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Grammar: cfg,
		Tokens:  lexer.Tokenize(file, lexer.Options{Config: cfg, Reporter: diag.BagReporter{Bag: bag}}),
		Bag:     bag,
	}, nil
}
