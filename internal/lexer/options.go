package lexer

import (
	"hxsl/internal/diag"
	"hxsl/internal/token"
)

// Config selects the grammar the lexer tokenizes for.
type Config struct {
	Name     string
	Keywords token.KeywordSet
	// CaptureBodies: '{' after `shader Name` / `pass Name` starts a Codeblock
	// that runs to the matching '}'.
	CaptureBodies bool
}

var (
	// Shader is the in-shader HLSL-flavoured grammar.
	Shader = Config{Name: "shader", Keywords: token.ShaderKeywords}
	// Structural is the module-level grammar.
	Structural = Config{Name: "structural", Keywords: token.StructuralKeywords, CaptureBodies: true}
)

// ConfigByName resolves "shader" or "structural".
func ConfigByName(name string) (Config, bool) {
	switch name {
	case Shader.Name, "":
		return Shader, true
	case Structural.Name:
		return Structural, true
	}
	return Config{}, false
}

type Options struct {
	Config   Config
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем, но продолжаем лексить
}
