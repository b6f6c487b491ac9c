// Package module is the unit the graphics layer loads: imports, typed
// properties, named shader sources and passes that bind stage entry points.
package module

import (
	"github.com/Masterminds/semver/v3"
)

// Module is one shader module.
type Module struct {
	Name       string
	Version    *semver.Version // nil: версия не указана
	Path       string          // файл, из которого модуль загружен; пусто для модулей из памяти
	Imports    []Import
	Properties []Property
	Shaders    []Shader
	Passes     []Pass
}

// Import names another module, optionally constrained by a semver range.
type Import struct {
	Name       string
	Constraint *semver.Constraints // nil: любая версия
	Raw        string
}

// Property is a named, typed value exposed to the material system. Shaders
// reference it as `@Name`.
type Property struct {
	Name    string
	Type    SType
	Default []float64 // по одному значению на компоненту; bool хранится как 0/1
	Index   int       // позиция в Module.Properties
}

// Shader is a named blob of HXSL source.
type Shader struct {
	Name   string
	Source string
	File   string // имя файла для диагностик: путь на диске или "module.hxsl#Shader"
}

// Pass binds stage entry points and fixed-function state.
type Pass struct {
	Name       string
	Stages     map[Stage]EntryPoint
	Blend      string
	Depth      string
	Rasterizer string
}

// EntryPoint is `Shader.Function`.
type EntryPoint struct {
	Shader   string
	Function string
}

func (e EntryPoint) String() string { return e.Shader + "." + e.Function }

// FindShader returns the shader called name, or nil.
func (m *Module) FindShader(name string) *Shader {
	for i := range m.Shaders {
		if m.Shaders[i].Name == name {
			return &m.Shaders[i]
		}
	}
	return nil
}

// FindProperty returns the property called name, or nil.
func (m *Module) FindProperty(name string) *Property {
	for i := range m.Properties {
		if m.Properties[i].Name == name {
			return &m.Properties[i]
		}
	}
	return nil
}

// FindPass returns the pass called name, or nil.
func (m *Module) FindPass(name string) *Pass {
	for i := range m.Passes {
		if m.Passes[i].Name == name {
			return &m.Passes[i]
		}
	}
	return nil
}

// AddProperty appends p and fixes its index.
func (m *Module) AddProperty(p Property) *Property {
	p.Index = len(m.Properties)
	m.Properties = append(m.Properties, p)
	return &m.Properties[p.Index]
}
