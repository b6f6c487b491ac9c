package module

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"hxsl/internal/diag"
	"hxsl/internal/source"
)

// Error is one problem found while loading or validating a module.
type Error struct {
	Code diag.Code
	Path string
	Span source.Span // пустой, если позиции нет (TOML)
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s %s", e.Code.ID(), e.Msg)
	}
	return fmt.Sprintf("%s: %s %s", e.Path, e.Code.ID(), e.Msg)
}

// Diagnostic converts e into a bag entry.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

func newError(code diag.Code, path string, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks names, property defaults and pass bindings. Every problem
// is reported; the result is an errors.Join of *Error values.
func (m *Module) Validate() error {
	var errs []error
	add := func(code diag.Code, format string, args ...any) {
		errs = append(errs, newError(code, m.Path, format, args...))
	}
	if m.Name == "" {
		add(diag.ProjManifestInvalid, "module name is empty")
	}

	shaders := make(map[string]struct{}, len(m.Shaders))
	for _, sh := range m.Shaders {
		if _, dup := shaders[sh.Name]; dup {
			add(diag.ProjDuplicateShader, "shader %q is declared more than once", sh.Name)
		}
		shaders[sh.Name] = struct{}{}
		if sh.Source == "" {
			add(diag.ProjMissingShaderSource, "shader %q has no source", sh.Name)
		}
	}

	props := make(map[string]struct{}, len(m.Properties))
	for i, p := range m.Properties {
		if _, dup := props[p.Name]; dup {
			add(diag.ProjDuplicateProperty, "property %q is declared more than once", p.Name)
		}
		props[p.Name] = struct{}{}
		if p.Index != i {
			add(diag.ProjManifestInvalid, "property %q has index %d at position %d", p.Name, p.Index, i)
		}
		if p.Type == STypeUnknown {
			add(diag.ProjUnknownPropertyType, "property %q has no scalar or vector type", p.Name)
			continue
		}
		if n := len(p.Default); n != 0 && n != p.Type.Components() {
			add(diag.ProjManifestInvalid, "property %q: default has %d value(s), %s needs %d",
				p.Name, n, p.Type, p.Type.Components())
		}
	}

	for _, pass := range m.Passes {
		for _, st := range Stages() {
			ep, ok := pass.Stages[st]
			if !ok {
				continue
			}
			if _, ok := shaders[ep.Shader]; !ok {
				add(diag.ProjMissingShaderSource, "pass %q: %s stage references unknown shader %q", pass.Name, st, ep.Shader)
			}
		}
	}

	for _, imp := range m.Imports {
		if imp.Name == m.Name {
			add(diag.ProjImportConstraint, "module %q imports itself", m.Name)
		}
	}
	return errors.Join(errs...)
}

// ParseVersion parses a module version; empty means unversioned.
func ParseVersion(raw string) (*semver.Version, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", errBadVersion, raw, err)
	}
	return v, nil
}

// ParseImport builds an Import; empty constraint accepts any version.
func ParseImport(name, constraint string) (Import, error) {
	imp := Import{Name: name, Raw: constraint}
	if constraint == "" {
		return imp, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return Import{}, fmt.Errorf("%w: import %q: %q: %w", errBadConstraint, name, constraint, err)
	}
	imp.Constraint = c
	return imp, nil
}

var (
	errBadVersion    = errors.New("invalid module version")
	errBadConstraint = errors.New("invalid import constraint")
)

// ResolveImports checks every import of every module against the set. An
// unversioned module satisfies only unconstrained imports.
func ResolveImports(mods []*Module) error {
	byName := make(map[string]*Module, len(mods))
	for _, m := range mods {
		byName[m.Name] = m
	}
	var errs []error
	for _, m := range mods {
		for _, imp := range m.Imports {
			dep, ok := byName[imp.Name]
			if !ok {
				errs = append(errs, newError(diag.ProjImportConstraint, m.Path, "module %q imports unknown module %q", m.Name, imp.Name))
				continue
			}
			if imp.Constraint == nil {
				continue
			}
			if dep.Version == nil {
				errs = append(errs, newError(diag.ProjImportConstraint, m.Path,
					"module %q requires %s %s, but %s has no version", m.Name, imp.Name, imp.Raw, imp.Name))
				continue
			}
			if ok, reasons := imp.Constraint.Validate(dep.Version); !ok {
				msg := fmt.Sprintf("module %q requires %s %s, found %s", m.Name, imp.Name, imp.Raw, dep.Version)
				if len(reasons) > 0 {
					msg += ": " + reasons[0].Error()
				}
				errs = append(errs, newError(diag.ProjImportConstraint, m.Path, "%s", msg))
			}
		}
	}
	return errors.Join(errs...)
}
