package module

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hxsl/internal/diag"
	"hxsl/internal/source"
	"hxsl/internal/types"
)

// ManifestExt is the extension of TOML module manifests.
const ManifestExt = ".toml"

// ErrModuleSectionMissing indicates that [module] is missing in a manifest.
var ErrModuleSectionMissing = errors.New("missing [module]")

type manifest struct {
	Module struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"module"`
	Imports    []importEntry   `toml:"import"`
	Properties []propertyEntry `toml:"property"`
	Shaders    []shaderEntry   `toml:"shader"`
	Passes     []passEntry     `toml:"pass"`
}

type importEntry struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type propertyEntry struct {
	Name    string `toml:"name"`
	Type    string `toml:"type"`
	Default any    `toml:"default"`
}

type shaderEntry struct {
	Name   string `toml:"name"`
	Source string `toml:"source"`
	File   string `toml:"file"`
}

type passEntry struct {
	Name       string `toml:"name"`
	Vertex     string `toml:"vertex"`
	Hull       string `toml:"hull"`
	Domain     string `toml:"domain"`
	Geometry   string `toml:"geometry"`
	Pixel      string `toml:"pixel"`
	Compute    string `toml:"compute"`
	Blend      string `toml:"blend"`
	Depth      string `toml:"depth"`
	Rasterizer string `toml:"rasterizer"`
}

func (e *passEntry) stage(s Stage) string {
	switch s {
	case StageVertex:
		return e.Vertex
	case StageHull:
		return e.Hull
	case StageDomain:
		return e.Domain
	case StageGeometry:
		return e.Geometry
	case StagePixel:
		return e.Pixel
	case StageCompute:
		return e.Compute
	}
	return ""
}

// LoadManifest reads a TOML module manifest. Shader `file` entries are loaded
// through fs relative to the manifest's directory.
func LoadManifest(fs *source.FileSet, path string) (*Module, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return DecodeManifest(fs, fs.Get(id))
}

// DecodeManifest builds a module from an already loaded manifest file.
func DecodeManifest(fs *source.FileSet, file *source.File) (*Module, error) {
	path := file.Path
	var cfg manifest
	meta, err := toml.Decode(string(file.Content), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("module") {
		return nil, fmt.Errorf("%s: %w", path, ErrModuleSectionMissing)
	}

	var errs []error
	for _, key := range meta.Undecoded() {
		errs = append(errs, newError(diag.ProjManifestInvalid, path, "unknown key %q", key.String()))
	}

	m := &Module{Name: strings.TrimSpace(cfg.Module.Name), Path: path}
	if m.Version, err = ParseVersion(strings.TrimSpace(cfg.Module.Version)); err != nil {
		errs = append(errs, newError(diag.ProjBadVersion, path, "%v", err))
	}
	for _, e := range cfg.Imports {
		imp, err := ParseImport(strings.TrimSpace(e.Name), strings.TrimSpace(e.Version))
		if err != nil {
			errs = append(errs, newError(diag.ProjImportConstraint, path, "%v", err))
			continue
		}
		m.Imports = append(m.Imports, imp)
	}

	cat := types.NewCatalog()
	for _, e := range cfg.Properties {
		p := Property{Name: strings.TrimSpace(e.Name)}
		var ok bool
		if p.Type, ok = ParseSType(cat, strings.TrimSpace(e.Type)); !ok {
			errs = append(errs, newError(diag.ProjUnknownPropertyType, path, "property %q: unknown type %q", p.Name, e.Type))
		}
		if p.Default, err = defaultValues(e.Default); err != nil {
			errs = append(errs, newError(diag.ProjManifestInvalid, path, "property %q: %v", p.Name, err))
		}
		m.AddProperty(p)
	}

	dir := filepath.Dir(path)
	for _, e := range cfg.Shaders {
		sh := Shader{Name: strings.TrimSpace(e.Name), Source: e.Source}
		if e.File != "" {
			if e.Source != "" {
				errs = append(errs, newError(diag.ProjManifestInvalid, path, "shader %q: both source and file are set", sh.Name))
			}
			sh.File = filepath.Join(dir, filepath.FromSlash(e.File))
			id, err := fs.Load(sh.File)
			if err != nil {
				errs = append(errs, newError(diag.ProjMissingShaderSource, path, "shader %q: %v", sh.Name, err))
			} else {
				sh.Source = string(fs.Get(id).Content)
			}
		}
		m.Shaders = append(m.Shaders, sh)
	}

	for i := range cfg.Passes {
		e := &cfg.Passes[i]
		pass := Pass{
			Name:       strings.TrimSpace(e.Name),
			Stages:     make(map[Stage]EntryPoint),
			Blend:      e.Blend,
			Depth:      e.Depth,
			Rasterizer: e.Rasterizer,
		}
		for _, st := range Stages() {
			raw := e.stage(st)
			if raw == "" {
				continue
			}
			ep, ok := ParseEntryPoint(raw)
			if !ok {
				errs = append(errs, newError(diag.ProjManifestInvalid, path, "pass %q: %s entry %q is not Shader.Function", pass.Name, st, raw))
				continue
			}
			pass.Stages[st] = ep
		}
		m.Passes = append(m.Passes, pass)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// defaultValues flattens a TOML scalar or array into component values.
func defaultValues(v any) ([]float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]float64, 0, len(x))
		for _, e := range x {
			f, err := scalarValue(e)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	default:
		f, err := scalarValue(x)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

func scalarValue(v any) (float64, error) {
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("default value %v (%T) is not a number or bool", v, v)
	}
}
