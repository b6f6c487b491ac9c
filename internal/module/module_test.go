package module

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hxsl/internal/diag"
	"hxsl/internal/source"
	"hxsl/internal/types"
)

const litModule = `// lit material
module Lit "1.2.0";
import Common.Math "^1.0";
property float4 Tint = 1, 0.5, 0.25f, 1;
property bool UseNormalMap = true;
property int Layers = -2;

shader Main {
	namespace Lit {
		struct VSOut { float4 pos : SV_Position; };
		@Tint;
		VSOut VSMain(float4 p : POSITION) { VSOut o; o.pos = p; return o; }
		float4 PSMain(VSOut i) : SV_Target { return float4(1, 1, 1, 1); }
	}
}

pass Forward {
	vertex = Main.VSMain;
	pixel = Main.PSMain;
	blend = Opaque;
	depth = "LessEqual";
}
`

func virtual(name, src string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(name, []byte(src)))
}

func TestParseStructuralModule(t *testing.T) {
	m, err := ParseSource(virtual("lit.hxsl", litModule), nil)
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if m.Name != "Lit" || m.Version == nil || m.Version.String() != "1.2.0" {
		t.Fatalf("module header = %q %v", m.Name, m.Version)
	}
	if len(m.Imports) != 1 || m.Imports[0].Name != "Common.Math" || m.Imports[0].Constraint == nil {
		t.Fatalf("imports = %+v", m.Imports)
	}
	tint := m.FindProperty("Tint")
	if tint == nil || tint.Type != STypeFloat4 || len(tint.Default) != 4 || tint.Default[2] != 0.25 {
		t.Fatalf("Tint = %+v", tint)
	}
	if p := m.FindProperty("UseNormalMap"); p == nil || p.Type != STypeBool || p.Default[0] != 1 || p.Index != 1 {
		t.Fatalf("UseNormalMap = %+v", p)
	}
	if p := m.FindProperty("Layers"); p == nil || p.Default[0] != -2 {
		t.Fatalf("Layers = %+v", p)
	}
	sh := m.FindShader("Main")
	if sh == nil || !strings.Contains(sh.Source, "struct VSOut") || strings.HasPrefix(strings.TrimSpace(sh.Source), "{") {
		t.Fatalf("shader = %+v", sh)
	}
	pass := m.FindPass("Forward")
	if pass == nil {
		t.Fatalf("pass Forward missing")
	}
	if ep := pass.Stages[StageVertex]; ep.Shader != "Main" || ep.Function != "VSMain" {
		t.Fatalf("vertex = %+v", ep)
	}
	if pass.Stages[StagePixel].String() != "Main.PSMain" || pass.Blend != "Opaque" || pass.Depth != "LessEqual" {
		t.Fatalf("pass = %+v", pass)
	}
	if m.FindShader("Other") != nil || m.FindProperty("Other") != nil {
		t.Fatalf("lookup of a missing name succeeded")
	}
}

func TestStructuralModuleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"bad version", `module M "one"; shader S { }`, diag.ProjBadVersion},
		{"bad constraint", `module M; import N "??"; shader S { x }`, diag.ProjImportConstraint},
		{"unknown property type", `module M; property float4x4 World; shader S { x }`, diag.ProjUnknownPropertyType},
		{"default arity", `module M; property float3 C = 1, 2; shader S { x }`, diag.ProjManifestInvalid},
		{"duplicate shader", `module M; shader S { a } shader S { b }`, diag.ProjDuplicateShader},
		{"duplicate property", `module M; property float A; property int A; shader S { x }`, diag.ProjDuplicateProperty},
		{"pass unknown shader", `module M; shader S { x } pass P { vertex = T.main; }`, diag.ProjMissingShaderSource},
		{"pass unknown key", `module M; shader S { x } pass P { stencil = On; }`, diag.ProjManifestInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource(virtual("m.hxsl", tt.src), nil)
			var me *Error
			if !errors.As(err, &me) || me.Code != tt.code {
				t.Fatalf("err = %v, want code %s", err, tt.code.ID())
			}
		})
	}
}

func TestStructuralModuleSyntaxFault(t *testing.T) {
	_, err := ParseSource(virtual("m.hxsl", `module M; shader { }`), nil)
	if !errors.Is(err, diag.ErrSyntax) {
		t.Fatalf("err = %v", err)
	}
	_, err = ParseSource(virtual("m.hxsl", `module M; shader S`), nil)
	if !errors.Is(err, diag.ErrStream) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[module]
name = "Unlit"
version = "0.3.1"

[[import]]
name = "Common"
version = ">= 1.0, < 2.0"

[[property]]
name = "Color"
type = "float4"
default = [1, 1, 1, 1.0]

[[property]]
name = "Cutoff"
type = "float"
default = 0.5

[[shader]]
name = "Main"
file = "shaders/unlit.hxsl"

[[shader]]
name = "Inline"
source = "namespace I; float x;"

[[pass]]
name = "Forward"
vertex = "Main.VS"
pixel = "Main.PS"
`
	if err := os.MkdirAll(filepath.Join(dir, "shaders"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shaders", "unlit.hxsl"), []byte("namespace U;"), 0o600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "unlit.toml")
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := Load(source.NewFileSet(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "Unlit" || m.Version.String() != "0.3.1" {
		t.Fatalf("module = %q %v", m.Name, m.Version)
	}
	if sh := m.FindShader("Main"); sh == nil || sh.Source != "namespace U;" {
		t.Fatalf("Main = %+v", sh)
	}
	if p := m.FindProperty("Cutoff"); p == nil || p.Type != STypeFloat || len(p.Default) != 1 || p.Default[0] != 0.5 {
		t.Fatalf("Cutoff = %+v", p)
	}
	if pass := m.FindPass("Forward"); pass == nil || pass.Stages[StagePixel].Function != "PS" {
		t.Fatalf("pass = %+v", pass)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"no module section", `[[shader]]
name = "S"
source = "x"`, "missing [module]"},
		{"unknown key", `[module]
name = "M"
colour = "red"`, `unknown key "module.colour"`},
		{"missing file", `[module]
name = "M"
[[shader]]
name = "S"
file = "nope.hxsl"`, "PRJ5007"},
		{"bad default", `[module]
name = "M"
[[property]]
name = "P"
type = "float"
default = "x"`, "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "m.toml")
			if err := os.WriteFile(path, []byte(tt.manifest), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadManifest(source.NewFileSet(), path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadBareShader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.hxsl")
	if err := os.WriteFile(path, []byte("namespace Water; float4 tint;"), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := Load(source.NewFileSet(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "water" || len(m.Shaders) != 1 || m.Shaders[0].Name != "water" {
		t.Fatalf("module = %+v", m)
	}
}

func TestResolveImports(t *testing.T) {
	v1, _ := ParseVersion("1.4.0")
	common := &Module{Name: "Common", Version: v1}
	okImp, _ := ParseImport("Common", "^1.2")
	badImp, _ := ParseImport("Common", "^2.0")
	if err := ResolveImports([]*Module{common, {Name: "A", Imports: []Import{okImp}}}); err != nil {
		t.Fatalf("ResolveImports: %v", err)
	}
	err := ResolveImports([]*Module{common, {Name: "B", Imports: []Import{badImp}}, {Name: "C", Imports: []Import{{Name: "Missing"}}}})
	var me *Error
	if !errors.As(err, &me) || me.Code != diag.ProjImportConstraint {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "requires Common ^2.0") || !strings.Contains(err.Error(), `unknown module "Missing"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestSTypeMapping(t *testing.T) {
	cat := types.NewCatalog()
	tests := []struct {
		name string
		want SType
		ok   bool
	}{
		{"float", STypeFloat, true},
		{"float3", STypeFloat3, true},
		{"uint2", STypeUInt2, true},
		{"dword", STypeUInt, true},
		{"bool", STypeBool, true},
		{"bool2", STypeUnknown, false},
		{"float4x4", STypeUnknown, false},
		{"half", STypeUnknown, false},
		{"Texture2D", STypeUnknown, false},
	}
	for _, tt := range tests {
		got, ok := ParseSType(cat, tt.name)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseSType(%q) = %v, %v", tt.name, got, ok)
		}
	}
	if STypeFloat4.Components() != 4 || STypeFloat4.String() != "float4" {
		t.Fatalf("float4 = %d %q", STypeFloat4.Components(), STypeFloat4)
	}
}

func TestParseStageAndEntryPoint(t *testing.T) {
	if s, ok := ParseStage("Fragment"); !ok || s != StagePixel {
		t.Fatalf("fragment = %v %v", s, ok)
	}
	if _, ok := ParseStage("mesh"); ok {
		t.Fatalf("mesh accepted")
	}
	for _, bad := range []string{"Main", ".VS", "Main.", "A.B.C"} {
		if _, ok := ParseEntryPoint(bad); ok {
			t.Fatalf("ParseEntryPoint(%q) accepted", bad)
		}
	}
}
