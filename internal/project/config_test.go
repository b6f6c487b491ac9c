package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	deep := filepath.Join(root, "shaders", "lit")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := FindProjectRoot(deep)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot = %q %v %v", got, ok, err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Fatalf("root = %q, want %q", got, want)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[compiler]
max_diagnostics = 20
classes = true
allow_unresolved = true
jobs = 2

[cache]
dir = ".cache/hxsl"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	c := cfg.Compiler
	if c.MaxDiagnostics != 20 || !c.Classes || !c.AllowUnresolved || c.Jobs != 2 || c.MaxDepth != 0 {
		t.Fatalf("compiler = %+v", c)
	}
	if cfg.Cache.Dir != filepath.Join(dir, ".cache", "hxsl") {
		t.Fatalf("cache dir = %q", cfg.Cache.Dir)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"unknown key", "[compiler]\nmax_errors = 3\n", "compiler.max_errors"},
		{"bad depth", "[compiler]\nmax_depth = 0\n", "max_depth must be positive"},
		{"bad toml", "[compiler\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, t.TempDir(), tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestResolveAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[compiler]\nmax_diagnostics = 20\n")
	t.Setenv(EnvMaxDiagnostics, "7")
	t.Setenv(EnvCacheDir, "/tmp/hxsl-cache")
	t.Setenv(EnvNoCache, "1")

	cfg, err := Resolve(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Compiler.MaxDiagnostics != 7 || cfg.Cache.Dir != "/tmp/hxsl-cache" || !cfg.Cache.Disabled {
		t.Fatalf("cfg = %+v", cfg)
	}
	if _, err := Resolve(dir, filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("missing explicit config accepted")
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := HashString("a"), HashString("b")
	if Combine(a, b) == Combine(b, a) || Combine(a).IsZero() {
		t.Fatalf("combine is not order sensitive")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex = %q", a.String())
	}
}
