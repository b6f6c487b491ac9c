package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
)

const testModule = `module Lit "1.0.0";
property float4 Tint;

shader Main {
	namespace Lit;
	@Tint;
	float4 PS(float4 p : SV_Position) : SV_Target;
}
`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lit.hxsl")
	if err := os.WriteFile(path, []byte(testModule), 0o600); err != nil {
		t.Fatal(err)
	}
	cacheDir := filepath.Join(dir, "cache")

	out, _, err := runCLI(t, "compile", "--ui=off", "--color=off", "--summary", "--cache-dir", cacheDir, path)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out, "ok   Lit/Main: 1 namespace(s), 1 function(s), 2 bound, 1 linked\n") {
		t.Fatalf("out = %q", out)
	}
	out, _, err = runCLI(t, "compile", "--ui=off", "--color=off", "--summary", "--cache-dir", cacheDir, path)
	if err != nil || !strings.Contains(out, "(cached)") {
		t.Fatalf("second run: %q, %v", out, err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "shaders")); err != nil {
		t.Fatalf("cache not written: %v", err)
	}
}

func TestCompileCommandFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hxsl")
	if err := os.WriteFile(path, []byte("namespace N;\nTexture2D t;\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, errOut, err := runCLI(t, "compile", "--ui=off", "--color=off", "--no-cache", "--diag-format=pretty", path)
	if err == nil {
		t.Fatalf("unresolved type accepted")
	}
	if !strings.Contains(errOut, "SEM3001") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("bad mode accepted")
	}
}

func TestWatchRelevant(t *testing.T) {
	dir := t.TempDir()
	shader := filepath.Join(dir, "a.hxsl")
	files := map[string]struct{}{cleanAbs(shader): {}}
	if !relevant(fsnotify.Event{Name: shader, Op: fsnotify.Write}, files) {
		t.Fatalf("write to watched shader ignored")
	}
	if relevant(fsnotify.Event{Name: shader, Op: fsnotify.Chmod}, files) {
		t.Fatalf("chmod triggered a rebuild")
	}
	if relevant(fsnotify.Event{Name: filepath.Join(dir, "b.hxsl"), Op: fsnotify.Write}, files) {
		t.Fatalf("unrelated file triggered a rebuild")
	}
}
