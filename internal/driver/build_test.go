package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"hxsl/internal/compiler"
	"hxsl/internal/diag"
	"hxsl/internal/project"
)

const litModule = `module Lit "1.0.0";
property float4 Tint;

shader Main {
	namespace Lit;
	struct V { float4 pos : SV_Position; };
	@Tint;
	V VS(float4 p : POSITION) { V o; return o; }
}

shader Broken {
	namespace B;
	Texture2D t;
}
`

func writeModule(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildModule(t *testing.T) {
	path := writeModule(t, "lit.hxsl", litModule)
	sess := compiler.NewSession(nil, compiler.Options{})

	var (
		mu     sync.Mutex
		events = map[ShaderStatus]int{}
	)
	res, err := Build(context.Background(), sess, path, BuildOptions{
		Jobs: 2,
		Observer: func(ev ShaderEvent) {
			mu.Lock()
			events[ev.Status]++
			mu.Unlock()
		},
		Timings: true,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer res.Release()

	if len(res.Shaders) != 2 || !res.Failed() {
		t.Fatalf("shaders = %d, failed = %v", len(res.Shaders), res.Failed())
	}
	main := res.Shaders[0]
	if main.Err != nil || main.Result == nil || main.Result.Compilation == nil {
		t.Fatalf("Main: %v", main.Err)
	}
	s := main.Summary
	if !slices.Equal(s.Namespaces, []string{"Lit"}) || s.Structs != 1 || s.Fields != 1 ||
		!slices.Equal(s.Functions, []string{"Lit.VS"}) || s.Bound != 3 || !slices.Equal(s.Links, []string{"Tint"}) {
		t.Fatalf("summary = %+v", s)
	}
	broken := res.Shaders[1]
	if !errors.Is(broken.Err, diag.ErrBinding) || broken.Result.Compilation != nil {
		t.Fatalf("Broken: %v", broken.Err)
	}
	if events[ShaderQueued] != 2 || events[ShaderStarted] != 2 || events[ShaderDone] != 1 || events[ShaderFailed] != 1 {
		t.Fatalf("events = %v", events)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.ObsTimings {
		t.Fatalf("module bag = %+v", res.Bag.Items())
	}
	if res.Timings.Phases[0].Name != "load" {
		t.Fatalf("phases = %+v", res.Timings.Phases)
	}
}

func TestBuildCacheRoundTrip(t *testing.T) {
	path := writeModule(t, "lit.hxsl", litModule)
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := BuildOptions{Cache: cache}
	copts := compiler.Options{AllowUnresolved: true}

	first, err := Build(context.Background(), compiler.NewSession(nil, copts), path, opts)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	first.Release()
	if first.Shaders[0].Cached || first.Failed() {
		t.Fatalf("first build: cached=%v failed=%v", first.Shaders[0].Cached, first.Failed())
	}

	second, err := Build(context.Background(), compiler.NewSession(nil, copts), path, opts)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	for i, sh := range second.Shaders {
		if !sh.Cached || sh.Result != nil {
			t.Fatalf("%s not served from cache", sh.Name)
		}
		if !slices.Equal(sh.Summary.Functions, first.Shaders[i].Summary.Functions) || sh.Summary.Bound != first.Shaders[i].Summary.Bound {
			t.Fatalf("%s summary = %+v, want %+v", sh.Name, sh.Summary, first.Shaders[i].Summary)
		}
	}
	// предупреждение о Texture2D восстановлено с тем же смещением
	got, want := second.Shaders[1].Bag.Items(), first.Shaders[1].Bag.Items()
	if len(got) != 1 || got[0].Code != diag.SemaUnresolvedType || got[0].Primary.Start != want[0].Primary.Start {
		t.Fatalf("restored = %+v, want %+v", got, want)
	}
	if got[0].Primary.File != second.Shaders[1].File.ID {
		t.Fatalf("restored span points at file %d", got[0].Primary.File)
	}

	// другие опции: другой ключ
	third, err := Build(context.Background(), compiler.NewSession(nil, compiler.Options{}), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer third.Release()
	if third.Shaders[1].Cached || third.Shaders[1].Err == nil {
		t.Fatalf("strict build reused the lenient cache entry")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	var p DiskPayload
	if ok, err := cache.Get(ShaderKey(second.Module, &second.Module.Shaders[0], copts), &p); ok || err != nil {
		t.Fatalf("entry survived DropAll: %v %v", ok, err)
	}
}

func TestCachedFailureKeepsFaultText(t *testing.T) {
	path := writeModule(t, "lit.hxsl", litModule)
	opts := BuildOptions{Cache: NewMemoryCache(4)}
	first, err := Build(context.Background(), compiler.NewSession(nil, compiler.Options{}), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	first.Release()
	second, err := Build(context.Background(), compiler.NewSession(nil, compiler.Options{}), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	b := second.Shaders[1]
	if !b.Cached || !b.Failed() || b.Err.Error() != first.Shaders[1].Err.Error()+" (cached)" {
		t.Fatalf("cached failure = %v", b.Err)
	}
}

func TestLayeredCache(t *testing.T) {
	disk, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.HashString("k")
	if err := disk.Put(key, &DiskPayload{Shader: "Main"}); err != nil {
		t.Fatal(err)
	}
	mem := NewMemoryCache(1)
	c := Layered(mem, disk)
	var p DiskPayload
	if ok, err := c.Get(key, &p); !ok || err != nil || p.Shader != "Main" {
		t.Fatalf("Get = %v %v %+v", ok, err, p)
	}
	if mem.Len() != 1 {
		t.Fatalf("disk hit not promoted to memory")
	}
	if Layered(nil, nil) != nil || Layered(mem, nil) != ShaderCache(mem) {
		t.Fatalf("Layered collapse")
	}
}

func TestBuildAllChecksImports(t *testing.T) {
	common := writeModule(t, "common.hxsl", "module Common \"1.2.0\";\nshader S { namespace C; float x; }\n")
	good := writeModule(t, "a.hxsl", "module A;\nimport Common \"^1.0\";\nshader S { namespace A; float x; }\n")
	bad := writeModule(t, "b.hxsl", "module B;\nimport Common \"^2.0\";\nshader S { namespace B; float x; }\n")

	res, err := BuildAll(context.Background(), compiler.NewSession(nil, compiler.Options{}), []string{common, good}, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	for _, r := range res {
		r.Release()
	}
	if len(res) != 2 || res[1].Failed() {
		t.Fatalf("results = %d", len(res))
	}
	_, err = BuildAll(context.Background(), compiler.NewSession(nil, compiler.Options{}), []string{common, bad}, BuildOptions{})
	if err == nil {
		t.Fatalf("unsatisfied import accepted")
	}
}

func TestBuildCanceled(t *testing.T) {
	path := writeModule(t, "lit.hxsl", litModule)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, compiler.NewSession(nil, compiler.Options{}), path, BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenizePicksGrammar(t *testing.T) {
	mod := writeModule(t, "m.hxsl", litModule)
	res, err := Tokenize(mod, "", 10)
	if err != nil || res.Grammar.Name != "structural" {
		t.Fatalf("grammar = %q, %v", res.Grammar.Name, err)
	}
	sh := writeModule(t, "s.hxsl", "namespace N; float x;")
	res, err = Tokenize(sh, "", 10)
	if err != nil || res.Grammar.Name != "shader" || len(res.Tokens) != 7 {
		t.Fatalf("grammar = %q, tokens = %d, %v", res.Grammar.Name, len(res.Tokens), err)
	}
	if _, err := Tokenize(sh, "glsl", 10); err == nil {
		t.Fatalf("unknown grammar accepted")
	}
}

func TestParse(t *testing.T) {
	sh := writeModule(t, "s.hxsl", "namespace N; struct S { float2 uv; }; S value;")
	res, err := Parse(context.Background(), sh, compiler.Options{})
	if err != nil || res.Err != nil {
		t.Fatalf("Parse: %v / %v", err, res.Err)
	}
	defer res.Result.Release()
	if res.Result.Bind.Structs != 1 || res.Result.Bind.Primitives != 1 {
		t.Fatalf("bind = %+v", res.Result.Bind)
	}
	if _, err := Parse(context.Background(), writeModule(t, "m.hxsl", litModule), compiler.Options{}); !errors.Is(err, ErrModuleSource) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildRepositoryTestdata(t *testing.T) {
	root := filepath.Join("..", "..", "testdata")
	paths := []string{
		filepath.Join(root, "lit.hxsl"),
		filepath.Join(root, "common.hxsl"),
		filepath.Join(root, "unlit", "unlit.toml"),
	}
	sess := compiler.NewSession(nil, compiler.Options{})
	results, err := BuildAll(context.Background(), sess, paths, BuildOptions{Jobs: 4})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	defer func() {
		for _, r := range results {
			r.Release()
		}
	}()
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for _, r := range results {
		for _, sh := range r.Shaders {
			if sh.Failed() {
				t.Fatalf("%s/%s failed: %v", r.Module.Name, sh.Name, sh.Err)
			}
		}
	}
	lit := results[0]
	if lit.Module.Name != "Lit" || len(lit.Shaders) != 2 || len(lit.Module.Passes) != 2 {
		t.Fatalf("Lit = %+v", lit.Module)
	}
	if got := lit.Shaders[0].Summary.Links; !slices.Equal(got, []string{"Tint", "Roughness"}) {
		t.Fatalf("Lit/Main links = %v", got)
	}
	if got := lit.Shaders[1].Summary.Functions; !slices.Equal(got, []string{"Lit.Shadow.VSMain"}) {
		t.Fatalf("Lit/Shadow functions = %v", got)
	}
	unlit := results[2]
	if unlit.Module.Name != "Unlit" || !slices.Equal(unlit.Shaders[0].Summary.Links, []string{"Color"}) {
		t.Fatalf("Unlit = %+v", unlit.Shaders[0].Summary)
	}

	// сломанный файл: лексическая ошибка и неизвестный тип
	broken, err := Build(context.Background(), sess, filepath.Join(root, "broken.hxsl"), BuildOptions{})
	if err != nil {
		t.Fatalf("Build broken: %v", err)
	}
	defer broken.Release()
	if !broken.Failed() {
		t.Fatalf("broken.hxsl compiled")
	}
}
