package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePhase, true},
		{LevelError, ScopeDecl, false},
		{LevelPhase, ScopeModule, true},
		{LevelPhase, ScopeShader, false},
		{LevelDetail, ScopePhase, true},
		{LevelDetail, ScopeDecl, false},
		{LevelDebug, ScopeDecl, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v", tt.level, tt.scope, got)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, sh := BeginCtx(ctx, ScopeShader, "shader:Main")
	_, ph := BeginCtx(ctx, ScopePhase, "parse")
	ph.WithExtra("tokens", "42").WithExtra("decls", "3").End("ok")
	sh.End("")
	// отфильтровано уровнем
	Begin(tr, ScopeDecl, "struct Foo", sh.ID()).End("")

	out := buf.String()
	if n := strings.Count(out, "\n"); n != 4 {
		t.Fatalf("want 4 events, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "← parse (ok) {decls=3, tokens=42}") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "struct Foo") {
		t.Fatalf("decl scope leaked at detail level")
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	root := Begin(tr, ScopeDriver, "compile", 0)
	Point(tr, ScopeDecl, "analyzer", "struct", root.ID())
	root.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d", len(lines))
	}
	var ev struct {
		Kind     string `json:"kind"`
		Scope    string `json:"scope"`
		ParentID uint64 `json:"parent_id"`
		Detail   string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Kind != "point" || ev.Scope != "decl" || ev.ParentID != root.ID() || ev.Detail != "struct" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestRingTracerWrapsInOrder(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopePhase, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if !(snap[0].Seq < snap[1].Seq && snap[1].Seq < snap[2].Seq) {
		t.Fatalf("seq not monotonic: %d %d %d", snap[0].Seq, snap[1].Seq, snap[2].Seq)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil || strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump = %q, %v", buf.String(), err)
	}
}

func TestNewLevelErrorIsRingOnly(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("tracer = %T, want *RingTracer", tr)
	}
	if tr, _ := New(Config{Level: LevelOff}); tr.Enabled() {
		t.Fatalf("off tracer is enabled")
	}
}

func TestMultiTracer(t *testing.T) {
	var buf bytes.Buffer
	m := NewMultiTracer(LevelDetail, NewStreamTracer(&buf, LevelDetail, FormatText), NewRingTracer(8, LevelDetail))
	Begin(m, ScopeModule, "module:Lit", 0).End("")
	if m.Ring() == nil || len(m.Ring().Snapshot()) != 2 {
		t.Fatalf("ring did not receive events")
	}
	if strings.Count(buf.String(), "module:Lit") != 2 {
		t.Fatalf("stream = %q", buf.String())
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNopSpanIsInert(t *testing.T) {
	s := Begin(FromContext(context.Background()), ScopeDriver, "x", 0)
	if s.ID() != 0 || s.End("") != 0 {
		t.Fatalf("nop span is live")
	}
	ctx := WithSpan(context.Background(), s)
	if ParentSpan(ctx) != 0 {
		t.Fatalf("inert span became a parent")
	}
}

func TestHeartbeat(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	if len(r.Snapshot()) == 0 || r.Snapshot()[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded")
	}
	var nilHB *Heartbeat
	nilHB.Stop()
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat on nop tracer")
	}
}
