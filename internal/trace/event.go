package trace

import "time"

// Kind of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Scope is the granularity of an event. Smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // одна команда CLI
	ScopeModule                  // загрузка и сборка модуля
	ScopeShader                  // компиляция одного шейдера
	ScopePhase                   // tokenize / parse / bind / link
	ScopeDecl                    // отдельное объявление
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopeModule: "module",
	ScopeShader: "shader",
	ScopePhase:  "phase",
	ScopeDecl:   "decl",
}

func (s Scope) String() string {
	if s == 0 || int(s) >= len(scopeNames) {
		return "unknown"
	}
	return scopeNames[s]
}

// Event is one record in the trace.
type Event struct {
	Time     time.Time
	Seq      uint64 // глобальный монотонный номер
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корневых span
	GID      uint64
	Name     string // "parse", "shader:Lit.Main", ...
	Detail   string
	Extra    map[string]string
}
