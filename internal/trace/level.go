package trace

import (
	"fmt"
	"strings"
)

// Level controls how much is traced.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // кольцо в памяти, дамп при сбое
	LevelPhase        // driver + module
	LevelDetail       // + shader и фазы
	LevelDebug        // всё, включая объявления
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError:
		// кольцо пишет всё до фаз; наружу попадает только дамп
		return scope <= ScopePhase
	case LevelPhase:
		return scope <= ScopeModule
	case LevelDetail:
		return scope <= ScopePhase
	case LevelDebug:
		return true
	default:
		return false
	}
}
