package module

import "strings"

// Stage is a pipeline stage a pass can bind.
type Stage uint8

const (
	StageVertex Stage = iota
	StageHull
	StageDomain
	StageGeometry
	StagePixel
	StageCompute
	stageCount
)

var stageNames = [...]string{
	StageVertex:   "vertex",
	StageHull:     "hull",
	StageDomain:   "domain",
	StageGeometry: "geometry",
	StagePixel:    "pixel",
	StageCompute:  "compute",
}

func (s Stage) String() string {
	if s >= stageCount {
		return "unknown"
	}
	return stageNames[s]
}

// Stages lists every stage in pipeline order.
func Stages() []Stage {
	out := make([]Stage, 0, stageCount)
	for s := StageVertex; s < stageCount; s++ {
		out = append(out, s)
	}
	return out
}

// ParseStage accepts the stage name case-insensitively; "fragment" is pixel.
func ParseStage(name string) (Stage, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "fragment" {
		return StagePixel, true
	}
	for s := StageVertex; s < stageCount; s++ {
		if stageNames[s] == name {
			return s, true
		}
	}
	return stageCount, false
}

// ParseEntryPoint splits "Shader.Function".
func ParseEntryPoint(s string) (EntryPoint, bool) {
	shader, fn, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || shader == "" || fn == "" || strings.Contains(fn, ".") {
		return EntryPoint{}, false
	}
	return EntryPoint{Shader: shader, Function: fn}, true
}
