package driver

import "time"

// ShaderStatus is the state a shader compile reports to an Observer.
type ShaderStatus int

const (
	ShaderQueued ShaderStatus = iota
	ShaderStarted
	ShaderDone
	ShaderCached
	ShaderFailed
)

func (s ShaderStatus) String() string {
	switch s {
	case ShaderQueued:
		return "queued"
	case ShaderStarted:
		return "compiling"
	case ShaderDone:
		return "done"
	case ShaderCached:
		return "cached"
	case ShaderFailed:
		return "failed"
	}
	return "unknown"
}

// ShaderEvent describes one status change.
type ShaderEvent struct {
	Module  string
	Shader  string
	Status  ShaderStatus
	Elapsed time.Duration
}

// Observer receives shader events. Build calls it from worker goroutines.
type Observer func(ShaderEvent)
