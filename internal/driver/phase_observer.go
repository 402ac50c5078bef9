package driver

import "time"

// Stage identifies a step of checking one file.
type Stage uint8

const (
	StageLoad Stage = iota
	StageCache
	StageParse
	StageDiagnose
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageCache:
		return "cache"
	case StageParse:
		return "parse"
	case StageDiagnose:
		return "diagnose"
	}
	return "unknown"
}

// Status reports where a file is within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is a progress notification. An empty File means the event concerns
// the whole run.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Cached is set on StatusDone when the result came from the disk cache.
	Cached bool
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
