package jobs

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"converti/internal/formats"
)

// ErrBusy is returned by Submit while another job is in flight.
var ErrBusy = errors.New("a conversion is already running")

// Status strings shown to the user.
const (
	StatusWorking    = "Work in progress..."
	StatusSuccessFmt = "Success : %s"
	StatusError      = "Error"
	StatusSelect     = "Please select a file and a format."
)

// State is the runner lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventType identifies a runner event.
type EventType int

const (
	EventStarted EventType = iota + 1
	EventSucceeded
	EventFailed
	EventIdle
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventIdle:
		return "idle"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is posted on the runner's event channel.
type Event struct {
	Type  EventType
	JobID string
	State State
	// Status is the short line a presentation layer shows.
	Status string
	// Detail carries the failure message on EventFailed.
	Detail    string
	ErrorKind string
	// ControlsEnabled is false while a job is in flight.
	ControlsEnabled bool
	// Result is set on EventSucceeded and EventFailed.
	Result *Result
	At     time.Time
}

// Job is one conversion request. It is consumed exactly once.
type Job struct {
	ID          string
	InputPath   string
	Category    formats.Category
	Output      formats.OutputSpec
	SubmittedAt time.Time
}

// NewJob returns a Job with a fresh identifier.
func NewJob(inputPath string, category formats.Category, output formats.OutputSpec) Job {
	return Job{
		ID:          uuid.NewString(),
		InputPath:   inputPath,
		Category:    category,
		Output:      output,
		SubmittedAt: time.Now(),
	}
}

// Result is the outcome of a finished job.
type Result struct {
	JobID      string
	OutputPath string
	ErrorKind  string
	Message    string
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether the job produced its output.
func (r Result) Succeeded() bool { return r.Err == nil }

// Duration is the wall time spent in the engine.
func (r Result) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SuccessStatus formats the success line for outputPath.
func SuccessStatus(outputPath string) string {
	return fmt.Sprintf(StatusSuccessFmt, filepath.Base(outputPath))
}
