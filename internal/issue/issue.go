// Package issue models positioned, leveled diagnostics produced by every
// phase of the pipeline (reader, lexer, parser, semantic checker,
// interpreter, ALU).
package issue

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/misat1505/tkom-sub000/internal/position"
)

// Level distinguishes a fatal finding from one that does not itself stop
// the run. The SemanticChecker today only ever emits ERROR, but the field
// is load-bearing for any future check that wants to warn instead of fail.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// Phase names the pipeline stage that produced an issue.
type Phase string

const (
	PhaseRead     Phase = "read"
	PhaseLex      Phase = "lex"
	PhaseParse    Phase = "parse"
	PhaseSemantic Phase = "semantic"
	PhaseRuntime  Phase = "runtime"
	PhaseCompute  Phase = "compute"
)

// Issue is a single diagnostic: a phase, a level, a human-readable message
// and the position of the construct that triggered it.
type Issue struct {
	Phase    Phase
	Level    Level
	Message  string
	Position position.Position
	cause    error
}

// New builds an Issue with no underlying cause.
func New(phase Phase, level Level, pos position.Position, format string, args ...interface{}) *Issue {
	return &Issue{
		Phase:    phase,
		Level:    level,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	}
}

// Wrap attaches a position suffix to an existing error, preserving it as
// the cause for errors.Is/errors.As unwrapping.
func Wrap(phase Phase, pos position.Position, cause error, format string, args ...interface{}) *Issue {
	return &Issue{
		Phase:    phase,
		Level:    LevelError,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		cause:    errors.Wrap(cause, fmt.Sprintf(format, args...)),
	}
}

// Error implements the error interface: "<message> At <position>."
func (i *Issue) Error() string {
	return fmt.Sprintf("%s At %s.", i.Message, i.Position)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (i *Issue) Unwrap() error {
	return i.cause
}

// List accumulates issues across a single read-only pass (the
// SemanticChecker never stops at the first finding).
type List struct {
	items []*Issue
}

// Add appends an issue to the list.
func (l *List) Add(i *Issue) {
	l.items = append(l.items, i)
}

// Items returns the accumulated issues in the order they were added.
func (l *List) Items() []*Issue {
	return l.items
}

// HasErrors reports whether any accumulated issue is at LevelError.
func (l *List) HasErrors() bool {
	for _, i := range l.items {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}

// Len reports the number of accumulated issues.
func (l *List) Len() int {
	return len(l.items)
}
