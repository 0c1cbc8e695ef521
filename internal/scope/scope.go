// Package scope implements lexical scoping and the bounded call stack:
// Cell (a shared mutable value slot), Scope (a declare-once name table),
// ScopeManager (an ordered, non-empty list of scopes within one call), and
// Stack (an ordered, non-empty list of call frames capped at 500).
package scope

import (
	"fmt"

	"github.com/misat1505/tkom-sub000/internal/value"
)

// MaxFrames bounds the call stack; the 500th push (making len==501) fails
// with StackOverflow — equivalently, depths up to 499 additional calls
// beyond the top-level frame succeed, the 500th does not.
const MaxFrames = 500

// Cell is a shared mutable value slot. Reference-passed arguments alias an
// existing cell; value-passed arguments get a fresh one holding a copy.
type Cell struct {
	value value.Value
}

// NewCell wraps v in a fresh cell.
func NewCell(v value.Value) *Cell {
	return &Cell{value: v}
}

// Get returns the cell's current value.
func (c *Cell) Get() value.Value {
	return c.value
}

// Set replaces the cell's value in place, preserving identity — callers
// that hold the same *Cell (via a reference parameter) observe the write.
func (c *Cell) Set(v value.Value) {
	c.value = v
}

// Scope is a single-level name-to-cell mapping, declared-once-per-name.
type Scope struct {
	vars map[string]*Cell
}

func newScope() *Scope {
	return &Scope{vars: make(map[string]*Cell)}
}

func (s *Scope) lookup(name string) (*Cell, bool) {
	c, ok := s.vars[name]
	return c, ok
}

func (s *Scope) declare(name string, cell *Cell) error {
	if _, exists := s.vars[name]; exists {
		return fmt.Errorf("cannot redeclare variable '%s'", name)
	}
	s.vars[name] = cell
	return nil
}

// ScopeManager owns an ordered, non-empty list of scopes for one call
// frame, innermost last.
type ScopeManager struct {
	scopes []*Scope
}

// NewScopeManager starts with a single root scope.
func NewScopeManager() *ScopeManager {
	return &ScopeManager{scopes: []*Scope{newScope()}}
}

// PushScope opens a new innermost scope.
func (m *ScopeManager) PushScope() {
	m.scopes = append(m.scopes, newScope())
}

// PopScope closes the innermost scope.
func (m *ScopeManager) PopScope() {
	if len(m.scopes) > 0 {
		m.scopes = m.scopes[:len(m.scopes)-1]
	}
}

// Declare binds name to cell in the innermost scope. It fails if that
// scope already declares name — shadowing a name from an outer scope is
// allowed, redeclaring within the same scope is not.
func (m *ScopeManager) Declare(name string, cell *Cell) error {
	innermost := m.scopes[len(m.scopes)-1]
	return innermost.declare(name, cell)
}

// Get returns the cell bound to name in the innermost scope that declares
// it, searching outward.
func (m *ScopeManager) Get(name string) (*Cell, error) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if c, ok := m.scopes[i].lookup(name); ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("variable '%s' not declared in this scope", name)
}

// Assign finds the innermost declaration of name and replaces its value in
// place, preserving cell identity. The new value's kind must match the
// cell's current kind.
func (m *ScopeManager) Assign(name string, v value.Value) error {
	cell, err := m.Get(name)
	if err != nil {
		return err
	}
	if cell.Get().Kind() != v.Kind() {
		return fmt.Errorf("cannot assign '%s' to variable '%s' which was previously declared as '%s'", v.Kind(), name, cell.Get().Kind())
	}
	cell.Set(v)
	return nil
}

// Len reports the number of open scopes.
func (m *ScopeManager) Len() int {
	return len(m.scopes)
}

// StackFrame is the per-call container of scopes.
type StackFrame struct {
	Scopes *ScopeManager
}

func newStackFrame() *StackFrame {
	return &StackFrame{Scopes: NewScopeManager()}
}

// Stack owns an ordered, non-empty list of stack frames, capped at
// MaxFrames. All scope operations delegate to the top frame only —
// cross-frame access is forbidden, so a callee never closes over a
// caller's locals.
type Stack struct {
	frames []*StackFrame
}

// NewStack starts with a single top-level frame.
func NewStack() *Stack {
	return &Stack{frames: []*StackFrame{newStackFrame()}}
}

// PushFrame adds a new call frame, failing with an error once MaxFrames is
// reached.
func (s *Stack) PushFrame() error {
	if len(s.frames) >= MaxFrames {
		return fmt.Errorf("stack overflow")
	}
	s.frames = append(s.frames, newStackFrame())
	return nil
}

// PopFrame removes the top call frame.
func (s *Stack) PopFrame() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *Stack) top() *StackFrame {
	return s.frames[len(s.frames)-1]
}

func (s *Stack) PushScope() { s.top().Scopes.PushScope() }
func (s *Stack) PopScope()  { s.top().Scopes.PopScope() }

func (s *Stack) Declare(name string, cell *Cell) error { return s.top().Scopes.Declare(name, cell) }
func (s *Stack) Get(name string) (*Cell, error)        { return s.top().Scopes.Get(name) }
func (s *Stack) Assign(name string, v value.Value) error {
	return s.top().Scopes.Assign(name, v)
}

// Depth reports the number of active call frames.
func (s *Stack) Depth() int {
	return len(s.frames)
}
