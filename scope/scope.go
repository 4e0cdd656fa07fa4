// Package scope provides an ordered name-to-expression binding stack.
//
// A Scope mirrors the lexical let-nesting of a statement tree during a
// traversal: a binding is pushed when the traversal enters a let and popped
// when it leaves, so lookups always see the innermost binding of a name.
// Same-named re-bindings shadow outer ones for as long as they are on the
// stack.
package scope

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/pkg/errors"
	"github.com/ripl-lang/ripl/ir"
)

var (
	// ErrEmptyScope is returned when popping an empty scope.
	ErrEmptyScope = errors.New("error: empty scope")
	// ErrMismatchedPop is returned when a pop does not match the innermost
	// binding, i.e. the caller broke the LIFO discipline.
	ErrMismatchedPop = errors.New("error: mismatched pop")
)

type binding struct {
	name  string
	value ir.Expr
}

// Scope is a LIFO stack of name-to-expression bindings.
type Scope struct {
	logger *log.Logger
	s      []binding
}

// New creates an empty Scope.
func New() *Scope {
	return &Scope{
		logger: log.New(io.Discard, "scope: ", 0),
	}
}

// SetLog sets the debug output stream to w.
func (s *Scope) SetLog(w io.Writer) {
	if w != nil {
		s.logger.SetOutput(w)
	}
}

// Push adds a binding of name to value on top of the stack, shadowing any
// existing binding of the same name.
func (s *Scope) Push(name string, value ir.Expr) {
	s.s = append(s.s, binding{name: name, value: value})
	s.logger.Printf("push: %s ↦ %v", name, value)
}

// Pop removes the innermost binding, which must be for name.
func (s *Scope) Pop(name string) error {
	size := len(s.s)
	if size == 0 {
		return ErrEmptyScope
	}
	if s.s[size-1].name != name {
		return errors.Wrapf(ErrMismatchedPop, "pop %s, innermost is %s", name, s.s[size-1].name)
	}
	s.s = s.s[:size-1]
	s.logger.Printf("pop: %s", name)
	return nil
}

// Bind pushes a binding and returns the matching pop. Intended for use with
// defer; the returned func panics if the scope discipline was broken, which
// indicates a traversal bug.
func (s *Scope) Bind(name string, value ir.Expr) func() {
	s.Push(name, value)
	return func() {
		if err := s.Pop(name); err != nil {
			panic(err)
		}
	}
}

// Get returns the innermost value bound to name.
func (s *Scope) Get(name string) (ir.Expr, bool) {
	for i := len(s.s) - 1; i >= 0; i-- {
		if s.s[i].name == name {
			return s.s[i].value, true
		}
	}
	return nil, false
}

// Contains reports whether name is bound.
func (s *Scope) Contains(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// IsEmpty reports whether the scope has no bindings.
func (s *Scope) IsEmpty() bool { return len(s.s) == 0 }

func (s *Scope) String() string {
	var buf bytes.Buffer
	buf.WriteString("┌─────┄ name: value ┄──────\n")
	for i := len(s.s) - 1; i >= 0; i-- {
		buf.WriteString(fmt.Sprintf("│ %v:\t%v\n", s.s[i].name, s.s[i].value))
	}
	buf.WriteString("└──────────────────────────\n")
	return buf.String()
}
