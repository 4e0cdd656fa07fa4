package scope

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/ripl-lang/ripl/ir"
)

func TestScopeShadowing(t *testing.T) {
	s := New()
	s.Push("x", ir.Int(1))
	s.Push("y", ir.Int(2))
	s.Push("x", ir.Int(3))
	if v, ok := s.Get("x"); !ok || !ir.Equal(v, ir.Int(3)) {
		t.Errorf("innermost binding should win, got %v", v)
	}
	if err := s.Pop("x"); err != nil {
		t.Fatalf("pop x: %v", err)
	}
	if v, ok := s.Get("x"); !ok || !ir.Equal(v, ir.Int(1)) {
		t.Errorf("outer binding should reappear after pop, got %v", v)
	}
}

func TestScopePopEmpty(t *testing.T) {
	s := New()
	if err := s.Pop("x"); errors.Cause(err) != ErrEmptyScope {
		t.Errorf("expected ErrEmptyScope, got %v", err)
	}
}

func TestScopeMismatchedPop(t *testing.T) {
	s := New()
	s.Push("x", ir.Int(1))
	if err := s.Pop("y"); errors.Cause(err) != ErrMismatchedPop {
		t.Errorf("expected ErrMismatchedPop, got %v", err)
	}
	// The failed pop must leave the binding intact.
	if !s.Contains("x") {
		t.Errorf("mismatched pop should not remove bindings")
	}
}

func TestScopeBind(t *testing.T) {
	s := New()
	pop := s.Bind("v", ir.Var("v.loop_min"))
	if !s.Contains("v") {
		t.Fatalf("Bind should push the binding")
	}
	pop()
	if !s.IsEmpty() {
		t.Errorf("the returned pop should remove the binding")
	}
}

func TestScopeGetMissing(t *testing.T) {
	s := New()
	if _, ok := s.Get("nope"); ok {
		t.Errorf("lookup of an unbound name should report false")
	}
}
