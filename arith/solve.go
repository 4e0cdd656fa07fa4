package arith

import "github.com/ripl-lang/ripl/ir"

// Interval is a symbolic [Min, Max] range. A nil bound is unbounded in that
// direction.
type Interval struct {
	Min, Max ir.Expr
}

// Everything returns the unbounded interval.
func Everything() Interval { return Interval{} }

// Point returns the interval containing exactly e.
func Point(e ir.Expr) Interval { return Interval{Min: e, Max: e} }

// HasLowerBound reports whether the interval is bounded below.
func (i Interval) HasLowerBound() bool { return i.Min != nil }

// HasUpperBound reports whether the interval is bounded above.
func (i Interval) HasUpperBound() bool { return i.Max != nil }

// IsSinglePoint reports whether the interval provably contains exactly one
// value.
func (i Interval) IsSinglePoint() bool {
	return i.Min != nil && i.Max != nil && ir.Equal(i.Min, i.Max)
}

// SolveFor isolates unknown in the equation eq (which must compare two
// integer expressions for equality) and returns the interval of solutions.
// A unique solution comes back as a single-point interval. Whenever the
// equation is not linear in the unknown, or the unknown's coefficient is
// not a unit, the solver gives up and returns the unbounded interval; an
// unbounded answer never means "no solution exists".
func SolveFor(eq ir.Expr, unknown string) Interval {
	bin, ok := eq.(*ir.BinOp)
	if !ok || bin.Op != ir.OpEQ {
		return Everything()
	}
	var d form
	linearise(bin.X, 1, &d)
	linearise(bin.Y, -1, &d)
	d.compact()

	// Pull out the unknown's coefficient. If the unknown also hides inside
	// an opaque atom the equation is not linear in it.
	var coeff int64
	rest := form{c: d.c}
	for _, t := range d.terms {
		if v, isVar := t.atom.(*ir.Variable); isVar && v.Name == unknown {
			coeff += t.coeff
			continue
		}
		if ir.UsesVar(t.atom, unknown) {
			return Everything()
		}
		rest.addTerm(t.atom, t.coeff)
	}
	if coeff != 1 && coeff != -1 {
		return Everything()
	}
	// coeff*unknown + rest == 0, so unknown == -rest/coeff.
	if coeff == 1 {
		neg := form{c: -rest.c}
		for _, t := range rest.terms {
			neg.addTerm(t.atom, -t.coeff)
		}
		rest = neg
	}
	rest.compact()
	return Point(rest.rebuild())
}
