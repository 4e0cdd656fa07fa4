// Package arith implements the algebraic collaborators the scheduling
// passes lean on: a simplifier, a monotonicity classifier, a conservative
// prover and an interval equation solver.
//
// Everything here works over linear normal forms. An expression is flattened
// to sum(coeff_i * atom_i) + constant where an atom is either a variable or
// an opaque subtree (min, select, division, ...) this package does not look
// inside. All answers are conservative: when an expression does not
// linearise cleanly the classifier says Unknown, the prover says false and
// the solver reports an unbounded interval.
package arith

import "github.com/ripl-lang/ripl/ir"

// term is one coeff*atom summand of a linear form.
type term struct {
	atom  ir.Expr
	coeff int64
}

// form is a linear normal form: sum of terms plus a constant.
type form struct {
	terms []term
	c     int64
}

func (f *form) addTerm(atom ir.Expr, coeff int64) {
	if coeff == 0 {
		return
	}
	if v, ok := atom.(*ir.Variable); ok {
		for i := range f.terms {
			if tv, ok := f.terms[i].atom.(*ir.Variable); ok && tv.Name == v.Name {
				f.terms[i].coeff += coeff
				return
			}
		}
	} else {
		for i := range f.terms {
			if ir.Equal(f.terms[i].atom, atom) {
				f.terms[i].coeff += coeff
				return
			}
		}
	}
	f.terms = append(f.terms, term{atom: atom, coeff: coeff})
}

func (f *form) add(other form, scale int64) {
	f.c += other.c * scale
	for _, t := range other.terms {
		f.addTerm(t.atom, t.coeff*scale)
	}
}

// compact drops cancelled terms.
func (f *form) compact() {
	kept := f.terms[:0]
	for _, t := range f.terms {
		if t.coeff != 0 {
			kept = append(kept, t)
		}
	}
	f.terms = kept
}

// isConst reports whether the form has no remaining terms.
func (f *form) isConst() bool { return len(f.terms) == 0 }

// usesVar reports whether name occurs in any atom (variable or opaque).
func (f *form) usesVar(name string) bool {
	for _, t := range f.terms {
		if ir.UsesVar(t.atom, name) {
			return true
		}
	}
	return false
}

// linearise flattens e into a linear form, scaled by scale. Opaque subtrees
// are simplified and kept as atoms.
func linearise(e ir.Expr, scale int64, f *form) {
	switch e := e.(type) {
	case *ir.IntImm:
		f.c += e.Value * scale
	case *ir.BinOp:
		switch e.Op {
		case ir.OpAdd:
			linearise(e.X, scale, f)
			linearise(e.Y, scale, f)
			return
		case ir.OpSub:
			linearise(e.X, scale, f)
			linearise(e.Y, -scale, f)
			return
		case ir.OpMul:
			if c, ok := constValue(e.Y); ok {
				linearise(e.X, scale*c, f)
				return
			}
			if c, ok := constValue(e.X); ok {
				linearise(e.Y, scale*c, f)
				return
			}
		}
		f.addAtom(simplifyOpaque(e), scale)
	case *ir.Variable:
		f.addTerm(e, scale)
	default:
		f.addAtom(simplifyOpaque(e), scale)
	}
}

// addAtom records a simplified opaque atom, folding it into the constant
// when simplification collapsed it to a literal.
func (f *form) addAtom(atom ir.Expr, scale int64) {
	if c, ok := atom.(*ir.IntImm); ok {
		f.c += c.Value * scale
		return
	}
	f.addTerm(atom, scale)
}

// constValue folds e to an integer if it is a constant expression.
func constValue(e ir.Expr) (int64, bool) {
	var f form
	linearise(e, 1, &f)
	f.compact()
	if f.isConst() {
		return f.c, true
	}
	return 0, false
}

// rebuild turns a linear form back into a canonical expression: terms in
// first-occurrence order, constant last, subtraction for negative summands.
func (f *form) rebuild() ir.Expr {
	var e ir.Expr
	for _, t := range f.terms {
		e = appendTerm(e, t)
	}
	switch {
	case e == nil:
		return ir.Int(f.c)
	case f.c > 0:
		return ir.Add(e, ir.Int(f.c))
	case f.c < 0:
		return ir.Sub(e, ir.Int(-f.c))
	}
	return e
}

func appendTerm(e ir.Expr, t term) ir.Expr {
	mag := t.coeff
	if mag < 0 {
		mag = -mag
	}
	scaled := t.atom
	if mag != 1 {
		scaled = ir.Mul(t.atom, ir.Int(mag))
	}
	switch {
	case e == nil && t.coeff > 0:
		return scaled
	case e == nil:
		return ir.Sub(ir.Int(0), scaled)
	case t.coeff > 0:
		return ir.Add(e, scaled)
	}
	return ir.Sub(e, scaled)
}
