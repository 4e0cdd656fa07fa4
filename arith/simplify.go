package arith

import "github.com/ripl-lang/ripl/ir"

// Simplify returns a canonical form of e: constants folded, linear terms
// gathered, comparisons between expressions with a constant difference
// folded to literals. It never changes the value of the expression.
func Simplify(e ir.Expr) ir.Expr {
	switch e := e.(type) {
	case *ir.BoolImm:
		return e
	case *ir.Not:
		x := Simplify(e.X)
		if b, ok := x.(*ir.BoolImm); ok {
			return ir.Bool(!b.Value)
		}
		if n, ok := x.(*ir.Not); ok {
			return n.X
		}
		if x == e.X {
			return e
		}
		return &ir.Not{X: x}
	case *ir.Select:
		cond := Simplify(e.Cond)
		if b, ok := cond.(*ir.BoolImm); ok {
			if b.Value {
				return Simplify(e.Then)
			}
			return Simplify(e.Else)
		}
		then, els := Simplify(e.Then), Simplify(e.Else)
		if cond == e.Cond && then == e.Then && els == e.Else {
			return e
		}
		return &ir.Select{Cond: cond, Then: then, Else: els}
	case *ir.Likely:
		x := Simplify(e.X)
		if x == e.X {
			return e
		}
		return &ir.Likely{X: x}
	case *ir.LetExpr:
		value, body := Simplify(e.Value), Simplify(e.Body)
		if value == e.Value && body == e.Body {
			return e
		}
		return &ir.LetExpr{Name: e.Name, Value: value, Body: body}
	case *ir.BinOp:
		switch e.Op {
		case ir.OpAnd:
			x, y := Simplify(e.X), Simplify(e.Y)
			if b, ok := x.(*ir.BoolImm); ok {
				if !b.Value {
					return ir.Bool(false)
				}
				return y
			}
			if b, ok := y.(*ir.BoolImm); ok {
				if !b.Value {
					return ir.Bool(false)
				}
				return x
			}
			return rebuildBin(e, x, y)
		case ir.OpOr:
			x, y := Simplify(e.X), Simplify(e.Y)
			if b, ok := x.(*ir.BoolImm); ok {
				if b.Value {
					return ir.Bool(true)
				}
				return y
			}
			if b, ok := y.(*ir.BoolImm); ok {
				if b.Value {
					return ir.Bool(true)
				}
				return x
			}
			return rebuildBin(e, x, y)
		case ir.OpEQ, ir.OpNE, ir.OpLT, ir.OpLE, ir.OpGT, ir.OpGE:
			// Fold when the two sides differ by a constant.
			var d form
			linearise(e.X, 1, &d)
			linearise(e.Y, -1, &d)
			d.compact()
			if d.isConst() {
				return ir.Bool(compareConst(e.Op, d.c))
			}
			return rebuildBin(e, Simplify(e.X), Simplify(e.Y))
		}
	}
	// Arithmetic: gather into a linear form and rebuild canonically.
	var f form
	linearise(e, 1, &f)
	f.compact()
	out := f.rebuild()
	if ir.Equal(out, e) {
		return e
	}
	return out
}

func rebuildBin(e *ir.BinOp, x, y ir.Expr) ir.Expr {
	if x == e.X && y == e.Y {
		return e
	}
	return &ir.BinOp{Op: e.Op, X: x, Y: y}
}

// compareConst evaluates <0 op 0> shifted by c, i.e. the comparison whose
// linear difference (lhs - rhs) folded to the constant c.
func compareConst(op ir.Op, c int64) bool {
	switch op {
	case ir.OpEQ:
		return c == 0
	case ir.OpNE:
		return c != 0
	case ir.OpLT:
		return c < 0
	case ir.OpLE:
		return c <= 0
	case ir.OpGT:
		return c > 0
	case ir.OpGE:
		return c >= 0
	}
	return false
}

// simplifyOpaque canonicalises a subtree that does not linearise (min, max,
// division, select, ...) so it can serve as an atom of a linear form.
func simplifyOpaque(e ir.Expr) ir.Expr {
	bin, ok := e.(*ir.BinOp)
	if !ok {
		return Simplify(e)
	}
	switch bin.Op {
	case ir.OpMul:
		// Neither operand folded to a constant, so the product stays opaque.
		return rebuildBin(bin, Simplify(bin.X), Simplify(bin.Y))
	case ir.OpMin, ir.OpMax:
		x, y := Simplify(bin.X), Simplify(bin.Y)
		// If the two sides differ by a constant one of them always wins.
		var d form
		linearise(x, 1, &d)
		linearise(y, -1, &d)
		d.compact()
		if d.isConst() {
			xWins := d.c <= 0
			if bin.Op == ir.OpMax {
				xWins = d.c >= 0
			}
			if xWins {
				return x
			}
			return y
		}
		return rebuildBin(bin, x, y)
	case ir.OpDiv:
		x, y := Simplify(bin.X), Simplify(bin.Y)
		cx, okx := constValue(x)
		cy, oky := constValue(y)
		if okx && oky && cy != 0 {
			return ir.Int(floorDiv(cx, cy))
		}
		if oky && cy == 1 {
			return x
		}
		return rebuildBin(bin, x, y)
	case ir.OpMod:
		x, y := Simplify(bin.X), Simplify(bin.Y)
		cx, okx := constValue(x)
		cy, oky := constValue(y)
		if okx && oky && cy != 0 {
			return ir.Int(floorMod(cx, cy))
		}
		return rebuildBin(bin, x, y)
	}
	return Simplify(e)
}

// Division rounds toward negative infinity, matching the semantics the rest
// of the pipeline lowers to.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
