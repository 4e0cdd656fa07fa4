package arith

import "github.com/ripl-lang/ripl/ir"

// Monotonic classifies how an expression's value trends as a chosen
// variable increases. Booleans are ordered false < true.
type Monotonic int

const (
	// Constant means the value does not change with the variable.
	Constant Monotonic = iota
	// Increasing means the value never decreases as the variable grows.
	Increasing
	// Decreasing means the value never increases as the variable grows.
	Decreasing
	// Unknown means no trend could be established.
	Unknown
)

func (m Monotonic) String() string {
	switch m {
	case Constant:
		return "Constant"
	case Increasing:
		return "Increasing"
	case Decreasing:
		return "Decreasing"
	}
	return "Unknown"
}

func flip(m Monotonic) Monotonic {
	switch m {
	case Increasing:
		return Decreasing
	case Decreasing:
		return Increasing
	}
	return m
}

// unify combines the trends of two summands.
func unify(a, b Monotonic) Monotonic {
	switch {
	case a == Unknown || b == Unknown:
		return Unknown
	case a == Constant:
		return b
	case b == Constant:
		return a
	case a == b:
		return a
	}
	return Unknown
}

// scale adjusts a trend for multiplication by a constant of the given sign.
func scale(m Monotonic, sign int64) Monotonic {
	switch {
	case sign > 0:
		return m
	case sign < 0:
		return flip(m)
	}
	return Constant
}

// Classify reports the monotonicity of e with respect to the variable v.
// The answer is conservative: Unknown whenever the trend cannot be
// established structurally.
func Classify(e ir.Expr, v string) Monotonic {
	switch e := e.(type) {
	case *ir.IntImm, *ir.BoolImm:
		return Constant
	case *ir.Variable:
		if e.Name == v {
			return Increasing
		}
		return Constant
	case *ir.Likely:
		return Classify(e.X, v)
	case *ir.Not:
		return flip(Classify(e.X, v))
	case *ir.Select:
		if Classify(e.Cond, v) != Constant {
			return Unknown
		}
		return unify(Classify(e.Then, v), Classify(e.Else, v))
	case *ir.LetExpr:
		return Classify(ir.SubstituteExpr(e.Body, e.Name, e.Value), v)
	case *ir.BinOp:
		cx, cy := Classify(e.X, v), Classify(e.Y, v)
		switch e.Op {
		case ir.OpAdd, ir.OpMin, ir.OpMax, ir.OpAnd, ir.OpOr:
			return unify(cx, cy)
		case ir.OpSub:
			return unify(cx, flip(cy))
		case ir.OpMul:
			if c, ok := constValue(e.Y); ok {
				return scale(cx, sign(c))
			}
			if c, ok := constValue(e.X); ok {
				return scale(cy, sign(c))
			}
			if cx == Constant && cy == Constant {
				return Constant
			}
			return Unknown
		case ir.OpDiv:
			if c, ok := constValue(e.Y); ok && c != 0 {
				return scale(cx, sign(c))
			}
			if cx == Constant && cy == Constant {
				return Constant
			}
			return Unknown
		case ir.OpMod:
			if cx == Constant && cy == Constant {
				return Constant
			}
			return Unknown
		case ir.OpEQ, ir.OpNE:
			if cx == Constant && cy == Constant {
				return Constant
			}
			return Unknown
		case ir.OpLT, ir.OpLE:
			// x <= y grows truer as y grows or x shrinks.
			return unify(flip(cx), cy)
		case ir.OpGT, ir.OpGE:
			return unify(cx, flip(cy))
		}
	}
	return Unknown
}

func sign(c int64) int64 {
	switch {
	case c > 0:
		return 1
	case c < 0:
		return -1
	}
	return 0
}
