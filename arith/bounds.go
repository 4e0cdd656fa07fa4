package arith

import "github.com/ripl-lang/ripl/ir"

// Bounds evaluates the interval e can span when each variable named in
// ranges varies over its interval. Variables without a range are kept
// symbolic in both bounds. The answer is conservative: expressions that are
// not linear in a ranged variable yield the unbounded interval.
func Bounds(e ir.Expr, ranges map[string]Interval) Interval {
	var f form
	linearise(e, 1, &f)
	f.compact()

	lower, upper := ir.Int(f.c), ir.Int(f.c)
	boundedLo, boundedHi := true, true
	for _, t := range f.terms {
		v, isVar := t.atom.(*ir.Variable)
		if isVar {
			if r, ok := ranges[v.Name]; ok {
				lo, hi := r.Min, r.Max
				if t.coeff < 0 {
					lo, hi = hi, lo
				}
				if lo == nil {
					boundedLo = false
				} else if boundedLo {
					lower = addScaled(lower, lo, t.coeff)
				}
				if hi == nil {
					boundedHi = false
				} else if boundedHi {
					upper = addScaled(upper, hi, t.coeff)
				}
				continue
			}
		}
		if !isVar && usesRanged(t.atom, ranges) {
			return Everything()
		}
		if boundedLo {
			lower = addScaled(lower, t.atom, t.coeff)
		}
		if boundedHi {
			upper = addScaled(upper, t.atom, t.coeff)
		}
	}
	out := Interval{}
	if boundedLo {
		out.Min = Simplify(lower)
	}
	if boundedHi {
		out.Max = Simplify(upper)
	}
	return out
}

func addScaled(acc, e ir.Expr, coeff int64) ir.Expr {
	return ir.Add(acc, ir.Mul(e, ir.Int(coeff)))
}

func usesRanged(e ir.Expr, ranges map[string]Interval) bool {
	for name := range ranges {
		if ir.UsesVar(e, name) {
			return true
		}
	}
	return false
}
