package arith

import "github.com/ripl-lang/ripl/ir"

// Prove reports whether cond can be shown to always hold. It is
// conservative: false means "could not prove", never "disproved".
func Prove(cond ir.Expr) bool {
	b, ok := Simplify(cond).(*ir.BoolImm)
	return ok && b.Value
}
