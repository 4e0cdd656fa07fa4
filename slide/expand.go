package slide

import (
	"github.com/ripl-lang/ripl/ir"
	"github.com/ripl-lang/ripl/scope"
)

// expandExpr replaces every variable reference bound in sc with its value.
// Values are fully expanded when they are pushed, so a single pass suffices.
// Variables not in scope are left intact.
func expandExpr(e ir.Expr, sc *scope.Scope) ir.Expr {
	var mutate func(ir.Expr) ir.Expr
	mutate = func(e ir.Expr) ir.Expr {
		if v, ok := e.(*ir.Variable); ok {
			if value, found := sc.Get(v.Name); found {
				return value
			}
			return v
		}
		return ir.MutateExprChildren(e, mutate)
	}
	return mutate(e)
}

// findProduce reports whether s contains a producer marker for fn.
func findProduce(s ir.Stmt, fn string) bool {
	found := false
	ir.Walk(s, func(n ir.Node) bool {
		if found {
			return false
		}
		if pc, ok := n.(*ir.ProducerConsumer); ok && pc.IsProducer && pc.Name == fn {
			found = true
			return false
		}
		return true
	})
	return found
}
