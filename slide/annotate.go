package slide

import "github.com/ripl-lang/ripl/ir"

// annotator wraps every loop in a binding recording its original minimum,
// <name>.loop_min.orig, before any sliding can move the minimum. Consumer
// guards read this binding to skip warm-up iterations.
type annotator struct {
	// bound counts let names on the path to the current node, so a loop
	// that already carries its .orig binding (from an earlier run of the
	// pass) is not annotated twice.
	bound map[string]int
}

func newAnnotator() *annotator {
	return &annotator{bound: make(map[string]int)}
}

func (a *annotator) stmt(s ir.Stmt) ir.Stmt {
	switch op := s.(type) {
	case *ir.LetStmt:
		a.bound[op.Name]++
		body := a.stmt(op.Body)
		a.bound[op.Name]--
		if body == op.Body {
			return op
		}
		return &ir.LetStmt{Name: op.Name, Value: op.Value, Body: body}
	case *ir.For:
		body := a.stmt(op.Body)
		var result ir.Stmt = op
		if body != op.Body {
			result = &ir.For{Name: op.Name, Min: op.Min, Extent: op.Extent, Kind: op.Kind, Body: body}
		}
		origName := op.Name + ".loop_min.orig"
		if a.bound[origName] > 0 {
			return result
		}
		return &ir.LetStmt{
			Name:  origName,
			Value: ir.Var(op.Name + ".loop_min"),
			Body:  result,
		}
	default:
		return ir.MutateStmtChildren(s, a.stmt, nil)
	}
}
