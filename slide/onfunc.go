package slide

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/ripl-lang/ripl/funcs"
	"github.com/ripl-lang/ripl/ir"
)

// funcWalker drives the slider for one function over every enclosing serial
// or unrolled loop inside the function's allocation scope, outermost first,
// and does the bookkeeping when a slide moved a loop minimum.
type funcWalker struct {
	f    *funcs.Function
	opts *options
}

func (w *funcWalker) stmt(s ir.Stmt) ir.Stmt {
	op, ok := s.(*ir.For)
	if !ok {
		return ir.MutateStmtChildren(s, w.stmt, nil)
	}
	w.opts.log.Debugf("sliding window analysis of %s over loop %s", w.f.Name(), op.Name)

	newBody := op.Body
	newLoopName := op.Name
	var newLoopMin, newLoopExtent ir.Expr
	if op.Kind == ir.Serial || op.Kind == ir.Unrolled {
		newBody, newLoopMin = newSlider(w.f, op.Name, op.Min, w.opts).run(newBody)
		if newLoopMin != nil {
			// The loop minimum moved, so the loop must be renamed: outer
			// code still references the old name's bindings, which keep
			// their original values, while references inside the slid body
			// must see the new ones.
			newLoopName += ".n"

			// The new interval runs from the new minimum to the old
			// maximum.
			minVar, isVar := op.Min.(*ir.Variable)
			if !isVar {
				panic(errors.Errorf("slide: minimum of loop %s is not a loop_min binding reference", op.Name))
			}
			loopMax := ir.Var(strings.TrimSuffix(minVar.Name, "min") + "max")
			newLoopExtent = ir.Add(ir.Sub(loopMax, ir.Var(newLoopName+".loop_min")), ir.Int(1))
		}
	}

	newMin, newExtent := op.Min, op.Extent
	if newLoopName != op.Name {
		newMin = ir.Var(newLoopName + ".loop_min")
		newExtent = ir.Var(newLoopName + ".loop_extent")
		newBody = ir.SubstituteMapStmt(newBody, map[string]ir.Expr{
			op.Name:                  ir.Var(newLoopName),
			op.Name + ".loop_extent": newExtent,
			op.Name + ".loop_min":    newMin,
		})
	}

	newBody = w.stmt(newBody)

	var newFor ir.Stmt
	if newBody == op.Body && newLoopName == op.Name && newMin == op.Min && newExtent == op.Extent {
		newFor = op
	} else {
		newFor = &ir.For{Name: newLoopName, Min: newMin, Extent: newExtent, Kind: op.Kind, Body: newBody}
	}

	if newLoopMin != nil {
		newLoopMax := ir.Sub(ir.Add(ir.Var(newLoopName+".loop_min"), ir.Var(newLoopName+".loop_extent")), ir.Int(1))
		newFor = &ir.LetStmt{Name: newLoopName + ".loop_max", Value: newLoopMax, Body: newFor}
		newFor = &ir.LetStmt{Name: newLoopName + ".loop_extent", Value: newLoopExtent, Body: newFor}
		newFor = &ir.LetStmt{Name: newLoopName + ".loop_min.orig", Value: ir.Var(newLoopName + ".loop_min"), Body: newFor}
		newFor = &ir.LetStmt{Name: newLoopName + ".loop_min", Value: newLoopMin, Body: newFor}
	}
	return newFor
}
