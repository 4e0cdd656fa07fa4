package slide

import (
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/ripl-lang/ripl/arith"
	"github.com/ripl-lang/ripl/funcs"
	"github.com/ripl-lang/ripl/ir"
	"github.com/ripl-lang/ripl/scope"
)

var freshNames struct {
	sync.Mutex
	seq map[string]int
}

// uniqueName materialises a fresh name with the given prefix, guaranteed
// distinct from every name this process handed out before.
func uniqueName(prefix string) string {
	freshNames.Lock()
	defer freshNames.Unlock()
	if freshNames.seq == nil {
		freshNames.seq = make(map[string]int)
	}
	seq := freshNames.seq[prefix]
	freshNames.seq[prefix]++
	return fmt.Sprintf("%s$%d", prefix, seq)
}

// edits is a pending-replacement set: binding name to its new value. It is
// produced at a producer marker and consumed by the let that owns each
// binding as the traversal unwinds; see (*slider).letStmt.
type edits map[string]ir.Expr

// merge folds other into e, reusing whichever map is non-empty.
func (e edits) merge(other edits) edits {
	if len(other) == 0 {
		return e
	}
	if len(e) == 0 {
		return other
	}
	for k, v := range other {
		e[k] = v
	}
	return e
}

// slider performs the sliding window rewrite for one function over one
// enclosing serial loop. Every statement handler returns the rewritten
// subtree together with the pending binding replacements discovered inside
// it; precondition failures leave the subtree untouched.
type slider struct {
	f       *funcs.Function
	loopVar string
	loopMin ir.Expr
	sc      *scope.Scope
	opts    *options

	// newLoopMin is the solved replacement loop minimum, when the window
	// needs warm-up iterations before the original minimum.
	newLoopMin ir.Expr
}

func newSlider(f *funcs.Function, loopVar string, loopMin ir.Expr, opts *options) *slider {
	return &slider{f: f, loopVar: loopVar, loopMin: loopMin, sc: scope.New(), opts: opts}
}

// run rewrites body and returns it along with the new loop minimum, if any.
// Every pending replacement must have found its binding by the time the
// traversal returns; a leftover means the bounds-inference naming contract
// was broken.
func (s *slider) run(body ir.Stmt) (ir.Stmt, ir.Expr) {
	out, ed := s.stmt(body)
	if len(ed) != 0 {
		for name := range ed {
			panic(errors.Errorf("slide: no binding found for region replacement %q", name))
		}
	}
	return out, s.newLoopMin
}

func (s *slider) stmt(st ir.Stmt) (ir.Stmt, edits) {
	switch op := st.(type) {
	case *ir.ProducerConsumer:
		return s.producerConsumer(op)
	case *ir.For:
		return s.forLoop(op)
	case *ir.LetStmt:
		return s.letStmt(op)
	case *ir.IfThenElse:
		then, ed := s.stmt(op.Then)
		if then == op.Then {
			return op, ed
		}
		return &ir.IfThenElse{Cond: op.Cond, Then: then}, ed
	case *ir.Realize:
		body, ed := s.stmt(op.Body)
		if body == op.Body {
			return op, ed
		}
		return &ir.Realize{Name: op.Name, Bounds: op.Bounds, Body: body}, ed
	case *ir.Block:
		stmts := op.Stmts
		var ed edits
		changed := false
		for i, child := range op.Stmts {
			c, childEd := s.stmt(child)
			ed = ed.merge(childEd)
			if c != child {
				if !changed {
					stmts = make([]ir.Stmt, len(op.Stmts))
					copy(stmts, op.Stmts)
					changed = true
				}
				stmts[i] = c
			}
		}
		if !changed {
			return op, ed
		}
		return &ir.Block{Stmts: stmts}, ed
	}
	return st, nil
}

func (s *slider) producerConsumer(op *ir.ProducerConsumer) (ir.Stmt, edits) {
	if op.IsProducer {
		if op.Name != s.f.Name() {
			body, ed := s.stmt(op.Body)
			if body == op.Body {
				return op, ed
			}
			return &ir.ProducerConsumer{Name: op.Name, IsProducer: true, Body: body}, ed
		}
		return s.producer(op)
	}
	if !findProduce(op, s.f.Name()) && s.newLoopMin != nil {
		// The loop was expanded before its original minimum to warm up the
		// window. This consumer is not part of the warm-up, so guard it to
		// run only on the original iterations.
		guard := ir.LikelyExpr(ir.GE(ir.Var(s.loopVar), ir.Var(s.loopVar+".loop_min.orig")))
		body, ed := s.stmt(op.Body)
		body = &ir.IfThenElse{Cond: guard, Then: body}
		return &ir.ProducerConsumer{Name: op.Name, IsProducer: false, Body: body}, ed
	}
	body, ed := s.stmt(op.Body)
	if body == op.Body {
		return op, ed
	}
	return &ir.ProducerConsumer{Name: op.Name, IsProducer: false, Body: body}, ed
}

// producer runs the slide decision sequence at the producer marker of the
// target function. Any failed precondition returns op unchanged.
func (s *slider) producer(op *ir.ProducerConsumer) (ir.Stmt, edits) {
	f := s.f
	log := s.opts.log

	log.Debugf("considering sliding %s along loop variable %s",
		color.GreenString(f.Name()), color.YellowString(s.loopVar))

	// Exactly one dimension of the buffer may have a required region that
	// depends on the loop variable.
	prefix := fmt.Sprintf("%s.s%d.", f.Name(), len(f.Updates()))
	args := f.Args()
	dim := ""
	dimIdx := 0
	var minRequired, maxRequired ir.Expr
	for i := 0; i < f.Dimensions(); i++ {
		name := prefix + args[i]
		minBound, okMin := s.sc.Get(name + ".min")
		maxBound, okMax := s.sc.Get(name + ".max")
		if !okMin || !okMax {
			panic(errors.Errorf("slide: bound bindings %s.{min,max} not in scope at producer of %s",
				name, f.Name()))
		}
		minReq := expandExpr(minBound, s.sc)
		maxReq := expandExpr(maxBound, s.sc)
		log.Debugf("region required %s: [%v, %v]", args[i], minReq, maxReq)

		if ir.UsesVar(minReq, s.loopVar) || ir.UsesVar(maxReq, s.loopVar) {
			if dim != "" {
				dim = ""
				minRequired, maxRequired = nil, nil
				break
			}
			dim = args[i]
			dimIdx = i
			minRequired, maxRequired = minReq, maxReq
		} else if minRequired == nil && i == f.Dimensions()-1 &&
			ir.IsPure(minReq) && ir.IsPure(maxReq) {
			// The footprint doesn't depend on the loop variable at all.
			// Compute everything on the first iteration.
			dim = args[i]
			dimIdx = i
			minRequired, maxRequired = minReq, maxReq
		}
	}
	if minRequired == nil {
		log.Debugf("not sliding %s over %s: multiple dimensions depend on the loop variable",
			f.Name(), s.loopVar)
		return op, nil
	}

	// Scattering writes along the slide axis make partial production
	// unsound, in the primary definition and in every update.
	if !f.Definition().DimAlwaysPure(dim, dimIdx) {
		log.Debugf("not sliding %s over %s: function scatters along %s", f.Name(), s.loopVar, dim)
		return op, nil
	}
	for _, def := range f.Updates() {
		if !def.DimAlwaysPure(dim, dimIdx) {
			log.Debugf("not sliding %s over %s: an update scatters along %s", f.Name(), s.loopVar, dim)
			return op, nil
		}
	}

	canSlideUp := false
	canSlideDown := false
	monotonicMin := s.opts.classify(minRequired, s.loopVar)
	monotonicMax := s.opts.classify(maxRequired, s.loopVar)
	if monotonicMin == arith.Increasing || monotonicMin == arith.Constant {
		canSlideUp = true
	} else if monotonicMin == arith.Unknown {
		s.opts.diag.NonMonotonicLoopVar(s.loopVar, minRequired)
	}
	if monotonicMax == arith.Decreasing || monotonicMax == arith.Constant {
		canSlideDown = true
	} else if monotonicMax == arith.Unknown {
		s.opts.diag.NonMonotonicLoopVar(s.loopVar, maxRequired)
	}
	if !canSlideUp && !canSlideDown {
		log.Debugf("not sliding %s over %s along %s: not provably monotonic (min %v, max %v)",
			f.Name(), dim, s.loopVar, minRequired, maxRequired)
		return op, nil
	}

	loopVarExpr := ir.Var(s.loopVar)
	prevIter := ir.Sub(loopVarExpr, ir.Int(1))
	prevMaxPlusOne := arith.Simplify(ir.Add(ir.SubstituteExpr(maxRequired, s.loopVar, prevIter), ir.Int(1)))
	prevMinMinusOne := arith.Simplify(ir.Sub(ir.SubstituteExpr(minRequired, s.loopVar, prevIter), ir.Int(1)))

	// If consecutive iterations' windows don't overlap, sliding saves
	// nothing.
	if s.opts.prove(ir.GE(minRequired, prevMaxPlusOne)) ||
		s.opts.prove(ir.LE(maxRequired, prevMinMinusOne)) {
		log.Debugf("not sliding %s over %s along %s: no overlap between iterations (min %v, max %v)",
			f.Name(), dim, s.loopVar, minRequired, maxRequired)
		return op, nil
	}

	// Update stages (e.g. unrolled ones) may write outside the primary
	// stage's window; take the union with what the producer body is
	// observed to write. If that region cannot be bounded, sliding is
	// unsound, so give up.
	var widen ir.Expr
	if len(f.Updates()) > 0 {
		box := s.opts.written(op.Body, f.Name())
		if box == nil || dimIdx >= len(box) {
			log.Debugf("not sliding %s over %s: cannot bound the region written by update stages",
				f.Name(), s.loopVar)
			return op, nil
		}
		if canSlideUp {
			widen = box[dimIdx].Min
		} else {
			widen = box[dimIdx].Max
		}
		if widen == nil {
			log.Debugf("not sliding %s over %s: cannot bound the region written by update stages",
				f.Name(), s.loopVar)
			return op, nil
		}
	}

	log.Debugf("sliding %s over dimension %s along loop variable %s",
		color.GreenString(f.Name()), color.CyanString(dim), color.YellowString(s.loopVar))

	// Equate the region needed at the original loop minimum with the region
	// a one-iteration-earlier window would already provide, and solve for
	// the candidate new loop minimum.
	newLoopMinName := uniqueName(s.loopVar + ".new_min")
	newLoopMinVar := ir.Var(newLoopMinName)
	var eq ir.Expr
	if canSlideUp {
		eq = ir.EQ(
			ir.SubstituteExpr(minRequired, s.loopVar, s.loopMin),
			ir.SubstituteExpr(prevMaxPlusOne, s.loopVar, newLoopMinVar))
	} else {
		eq = ir.EQ(
			ir.SubstituteExpr(maxRequired, s.loopVar, s.loopMin),
			ir.SubstituteExpr(prevMinMinusOne, s.loopVar, newLoopMinVar))
	}
	solution := s.opts.solve(eq, newLoopMinName)

	var newMin, newMax ir.Expr
	if solution.IsSinglePoint() {
		// There is exactly one place this loop can start.
		if s.newLoopMin != nil {
			panic(errors.Errorf("slide: second producer of %s solved a loop minimum for %s",
				f.Name(), s.loopVar))
		}
		newLoopMin := arith.Simplify(solution.Max)
		if !ir.Equal(newLoopMin, s.loopMin) {
			s.newLoopMin = newLoopMin
		}
		if canSlideUp {
			newMin, newMax = prevMaxPlusOne, maxRequired
		} else {
			newMin, newMax = minRequired, prevMinMinusOne
		}
	} else {
		// No unique start (e.g. resampling patterns). Keep the loop bounds
		// and compute the full region on the first iteration only.
		if canSlideUp {
			newMin = ir.SelectExpr(ir.LE(loopVarExpr, s.loopMin), minRequired, ir.LikelyExpr(prevMaxPlusOne))
			newMax = maxRequired
		} else {
			newMin = minRequired
			newMax = ir.SelectExpr(ir.LE(loopVarExpr, s.loopMin), maxRequired, ir.LikelyExpr(prevMinMinusOne))
		}
	}

	log.Debugf("sliding %s, %s: min %v -> %v, max %v -> %v, loop min %v -> %v",
		f.Name(), dim, minRequired, newMin, maxRequired, newMax, s.loopMin, s.newLoopMin)

	// Redefine the required region of the last stage, and point every
	// update stage's region at it (the stages share the allocation).
	ed := make(edits)
	if canSlideUp {
		ed[prefix+dim+".min"] = newMin
	} else {
		ed[prefix+dim+".max"] = newMax
	}
	for i := range f.Updates() {
		n := fmt.Sprintf("%s.s%d.%s", f.Name(), i, dim)
		ed[n+".min"] = ir.Var(prefix + dim + ".min")
		ed[n+".max"] = ir.Var(prefix + dim + ".max")
	}

	var out ir.Stmt = op
	if widen != nil {
		if canSlideUp {
			n := prefix + dim + ".min"
			out = &ir.LetStmt{Name: n, Value: ir.Min(ir.Var(n), widen), Body: out}
		} else {
			n := prefix + dim + ".max"
			out = &ir.LetStmt{Name: n, Value: ir.Max(ir.Var(n), widen), Body: out}
		}
	}
	return out, ed
}

// forLoop refuses to enter an inner loop whose bounds vary with the sliding
// variable; only the shape-preserving cases are traversed.
func (s *slider) forLoop(op *ir.For) (ir.Stmt, edits) {
	min := expandExpr(op.Min, s.sc)
	extent := expandExpr(op.Extent, s.sc)
	if ir.IsConstOne(extent) {
		// A single-iteration loop binds its variable like a let.
		asLet, ed := s.letStmt(&ir.LetStmt{Name: op.Name, Value: min, Body: op.Body})
		l, ok := asLet.(*ir.LetStmt)
		if !ok {
			panic(errors.Errorf("slide: single-iteration loop %s did not come back as a binding", op.Name))
		}
		if l.Body == op.Body {
			return op, ed
		}
		return &ir.For{Name: op.Name, Min: op.Min, Extent: op.Extent, Kind: op.Kind, Body: l.Body}, ed
	}
	if s.opts.classify(min, s.loopVar) != arith.Constant ||
		s.opts.classify(extent, s.loopVar) != arith.Constant {
		s.opts.log.Debugf("not entering loop over %s: bounds depend on %s (min %v, extent %v)",
			op.Name, s.loopVar, min, extent)
		return op, nil
	}
	body, ed := s.stmt(op.Body)
	if body == op.Body {
		return op, ed
	}
	return &ir.For{Name: op.Name, Min: op.Min, Extent: op.Extent, Kind: op.Kind, Body: body}, ed
}

// letStmt tracks the binding in scope and applies any pending replacement
// for its name on the way back out.
func (s *slider) letStmt(op *ir.LetStmt) (ir.Stmt, edits) {
	pop := s.sc.Bind(op.Name, arith.Simplify(expandExpr(op.Value, s.sc)))
	body, ed := s.stmt(op.Body)
	pop()

	value := op.Value
	if replacement, ok := ed[op.Name]; ok {
		value = replacement
		delete(ed, op.Name)
	}
	if body == op.Body && value == op.Value {
		return op, ed
	}
	return &ir.LetStmt{Name: op.Name, Value: value, Body: body}, ed
}
