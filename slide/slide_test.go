package slide

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ripl-lang/ripl/arith"
	"github.com/ripl-lang/ripl/funcs"
	"github.com/ripl-lang/ripl/ir"
)

func let(name string, value ir.Expr, body ir.Stmt) ir.Stmt {
	return &ir.LetStmt{Name: name, Value: value, Body: body}
}

// blurPipeline is a lowered 1-D stencil: blurred needs [v, v+2] at each
// iteration of the serial loop over v in [0, 10), and is stored across the
// whole loop but computed per iteration.
func blurPipeline() (ir.Stmt, funcs.Env) {
	produceBody := &ir.For{
		Name: "x",
		Min:  ir.Var("blurred.s0.x.min"),
		Extent: ir.Add(ir.Sub(ir.Var("blurred.s0.x.max"), ir.Var("blurred.s0.x.min")),
			ir.Int(1)),
		Kind: ir.Serial,
		Body: &ir.Provide{Name: "blurred", Index: []ir.Expr{ir.Var("x")}, Value: ir.Var("x")},
	}
	body := ir.Seq(
		ir.Produce("blurred", produceBody),
		ir.Consume("blurred", &ir.Provide{Name: "out", Index: []ir.Expr{ir.Var("v")}, Value: ir.Var("v")}),
	)
	body = let("blurred.s0.x.min", ir.Var("v"),
		let("blurred.s0.x.max", ir.Add(ir.Var("v"), ir.Int(2)), body))
	var loop ir.Stmt = &ir.For{Name: "v", Min: ir.Var("v.loop_min"), Extent: ir.Var("v.loop_extent"),
		Kind: ir.Serial, Body: body}
	loop = let("v.loop_min", ir.Int(0),
		let("v.loop_extent", ir.Int(10),
			let("v.loop_max", ir.Int(9), loop)))
	root := &ir.Realize{Name: "blurred",
		Bounds: []ir.Range{{Min: ir.Int(0), Extent: ir.Int(13)}},
		Body:   loop}
	env := funcs.MakeEnv(
		funcs.Make("blurred", "x").Schedule(funcs.Root(), funcs.At("out", "v")),
	)
	return root, env
}

func TestRunSlidesStencilUp(t *testing.T) {
	root, env := blurPipeline()
	got := Run(root, env)
	if got == root {
		t.Fatalf("expected the stencil to slide")
	}

	narrowed := ir.Add(ir.Var("v.n"), ir.Int(2))
	producer := ir.Produce("blurred",
		let("x.loop_min.orig", ir.Var("x.loop_min"),
			&ir.For{
				Name: "x",
				Min:  ir.Var("blurred.s0.x.min"),
				Extent: ir.Add(ir.Sub(ir.Var("blurred.s0.x.max"), ir.Var("blurred.s0.x.min")),
					ir.Int(1)),
				Kind: ir.Serial,
				Body: &ir.Provide{Name: "blurred", Index: []ir.Expr{ir.Var("x")}, Value: ir.Var("x")},
			}))
	consumer := ir.Consume("blurred", &ir.IfThenElse{
		Cond: ir.LikelyExpr(ir.GE(ir.Var("v.n"), ir.Var("v.loop_min.orig"))),
		Then: &ir.Provide{Name: "out", Index: []ir.Expr{ir.Var("v.n")}, Value: ir.Var("v.n")},
	})
	loopBody := let("blurred.s0.x.min", narrowed,
		let("blurred.s0.x.max", ir.Add(ir.Var("v.n"), ir.Int(2)),
			ir.Seq(producer, consumer)))
	want := ir.Stmt(&ir.Realize{Name: "blurred",
		Bounds: []ir.Range{{Min: ir.Int(0), Extent: ir.Int(13)}},
		Body: let("v.loop_min", ir.Int(0),
			let("v.loop_extent", ir.Int(10),
				let("v.loop_max", ir.Int(9),
					let("v.loop_min.orig", ir.Var("v.loop_min"),
						let("v.n.loop_min", ir.Sub(ir.Var("v.loop_min"), ir.Int(2)),
							let("v.n.loop_min.orig", ir.Var("v.n.loop_min"),
								let("v.n.loop_extent",
									ir.Add(ir.Sub(ir.Var("v.loop_max"), ir.Var("v.n.loop_min")), ir.Int(1)),
									let("v.n.loop_max",
										ir.Sub(ir.Add(ir.Var("v.n.loop_min"), ir.Var("v.n.loop_extent")), ir.Int(1)),
										&ir.For{Name: "v.n", Min: ir.Var("v.n.loop_min"),
											Extent: ir.Var("v.n.loop_extent"),
											Kind:   ir.Serial, Body: loopBody}))))))))})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
}

// evalInt folds e to an integer after substituting bind.
func evalInt(t *testing.T, e ir.Expr, bind map[string]ir.Expr) int64 {
	t.Helper()
	v := arith.Simplify(ir.SubstituteMapExpr(e, bind))
	imm, ok := v.(*ir.IntImm)
	if !ok {
		t.Fatalf("expression %v does not fold to a constant under %v (got %v)", e, bind, v)
	}
	return imm.Value
}

func findLet(s ir.Stmt, name string) *ir.LetStmt {
	var found *ir.LetStmt
	ir.Walk(s, func(n ir.Node) bool {
		if found != nil {
			return false
		}
		if l, ok := n.(*ir.LetStmt); ok && l.Name == name {
			found = l
			return false
		}
		return true
	})
	return found
}

func findFor(s ir.Stmt, name string) *ir.For {
	var found *ir.For
	ir.Walk(s, func(n ir.Node) bool {
		if found != nil {
			return false
		}
		if f, ok := n.(*ir.For); ok && f.Name == name {
			found = f
			return false
		}
		return true
	})
	return found
}

// The regions computed across the rewritten loop must cover exactly the
// regions the original loop computed: [0, 11] for the blur stencil.
func TestRunRegionCoverage(t *testing.T) {
	root, env := blurPipeline()
	got := Run(root, env)

	minLet := findLet(got, "blurred.s0.x.min")
	maxLet := findLet(got, "blurred.s0.x.max")
	newMinLet := findLet(got, "v.n.loop_min")
	extentLet := findLet(got, "v.n.loop_extent")
	if minLet == nil || maxLet == nil || newMinLet == nil || extentLet == nil {
		t.Fatalf("rewritten bindings missing from output")
	}

	outer := map[string]ir.Expr{"v.loop_min": ir.Int(0), "v.loop_max": ir.Int(9)}
	lo := evalInt(t, newMinLet.Value, outer)
	if want := int64(-2); want != lo {
		t.Fatalf("new loop minimum = %d, want %d", lo, want)
	}
	outer["v.n.loop_min"] = ir.Int(lo)
	extent := evalInt(t, extentLet.Value, outer)
	if want := int64(12); want != extent {
		t.Fatalf("new loop extent = %d, want %d", extent, want)
	}

	covered := make(map[int64]bool)
	for k := lo; k < lo+extent; k++ {
		bind := map[string]ir.Expr{"v.n": ir.Int(k)}
		min, max := evalInt(t, minLet.Value, bind), evalInt(t, maxLet.Value, bind)
		for i := min; i <= max; i++ {
			covered[i] = true
		}
	}
	for i := int64(0); i <= 11; i++ {
		if !covered[i] {
			t.Errorf("value %d of the original region is never computed", i)
		}
		delete(covered, i)
	}
	for i := range covered {
		t.Errorf("value %d is computed but outside the original region", i)
	}
}

// A second application must find nothing left to slide and return the
// identical tree: the shared-window bounds no longer overlap themselves.
func TestRunIdempotent(t *testing.T) {
	root, env := blurPipeline()
	once := Run(root, env)
	if twice := Run(once, env); twice != once {
		t.Errorf("second application should return the identical tree")
	}
}

func TestRunSkipsComputeAtStorageLevel(t *testing.T) {
	root, _ := blurPipeline()
	env := funcs.MakeEnv(
		funcs.Make("blurred", "x").Schedule(funcs.Root(), funcs.Root()),
	)
	got := Run(root, env)
	if findFor(got, "v.n") != nil {
		t.Errorf("a buffer recomputed at its storage level must not slide")
	}
	if findLet(got, "v.loop_min.orig") == nil {
		t.Errorf("loops should still be annotated with their original minima")
	}
}

func TestRunUnknownRealizationPassesThrough(t *testing.T) {
	root, _ := blurPipeline()
	got := Run(root, funcs.Env{})
	if findFor(got, "v.n") != nil {
		t.Errorf("a realization with no environment entry must not slide")
	}
}

type diagRecorder struct {
	loopVars []string
	exprs    []ir.Expr
}

func (d *diagRecorder) NonMonotonicLoopVar(loopVar string, e ir.Expr) {
	d.loopVars = append(d.loopVars, loopVar)
	d.exprs = append(d.exprs, e)
}

func TestRunReportsNonMonotonicBounds(t *testing.T) {
	bound := ir.Mul(ir.Var("v"), ir.Var("v"))
	body := ir.Seq(
		ir.Produce("f", &ir.Provide{Name: "f", Index: []ir.Expr{ir.Var("x")}, Value: ir.Int(0)}),
		ir.Consume("f", &ir.Provide{Name: "out", Index: []ir.Expr{ir.Var("v")}, Value: ir.Int(0)}),
	)
	body = let("f.s0.x.min", bound, let("f.s0.x.max", ir.Add(bound, ir.Int(2)), body))
	var loop ir.Stmt = &ir.For{Name: "v", Min: ir.Var("v.loop_min"), Extent: ir.Var("v.loop_extent"),
		Kind: ir.Serial, Body: body}
	loop = let("v.loop_min", ir.Int(0), let("v.loop_extent", ir.Int(10), loop))
	root := &ir.Realize{Name: "f", Bounds: []ir.Range{{Min: ir.Int(0), Extent: ir.Int(16)}}, Body: loop}
	env := funcs.MakeEnv(funcs.Make("f", "x").Schedule(funcs.Root(), funcs.At("out", "v")))

	rec := &diagRecorder{}
	got := Run(root, env, WithDiagnostics(rec))

	if findFor(got, "v.n") != nil {
		t.Errorf("non-monotonic bounds must not slide")
	}
	if want, got := 2, len(rec.loopVars); want != got {
		t.Fatalf("recorded %d diagnostics, want %d", got, want)
	}
	for _, v := range rec.loopVars {
		if want := "v"; want != v {
			t.Errorf("diagnostic names loop variable %q, want %q", v, want)
		}
	}
	if !ir.Equal(rec.exprs[0], bound) {
		t.Errorf("diagnostic should carry the offending bound, got %v", rec.exprs[0])
	}
}
