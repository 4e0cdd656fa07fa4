// Package slide implements the sliding window scheduling pass: when the
// region of a buffer required by later consumers shifts monotonically as an
// enclosing serial loop advances, each iteration's producer is narrowed to
// compute only the newly needed slice, reusing values computed by earlier
// iterations.
//
// The pass is a pure tree-to-tree transformation. Every precondition
// failure degrades to leaving the subtree unchanged, which is always safe;
// the worst case is that a buffer keeps being fully recomputed.
package slide

import (
	"github.com/fatih/color"
	"github.com/ripl-lang/ripl/arith"
	"github.com/ripl-lang/ripl/funcs"
	"github.com/ripl-lang/ripl/ir"
	"github.com/ripl-lang/ripl/region"
)

// Diagnostics receives advisory notes about optimizations the pass wanted
// to make but could not prove safe. It never affects the output.
type Diagnostics interface {
	// NonMonotonicLoopVar records that e, a required bound, could not be
	// classified as monotonic in loopVar.
	NonMonotonicLoopVar(loopVar string, e ir.Expr)
}

type nopDiagnostics struct{}

func (nopDiagnostics) NonMonotonicLoopVar(string, ir.Expr) {}

type options struct {
	diag     Diagnostics
	log      *Logger
	classify func(ir.Expr, string) arith.Monotonic
	prove    func(ir.Expr) bool
	solve    func(ir.Expr, string) arith.Interval
	written  func(ir.Stmt, string) region.Box
}

// An Option adjusts how the pass runs.
type Option func(*options)

// WithDiagnostics installs a sink for advisory diagnostics.
func WithDiagnostics(d Diagnostics) Option {
	return func(o *options) {
		if d != nil {
			o.diag = d
		}
	}
}

// WithLogger installs a debug logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClassifier overrides the monotonicity oracle.
func WithClassifier(f func(ir.Expr, string) arith.Monotonic) Option {
	return func(o *options) { o.classify = f }
}

// WithProver overrides the implication prover.
func WithProver(f func(ir.Expr) bool) Option {
	return func(o *options) { o.prove = f }
}

// WithSolver overrides the interval equation solver.
func WithSolver(f func(ir.Expr, string) arith.Interval) Option {
	return func(o *options) { o.solve = f }
}

// WithRegionQuery overrides the produced-region query.
func WithRegionQuery(f func(ir.Stmt, string) region.Box) Option {
	return func(o *options) { o.written = f }
}

func defaultOptions() options {
	return options{
		diag:     nopDiagnostics{},
		log:      nopLogger(),
		classify: arith.Classify,
		prove:    arith.Prove,
		solve:    arith.SolveFor,
		written:  region.Written,
	}
}

// dispatcher walks the whole tree and starts a per-function walk at every
// allocation whose function is recomputed at a strictly finer granularity
// than its storage.
type dispatcher struct {
	env  funcs.Env
	opts *options
}

func (d *dispatcher) stmt(s ir.Stmt) ir.Stmt {
	op, ok := s.(*ir.Realize)
	if !ok {
		return ir.MutateStmtChildren(s, d.stmt, nil)
	}
	f, found := d.env[op.Name]
	if !found {
		// Anonymous realization (e.g. an inlined reduction); pass through.
		return ir.MutateStmtChildren(s, d.stmt, nil)
	}
	if f.ComputeLevel() == f.StoreLevel() {
		// The buffer is entirely recomputed each time it is allocated;
		// there is no previous iteration to reuse.
		return ir.MutateStmtChildren(s, d.stmt, nil)
	}

	newBody := d.stmt(op.Body)
	d.opts.log.Debugf("sliding window analysis on realization of %s", color.GreenString(op.Name))
	newBody = (&funcWalker{f: f, opts: d.opts}).stmt(newBody)

	if newBody == op.Body {
		return op
	}
	return &ir.Realize{Name: op.Name, Bounds: op.Bounds, Body: newBody}
}

// Run applies the sliding window pass to the statement tree s, using env to
// look up the function behind each allocation. It is applied once per
// compilation, after bounds inference and before allocation sizing.
func Run(s ir.Stmt, env funcs.Env, opts ...Option) ir.Stmt {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s = newAnnotator().stmt(s)
	return (&dispatcher{env: env, opts: &o}).stmt(s)
}
