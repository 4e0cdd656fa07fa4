// Package funcs models pipeline stage functions as the lowering passes see
// them: a named buffer-producing computation with pure dimension names, an
// ordered list of update definitions refining the primary result, and the
// storage/compute loop-level split chosen upstream.
package funcs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ripl-lang/ripl/ir"
)

// LevelKind says where in a loop nest a schedule level sits.
type LevelKind int

const (
	// LevelInlined means no separate storage or loop level at all.
	LevelInlined LevelKind = iota
	// LevelRoot is outside every loop.
	LevelRoot
	// LevelAt is at the loop Var of function Func.
	LevelAt
)

// LoopLevel identifies the loop a function is stored or computed at.
// LoopLevels are comparable with ==.
type LoopLevel struct {
	Kind LevelKind
	Func string
	Var  string
}

// Inlined returns the inlined loop level.
func Inlined() LoopLevel { return LoopLevel{Kind: LevelInlined} }

// Root returns the outermost loop level.
func Root() LoopLevel { return LoopLevel{Kind: LevelRoot} }

// At returns the loop level of variable v of function fn.
func At(fn, v string) LoopLevel {
	return LoopLevel{Kind: LevelAt, Func: fn, Var: v}
}

func (l LoopLevel) String() string {
	switch l.Kind {
	case LevelInlined:
		return "inlined"
	case LevelRoot:
		return "root"
	}
	return fmt.Sprintf("%s.%s", l.Func, l.Var)
}

// A Definition is one definition of a function: its per-dimension write
// pattern, plus optional specializations refining it under a condition.
type Definition struct {
	Args            []ir.Expr // Output index written along each dimension.
	Specializations []Specialization
}

// A Specialization is a definition variant guarded by a scheduling
// condition.
type Specialization struct {
	Condition  ir.Expr
	Definition *Definition
}

// DimAlwaysPure reports whether the write pattern along dimension index
// dimIdx is the identity of the dimension variable dim, in this definition
// and in every specialization of it.
func (d *Definition) DimAlwaysPure(dim string, dimIdx int) bool {
	if dimIdx >= len(d.Args) {
		return false
	}
	v, ok := d.Args[dimIdx].(*ir.Variable)
	if !ok || v.Name != dim {
		return false
	}
	for _, s := range d.Specializations {
		if !s.Definition.DimAlwaysPure(dim, dimIdx) {
			return false
		}
	}
	return true
}

// A Function is a named stage of the pipeline.
type Function struct {
	name         string
	args         []string
	init         *Definition
	updates      []*Definition
	storeLevel   LoopLevel
	computeLevel LoopLevel
}

// Make returns a function named name with pure dimensions dims. The primary
// definition writes each dimension at its own variable. The function starts
// inlined; use Schedule to set the store/compute split.
func Make(name string, dims ...string) *Function {
	init := &Definition{Args: make([]ir.Expr, len(dims))}
	for i, d := range dims {
		init.Args[i] = ir.Var(d)
	}
	return &Function{
		name:         name,
		args:         dims,
		init:         init,
		storeLevel:   Inlined(),
		computeLevel: Inlined(),
	}
}

// Name returns the function's name.
func (f *Function) Name() string { return f.name }

// Args returns the function's dimension names, outermost storage dimension
// last.
func (f *Function) Args() []string { return f.args }

// Dimensions returns the number of dimensions.
func (f *Function) Dimensions() int { return len(f.args) }

// Definition returns the primary definition.
func (f *Function) Definition() *Definition { return f.init }

// Updates returns the update definitions in application order.
func (f *Function) Updates() []*Definition { return f.updates }

// AddUpdate appends an update definition writing the given per-dimension
// indices and returns it so callers can attach specializations.
func (f *Function) AddUpdate(args ...ir.Expr) *Definition {
	def := &Definition{Args: args}
	f.updates = append(f.updates, def)
	return def
}

// Schedule sets the store and compute loop levels.
func (f *Function) Schedule(store, compute LoopLevel) *Function {
	f.storeLevel = store
	f.computeLevel = compute
	return f
}

// StoreLevel returns the loop level the function's storage lives at.
func (f *Function) StoreLevel() LoopLevel { return f.storeLevel }

// ComputeLevel returns the loop level the function is recomputed at.
func (f *Function) ComputeLevel() LoopLevel { return f.computeLevel }

func (f *Function) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("func %s(%s)", f.name, strings.Join(f.args, ", ")))
	buf.WriteString(fmt.Sprintf(" store:%s compute:%s", f.storeLevel, f.computeLevel))
	if len(f.updates) > 0 {
		buf.WriteString(fmt.Sprintf(" updates:%d", len(f.updates)))
	}
	return buf.String()
}

// Env maps buffer names to the functions that produce them.
type Env map[string]*Function

// MakeEnv builds an environment from a list of functions.
func MakeEnv(fns ...*Function) Env {
	env := make(Env, len(fns))
	for _, f := range fns {
		env[f.Name()] = f
	}
	return env
}
