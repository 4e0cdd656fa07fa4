// Package region answers produced-region queries: the bounding box of the
// values a statement subtree writes to a buffer.
package region

import (
	"github.com/ripl-lang/ripl/arith"
	"github.com/ripl-lang/ripl/ir"
)

// A Box is a per-dimension bounding interval of a buffer region.
type Box []arith.Interval

// Written computes the union bounding box of all stores to buffer within s,
// widening indices over the ranges of the loops that enclose each store.
// It returns nil if s never writes buffer.
func Written(s ir.Stmt, buffer string) Box {
	sc := scanner{
		buffer: buffer,
		lets:   make(map[string]ir.Expr),
		ranges: make(map[string]arith.Interval),
	}
	sc.stmt(s)
	return sc.box
}

type scanner struct {
	buffer string
	lets   map[string]ir.Expr
	ranges map[string]arith.Interval
	box    Box
}

// expand substitutes all enclosing let bindings into e. Values were fully
// expanded when recorded, so one pass suffices.
func (sc *scanner) expand(e ir.Expr) ir.Expr {
	return arith.Simplify(ir.SubstituteMapExpr(e, sc.lets))
}

func (sc *scanner) stmt(s ir.Stmt) {
	switch s := s.(type) {
	case *ir.LetStmt:
		old, shadowed := sc.lets[s.Name]
		sc.lets[s.Name] = sc.expand(s.Value)
		sc.stmt(s.Body)
		if shadowed {
			sc.lets[s.Name] = old
		} else {
			delete(sc.lets, s.Name)
		}
	case *ir.For:
		min := sc.expand(s.Min)
		max := arith.Simplify(ir.Sub(ir.Add(min, sc.expand(s.Extent)), ir.Int(1)))
		old, shadowed := sc.ranges[s.Name]
		sc.ranges[s.Name] = arith.Interval{Min: min, Max: max}
		sc.stmt(s.Body)
		if shadowed {
			sc.ranges[s.Name] = old
		} else {
			delete(sc.ranges, s.Name)
		}
	case *ir.Provide:
		if s.Name == sc.buffer {
			dims := make(Box, len(s.Index))
			for i, idx := range s.Index {
				dims[i] = arith.Bounds(sc.expand(idx), sc.ranges)
			}
			sc.merge(dims)
		}
	case *ir.ProducerConsumer:
		sc.stmt(s.Body)
	case *ir.Realize:
		sc.stmt(s.Body)
	case *ir.IfThenElse:
		sc.stmt(s.Then)
	case *ir.Block:
		for _, child := range s.Stmts {
			sc.stmt(child)
		}
	}
}

func (sc *scanner) merge(dims Box) {
	if sc.box == nil {
		sc.box = dims
		return
	}
	for i := range sc.box {
		if i >= len(dims) {
			break
		}
		sc.box[i] = union(sc.box[i], dims[i])
	}
}

func union(a, b arith.Interval) arith.Interval {
	out := arith.Interval{}
	if a.Min != nil && b.Min != nil {
		out.Min = arith.Simplify(ir.Min(a.Min, b.Min))
	}
	if a.Max != nil && b.Max != nil {
		out.Max = arith.Simplify(ir.Max(a.Max, b.Max))
	}
	return out
}
