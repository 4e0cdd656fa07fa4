package region

import (
	"testing"

	"github.com/ripl-lang/ripl/ir"
)

func TestWrittenLoopRange(t *testing.T) {
	// for x in [v, v+3]: f(x) = ...
	s := &ir.For{Name: "x", Min: ir.Var("v"), Extent: ir.Int(4), Kind: ir.Serial,
		Body: &ir.Provide{Name: "f", Index: []ir.Expr{ir.Var("x")}, Value: ir.Int(0)}}
	box := Written(s, "f")
	if box == nil {
		t.Fatalf("expected a write to f")
	}
	if want := ir.Var("v"); !ir.Equal(want, box[0].Min) {
		t.Errorf("box min\nwant: %v\ngot: %v", want, box[0].Min)
	}
	if want := ir.Add(ir.Var("v"), ir.Int(3)); !ir.Equal(want, box[0].Max) {
		t.Errorf("box max\nwant: %v\ngot: %v", want, box[0].Max)
	}
}

func TestWrittenUnrolledUnion(t *testing.T) {
	// An unrolled pair writing 2x and 2x+1 over x in [0, 4] covers [0, 9].
	s := &ir.For{Name: "x", Min: ir.Int(0), Extent: ir.Int(5), Kind: ir.Serial,
		Body: ir.Seq(
			&ir.Provide{Name: "f", Index: []ir.Expr{ir.Mul(ir.Var("x"), ir.Int(2))}, Value: ir.Int(0)},
			&ir.Provide{Name: "f", Index: []ir.Expr{ir.Add(ir.Mul(ir.Var("x"), ir.Int(2)), ir.Int(1))}, Value: ir.Int(0)},
		)}
	box := Written(s, "f")
	if box == nil {
		t.Fatalf("expected writes to f")
	}
	if want := ir.Int(0); !ir.Equal(want, box[0].Min) {
		t.Errorf("box min\nwant: %v\ngot: %v", want, box[0].Min)
	}
	if want := ir.Int(9); !ir.Equal(want, box[0].Max) {
		t.Errorf("box max\nwant: %v\ngot: %v", want, box[0].Max)
	}
}

func TestWrittenExpandsLets(t *testing.T) {
	s := &ir.LetStmt{Name: "lo", Value: ir.Add(ir.Var("v"), ir.Int(1)), Body: &ir.For{
		Name: "x", Min: ir.Var("lo"), Extent: ir.Int(2), Kind: ir.Serial,
		Body: &ir.Provide{Name: "f", Index: []ir.Expr{ir.Var("x")}, Value: ir.Int(0)},
	}}
	box := Written(s, "f")
	if box == nil {
		t.Fatalf("expected a write to f")
	}
	if want := ir.Add(ir.Var("v"), ir.Int(1)); !ir.Equal(want, box[0].Min) {
		t.Errorf("box min\nwant: %v\ngot: %v", want, box[0].Min)
	}
	if want := ir.Add(ir.Var("v"), ir.Int(2)); !ir.Equal(want, box[0].Max) {
		t.Errorf("box max\nwant: %v\ngot: %v", want, box[0].Max)
	}
}

func TestWrittenIgnoresOtherBuffers(t *testing.T) {
	s := &ir.Provide{Name: "g", Index: []ir.Expr{ir.Int(0)}, Value: ir.Int(0)}
	if box := Written(s, "f"); box != nil {
		t.Errorf("expected nil box for a buffer that is never written, got %v", box)
	}
}

func TestWrittenScatterUnbounded(t *testing.T) {
	// A data-dependent index cannot be bounded by loop ranges.
	s := &ir.For{Name: "x", Min: ir.Int(0), Extent: ir.Int(5), Kind: ir.Serial,
		Body: &ir.Provide{Name: "f", Index: []ir.Expr{ir.Mul(ir.Var("x"), ir.Var("x"))}, Value: ir.Int(0)}}
	box := Written(s, "f")
	if box == nil {
		t.Fatalf("expected a write to f")
	}
	if box[0].HasLowerBound() || box[0].HasUpperBound() {
		t.Errorf("expected unbounded interval, got [%v, %v]", box[0].Min, box[0].Max)
	}
}
