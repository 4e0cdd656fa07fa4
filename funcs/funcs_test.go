package funcs

import (
	"testing"

	"github.com/ripl-lang/ripl/ir"
)

func TestMakePrimaryIsPure(t *testing.T) {
	f := Make("blur", "x", "y")
	if want, got := 2, f.Dimensions(); want != got {
		t.Fatalf("Dimensions() = %d, want %d", got, want)
	}
	for i, dim := range f.Args() {
		if !f.Definition().DimAlwaysPure(dim, i) {
			t.Errorf("primary definition of dimension %s should be pure", dim)
		}
	}
}

func TestDimAlwaysPure(t *testing.T) {
	f := Make("hist", "x")
	upd := f.AddUpdate(ir.Mul(ir.Var("x"), ir.Int(2)))
	if upd.DimAlwaysPure("x", 0) {
		t.Errorf("scatter write along x should not be pure")
	}
	if f.Definition().DimAlwaysPure("x", 1) {
		t.Errorf("out-of-range dimension index should not be pure")
	}
	if want, got := 1, len(f.Updates()); want != got {
		t.Errorf("Updates() has %d entries, want %d", got, want)
	}
}

func TestDimAlwaysPureSpecializations(t *testing.T) {
	f := Make("tiled", "x")
	def := f.Definition()
	def.Specializations = append(def.Specializations, Specialization{
		Condition:  ir.GE(ir.Var("width"), ir.Int(8)),
		Definition: &Definition{Args: []ir.Expr{ir.Var("x")}},
	})
	if !def.DimAlwaysPure("x", 0) {
		t.Errorf("pure specialization should keep the dimension pure")
	}
	def.Specializations = append(def.Specializations, Specialization{
		Condition:  ir.Bool(true),
		Definition: &Definition{Args: []ir.Expr{ir.Add(ir.Var("x"), ir.Int(1))}},
	})
	if def.DimAlwaysPure("x", 0) {
		t.Errorf("impure specialization should make the dimension impure")
	}
}

func TestScheduleLevels(t *testing.T) {
	f := Make("f", "x").Schedule(Root(), At("g", "y"))
	if want, got := Root(), f.StoreLevel(); want != got {
		t.Errorf("StoreLevel() = %v, want %v", got, want)
	}
	if want, got := At("g", "y"), f.ComputeLevel(); want != got {
		t.Errorf("ComputeLevel() = %v, want %v", got, want)
	}
	if f.StoreLevel() == f.ComputeLevel() {
		t.Errorf("distinct levels should not compare equal")
	}
}

func TestMakeEnv(t *testing.T) {
	f, g := Make("f", "x"), Make("g", "x")
	env := MakeEnv(f, g)
	if env["f"] != f || env["g"] != g {
		t.Errorf("MakeEnv should key functions by name")
	}
	if _, ok := env["h"]; ok {
		t.Errorf("unknown name should be absent")
	}
}
