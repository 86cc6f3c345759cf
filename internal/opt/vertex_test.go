package opt

import (
	"math"
	"testing"
)

func boxConstraints(xMax, yMax, sumMax float64) []Constraint {
	return []Constraint{
		{ID: ConstraintMTOW, A: 1, B: 1, C: sumMax},
		{ID: ConstraintMaxPayload, A: 1, B: 0, C: xMax},
		{ID: ConstraintFuelCapacity, A: 0, B: 1, C: yMax},
		{ID: ConstraintCargoMin, A: -1, B: 0, C: 0},
		{ID: ConstraintFuelMin, A: 0, B: -1, C: 0},
	}
}

func TestBestVertexCorner(t *testing.T) {
	cs := boxConstraints(10, 10, 15)
	v, ok := BestVertex(cs, Objective{Cargo: 3, Fuel: 1})
	if !ok {
		t.Fatal("expected a feasible vertex")
	}
	if math.Abs(v.Cargo-10) > 1e-9 || math.Abs(v.ExtraFuel-5) > 1e-9 {
		t.Fatalf("got (%g, %g), want (10, 5)", v.Cargo, v.ExtraFuel)
	}
	if math.Abs(v.Profit-35) > 1e-9 {
		t.Fatalf("profit: got %g, want 35", v.Profit)
	}
}

func TestBestVertexTieBreakPrefersExtraFuel(t *testing.T) {
	// Objective is constant along the x+y=15 edge; the documented tie-break
	// must pick the vertex with the most extra fuel.
	cs := boxConstraints(10, 10, 15)
	v, ok := BestVertex(cs, Objective{Cargo: 1, Fuel: 1})
	if !ok {
		t.Fatal("expected a feasible vertex")
	}
	if math.Abs(v.Cargo-5) > 1e-9 || math.Abs(v.ExtraFuel-10) > 1e-9 {
		t.Fatalf("tie-break: got (%g, %g), want (5, 10)", v.Cargo, v.ExtraFuel)
	}
}

func TestBestVertexBindingIDs(t *testing.T) {
	cs := boxConstraints(10, 10, 15)
	v, _ := BestVertex(cs, Objective{Cargo: 3, Fuel: 1})
	want := map[ConstraintID]bool{ConstraintMTOW: true, ConstraintMaxPayload: true}
	if len(v.Binding) != 2 {
		t.Fatalf("binding: got %v", v.Binding)
	}
	for _, id := range v.Binding {
		if !want[id] {
			t.Fatalf("unexpected binding constraint %s", id)
		}
	}
}

func TestBestVertexOriginAlwaysCandidate(t *testing.T) {
	// With a strictly unprofitable objective, the optimum is the origin.
	cs := boxConstraints(10, 10, 15)
	v, ok := BestVertex(cs, Objective{Cargo: -1, Fuel: -2})
	if !ok {
		t.Fatal("expected a feasible vertex")
	}
	if v.Cargo != 0 || v.ExtraFuel != 0 {
		t.Fatalf("got (%g, %g), want origin", v.Cargo, v.ExtraFuel)
	}
	if v.Profit != 0 {
		t.Fatalf("profit at origin: got %g, want 0", v.Profit)
	}
}

func TestBestVertexNoFeasiblePoint(t *testing.T) {
	cs := []Constraint{
		{ID: ConstraintMZFW, A: 1, B: 0, C: -5}, // cargo <= -5, impossible
		{ID: ConstraintCargoMin, A: -1, B: 0, C: 0},
		{ID: ConstraintFuelMin, A: 0, B: -1, C: 0},
	}
	if _, ok := BestVertex(cs, Objective{Cargo: 1, Fuel: 1}); ok {
		t.Fatal("expected no feasible vertex")
	}
}

func TestObjectiveZeroAtOrigin(t *testing.T) {
	obj := NewObjective(testScenario())
	if got := obj.Profit(0, 0); got != 0 {
		t.Fatalf("profit(0,0): got %g, want 0", got)
	}
}

func TestObjectiveCoefficients(t *testing.T) {
	sc := testScenario()
	obj := NewObjective(sc)
	k := sc.BurnFactor * sc.Route.DistanceNm
	wantCargo := sc.Econ.CargoRate - k*sc.Econ.PriceDest/sc.Econ.Density
	wantFuel := (sc.Econ.PriceDest-sc.Econ.PriceOrigin)/sc.Econ.Density - k*sc.Econ.PriceDest/sc.Econ.Density
	if math.Abs(obj.Cargo-wantCargo) > 1e-12 {
		t.Fatalf("cargo coeff: got %g, want %g", obj.Cargo, wantCargo)
	}
	if math.Abs(obj.Fuel-wantFuel) > 1e-12 {
		t.Fatalf("fuel coeff: got %g, want %g", obj.Fuel, wantFuel)
	}
}
