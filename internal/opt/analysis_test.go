package opt

import (
	"errors"
	"math"
	"testing"
)

func TestTradeoffSweep(t *testing.T) {
	sc := testScenario()
	pts, err := Tradeoff(sc, 10)
	if err != nil {
		t.Fatalf("Tradeoff: %v", err)
	}
	if len(pts) != 11 {
		t.Fatalf("points: got %d, want 11", len(pts))
	}
	if pts[0].Ratio != 0 || pts[10].Ratio != 1 {
		t.Fatalf("ratio endpoints: %g .. %g", pts[0].Ratio, pts[10].Ratio)
	}
	avail := sc.Aircraft.MZFW - sc.Aircraft.DOM - sc.PaxWeight // 25516
	if math.Abs(pts[10].Cargo-avail) > 1e-6 || pts[10].ExtraFuel > 1e-6 {
		t.Fatalf("all-cargo point: %+v", pts[10])
	}
	if math.Abs(pts[0].ExtraFuel-avail) > 1e-6 || pts[0].Cargo > 1e-6 {
		t.Fatalf("all-fuel point: %+v", pts[0])
	}
	for i, pt := range pts {
		if !pt.Feasible {
			t.Fatalf("point %d infeasible on the reference route: %+v", i, pt)
		}
		if i > 0 && pt.Profit <= pts[i-1].Profit {
			t.Fatalf("profit should rise with the cargo share here: %g -> %g at %g",
				pts[i-1].Profit, pt.Profit, pt.Ratio)
		}
	}
}

func TestTradeoffAllCargoMatchesOptimum(t *testing.T) {
	// On the reference route the optimum is all cargo, so the last sweep
	// point must price identically to the converged Solution.
	sc := testScenario()
	sol, _, err := Solve(sc, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	pts, err := Tradeoff(sc, 4)
	if err != nil {
		t.Fatalf("Tradeoff: %v", err)
	}
	last := pts[len(pts)-1]
	if math.Abs(last.Profit-sol.Profit) > 1e-6 {
		t.Fatalf("profit: sweep %g vs solve %g", last.Profit, sol.Profit)
	}
	if math.Abs(last.CargoRevenue-sol.CargoRevenue) > 1e-6 {
		t.Fatalf("revenue: sweep %g vs solve %g", last.CargoRevenue, sol.CargoRevenue)
	}
	if math.Abs(last.AdditionalBurn-sol.AdditionalBurn) > 1e-6 {
		t.Fatalf("burn: sweep %g vs solve %g", last.AdditionalBurn, sol.AdditionalBurn)
	}
}

func TestTradeoffReportsViolations(t *testing.T) {
	sc := testScenario()
	sc.Aircraft.MaxPayload = 20000 // below the 25516 kg the zero-fuel limit allows
	pts, err := Tradeoff(sc, 10)
	if err != nil {
		t.Fatalf("Tradeoff: %v", err)
	}
	if !pts[0].Feasible {
		t.Fatalf("all-fuel point should stay feasible: %+v", pts[0])
	}
	last := pts[10]
	if last.Feasible {
		t.Fatalf("all-cargo point should exceed the structural payload: %+v", last)
	}
	found := false
	for _, id := range last.Violated {
		if id == ConstraintMaxPayload {
			found = true
		}
	}
	if !found {
		t.Fatalf("violated: got %v, want structural_payload", last.Violated)
	}
	if last.Profit != 0 || last.CargoRevenue != 0 {
		t.Fatalf("infeasible point should not be priced: %+v", last)
	}
}

func TestTradeoffInvalidInput(t *testing.T) {
	sc := testScenario()
	if _, err := Tradeoff(sc, 0); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("zero steps: got %v", err)
	}
	sc.PaxWeight = -1
	if _, err := Tradeoff(sc, 10); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("negative pax weight: got %v", err)
	}
}

func TestSensitivityCargoRate(t *testing.T) {
	sc := testScenario()
	pts, err := Sensitivity(sc, ParamCargoRate, []float64{0, 2.6}, Options{})
	if err != nil {
		t.Fatalf("Sensitivity: %v", err)
	}
	if len(pts) != 2 || pts[0].Value != 0 || pts[1].Value != 2.6 {
		t.Fatalf("points out of order: %+v", pts)
	}
	// At zero revenue every kg of cargo costs burn, so the optimum is empty.
	if pts[0].Solution.Status != StatusConverged || pts[0].Solution.Cargo > 1e-6 {
		t.Fatalf("rate 0: %+v", pts[0].Solution)
	}
	// At the reference rate the optimum fills cargo to the zero-fuel limit.
	wantCargo := sc.Aircraft.MZFW - sc.Aircraft.DOM - sc.PaxWeight
	if math.Abs(pts[1].Solution.Cargo-wantCargo) > 1 {
		t.Fatalf("rate 2.6: cargo %g, want %g", pts[1].Solution.Cargo, wantCargo)
	}
	if sc.Econ.CargoRate != 2.6 {
		t.Fatalf("input scenario mutated: rate %g", sc.Econ.CargoRate)
	}
}

func TestSensitivityInvalidInput(t *testing.T) {
	sc := testScenario()
	if _, err := Sensitivity(sc, "density", []float64{0.8}, Options{}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("unknown parameter: got %v", err)
	}
	if _, err := Sensitivity(sc, ParamPriceDest, nil, Options{}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("no values: got %v", err)
	}
	if _, err := Sensitivity(sc, ParamPriceDest, []float64{-1}, Options{}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("negative price: got %v", err)
	}
}
