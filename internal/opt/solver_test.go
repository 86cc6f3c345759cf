package opt

import (
	"errors"
	"math"
	"testing"
)

func TestSolveReferenceScenario(t *testing.T) {
	// Destination fuel is cheaper than origin fuel, so tankering loses money:
	// the optimum fills cargo to the zero-fuel-weight limit and carries no
	// extra fuel.
	sc := testScenario()
	sol, m, err := Solve(sc, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusConverged || !sol.Converged || !sol.Feasible {
		t.Fatalf("status: %+v", sol)
	}
	if sol.Iterations >= 20 {
		t.Fatalf("iterations: got %d, want < 20", sol.Iterations)
	}
	wantCargo := sc.Aircraft.MZFW - sc.Aircraft.DOM - sc.PaxWeight // 25516
	if math.Abs(sol.Cargo-wantCargo) > 1 {
		t.Fatalf("cargo: got %g, want %g", sol.Cargo, wantCargo)
	}
	if sol.ExtraFuel > 1 {
		t.Fatalf("extra fuel: got %g, want ~0", sol.ExtraFuel)
	}
	if sol.Profit < 0 {
		t.Fatalf("profit: got %g, want >= 0", sol.Profit)
	}
	hasMZFW := false
	for _, id := range sol.Binding {
		if id == ConstraintMZFW {
			hasMZFW = true
		}
	}
	if !hasMZFW {
		t.Fatalf("binding: got %v, want mzfw", sol.Binding)
	}
	if len(m.Snapshots) != sol.Iterations {
		t.Fatalf("snapshots: got %d, want %d", len(m.Snapshots), sol.Iterations)
	}
}

func TestSolveIdempotentFuelFigures(t *testing.T) {
	sc := testScenario()
	sol, _, err := Solve(sc, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	model, _ := NewBurnModel(sc.Route, sc.BurnFactor)
	trip := model.TripFuel(sol.Cargo + sol.ExtraFuel)
	if math.Abs(trip-sol.TripFuel) > 1e-6 {
		t.Fatalf("trip fuel not reproducible: %g vs %g", trip, sol.TripFuel)
	}
	plan := PlanFuel(trip, sc.Route, sc.Policy)
	if math.Abs(plan.RequiredFuel-sol.RequiredFuel) > 1e-6 {
		t.Fatalf("required fuel not reproducible: %g vs %g", plan.RequiredFuel, sol.RequiredFuel)
	}
}

func TestSolveAlphaZeroTankersWhenDestExpensive(t *testing.T) {
	sc := testScenario()
	sc.BurnFactor = 0
	sc.Econ.PriceOrigin, sc.Econ.PriceDest = sc.Econ.PriceDest, sc.Econ.PriceOrigin
	sol, _, err := Solve(sc, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusConverged {
		t.Fatalf("status: %s", sol.Status)
	}
	wantCargo := sc.Aircraft.MZFW - sc.Aircraft.DOM - sc.PaxWeight
	if math.Abs(sol.Cargo-wantCargo) > 1 {
		t.Fatalf("cargo: got %g, want %g", sol.Cargo, wantCargo)
	}
	if sol.ExtraFuel <= 0 {
		t.Fatalf("extra fuel: got %g, want > 0 when destination is dearer", sol.ExtraFuel)
	}
	hasMLW := false
	for _, id := range sol.Binding {
		if id == ConstraintMLW {
			hasMLW = true
		}
	}
	if !hasMLW {
		t.Fatalf("binding: got %v, want mlw limiting the tankered fuel", sol.Binding)
	}
}

func TestSolveAlphaZeroNoTankeringWhenDestCheap(t *testing.T) {
	sc := testScenario()
	sc.BurnFactor = 0
	sol, _, err := Solve(sc, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.ExtraFuel > 1e-6 {
		t.Fatalf("extra fuel: got %g, want 0 when destination is cheaper", sol.ExtraFuel)
	}
}

func TestSolveCargoMonotonicInRevenue(t *testing.T) {
	sc := testScenario()
	prev := -1.0
	for _, rate := range []float64{0.1, 0.5, 1.0, 2.6, 5.0} {
		sc.Econ.CargoRate = rate
		sol, _, err := Solve(sc, Options{})
		if err != nil {
			t.Fatalf("Solve(rate=%g): %v", rate, err)
		}
		if sol.Cargo < prev-1e-6 {
			t.Fatalf("cargo decreased when revenue rose: %g -> %g at rate %g", prev, sol.Cargo, rate)
		}
		prev = sol.Cargo
	}
}

func TestSolveInfeasibleOverweightBase(t *testing.T) {
	sc := testScenario()
	sc.Aircraft.DOM = 160000
	sc.PaxWeight = 20000
	sol, _, err := Solve(sc, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusInfeasible || sol.Feasible {
		t.Fatalf("status: %+v", sol)
	}
	found := false
	for _, id := range sol.Violated {
		if id == ConstraintMZFW {
			found = true
		}
	}
	if !found {
		t.Fatalf("violated: got %v, want mzfw", sol.Violated)
	}
}

func TestSolveNonConvergentOscillation(t *testing.T) {
	// An implausibly high burn factor makes the feasible region contract
	// sharply as the weight estimate grows, so the iteration oscillates
	// between a heavy and a light loading and never settles.
	sc := testScenario()
	sc.BurnFactor = 0.0015
	sc.Route.DistanceNm = 1000 // alpha * distance = 1.5 kg burned per kg carried
	sol, m, err := Solve(sc, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusNonConvergent || sol.Converged {
		t.Fatalf("status: got %s", sol.Status)
	}
	if !sol.Feasible {
		t.Fatal("non-convergent outcome should still carry the last iterate")
	}
	if sol.Iterations != defaultMaxIter {
		t.Fatalf("iterations: got %d, want cap %d", sol.Iterations, defaultMaxIter)
	}
	if m.FinalDelta <= defaultToleranceKg {
		t.Fatalf("final delta %g should exceed the tolerance", m.FinalDelta)
	}
}

func TestSolveInvalidScenario(t *testing.T) {
	sc := testScenario()
	sc.Aircraft.MZFW = sc.Aircraft.MTOW + 1
	if _, _, err := Solve(sc, Options{}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("mzfw > mtow: got %v", err)
	}

	sc = testScenario()
	sc.PaxWeight = -1
	if _, _, err := Solve(sc, Options{}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("negative pax weight: got %v", err)
	}

	sc = testScenario()
	sc.BurnFactor = -0.1
	if _, _, err := Solve(sc, Options{}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("negative alpha: got %v", err)
	}
}

func TestSolveOptionsTolerance(t *testing.T) {
	sc := testScenario()
	sol, _, err := Solve(sc, Options{ToleranceKg: 100, MaxIterations: 5})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusConverged {
		t.Fatalf("loose tolerance should converge, got %s", sol.Status)
	}
}

func TestStatusJSONRoundTrip(t *testing.T) {
	for _, st := range []Status{StatusConverged, StatusNonConvergent, StatusInfeasible} {
		b, err := st.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %s: %v", st, err)
		}
		var back Status
		if err := back.UnmarshalJSON(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back != st {
			t.Fatalf("round trip: got %s, want %s", back, st)
		}
	}
	var s Status
	if err := s.UnmarshalJSON([]byte(`"bogus"`)); err == nil {
		t.Fatal("bogus status should fail to unmarshal")
	}
}
