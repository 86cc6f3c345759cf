package opt

import (
	"encoding/json"
	"fmt"
	"math"
)

// Status is the terminal state of a solve.
type Status int

const (
	StatusConverged Status = iota + 1
	StatusNonConvergent
	StatusInfeasible
)

var statusNames = [...]string{
	StatusConverged:     "converged",
	StatusNonConvergent: "non_convergent",
	StatusInfeasible:    "infeasible",
}

func (s Status) isValid() bool { return s >= StatusConverged && s <= StatusInfeasible }

func (s Status) String() string {
	if s.isValid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalJSON serializes the status as its string name.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.isValid() {
		return nil, fmt.Errorf("opt: invalid status: %d", int(s))
	}
	return json.Marshal(statusNames[s])
}

// UnmarshalJSON accepts the string names emitted by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("opt: invalid status: %s", data)
	}
	for v, name := range statusNames {
		if name == str {
			*s = Status(v)
			return nil
		}
	}
	return fmt.Errorf("opt: invalid status: %q", str)
}

// Options tunes the outer fixed-point loop. Zero values select the defaults.
type Options struct {
	ToleranceKg   float64 // absolute convergence tolerance, default 1
	RelTolerance  float64 // relative convergence tolerance, default 1e-4
	MaxIterations int     // default 50
}

const (
	defaultToleranceKg  = 1.0
	defaultRelTolerance = 1e-4
	defaultMaxIter      = 50
)

func (o Options) withDefaults() Options {
	if o.ToleranceKg <= 0 {
		o.ToleranceKg = defaultToleranceKg
	}
	if o.RelTolerance <= 0 {
		o.RelTolerance = defaultRelTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIter
	}
	return o
}

// Solution is the immutable outcome of one solve.
type Solution struct {
	Status     Status
	Feasible   bool
	Converged  bool
	Iterations int

	Cargo          float64 // kg
	ExtraFuel      float64 // kg tankered beyond requirements
	TripFuel       float64 // kg, at the final weight
	RequiredFuel   float64 // trip + contingency + alternate + reserve
	TotalFuel      float64 // required + extra, uplifted at origin
	AdditionalBurn float64 // burn attributable to the extra weight

	Profit           float64
	CargoRevenue     float64
	TankeringSavings float64

	TakeoffMass  float64
	ZeroFuelMass float64
	LandingMass  float64

	Binding  []ConstraintID // satisfied with equality at the optimum
	Violated []ConstraintID // non-empty only when infeasible
}

// Snapshot records one outer iteration for diagnostics.
type Snapshot struct {
	Iteration   int
	ExtraWeight float64 // estimate entering the iteration
	TripFuel    float64
	Cargo       float64
	ExtraFuel   float64
	Profit      float64
}

// Metrics carries per-solve diagnostics alongside the Solution.
type Metrics struct {
	Iterations int
	FinalDelta float64 // |new − previous| estimate at termination, kg
	Diverged   bool
	Snapshots  []Snapshot
}

// Solve runs the fixed-point iteration for one scenario.
//
// The loop seeds the extra-weight estimate at zero, then repeatedly prices
// the estimate through the burn model, rebuilds the linearized constraint
// set, and solves the resulting two-variable LP exactly. The implied weight
// of the optimum becomes the next estimate. Termination is by the
// convergence tolerance, the iteration cap, or the divergence guard; each
// terminal state is reported in Solution.Status rather than looping on.
//
// The only error return is ErrInvalidScenario, raised before any iteration.
// Infeasible and non-convergent outcomes are valid Solutions the caller must
// inspect, since they call for an operational decision (offload passengers,
// review the scenario) rather than a retry.
func Solve(sc Scenario, opts Options) (Solution, Metrics, error) {
	if err := sc.Validate(); err != nil {
		return Solution{}, Metrics{}, err
	}
	opts = opts.withDefaults()

	model, err := NewBurnModel(sc.Route, sc.BurnFactor)
	if err != nil {
		return Solution{}, Metrics{}, err
	}
	obj := NewObjective(sc)
	divergeAt := sc.Aircraft.FuelCapacity + sc.Aircraft.MaxPayload

	var m Metrics
	estimate := 0.0
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		m.Iterations = iter
		trip := model.TripFuel(estimate)
		plan := PlanFuel(trip, sc.Route, sc.Policy)
		cs := Constraints(sc, plan)

		if empty := EmptyRegion(cs); len(empty) > 0 {
			sol := Solution{Status: StatusInfeasible, Iterations: iter, Violated: empty}
			return sol, m, nil
		}
		v, ok := BestVertex(cs, obj)
		if !ok {
			// Origin was feasible yet no vertex survived; report every
			// upper-bound constraint as the polytope is degenerate.
			sol := Solution{Status: StatusInfeasible, Iterations: iter, Violated: upperBounds(cs)}
			return sol, m, nil
		}

		m.Snapshots = append(m.Snapshots, Snapshot{
			Iteration:   iter,
			ExtraWeight: estimate,
			TripFuel:    trip,
			Cargo:       v.Cargo,
			ExtraFuel:   v.ExtraFuel,
			Profit:      v.Profit,
		})

		next := v.Cargo + v.ExtraFuel
		m.FinalDelta = math.Abs(next - estimate)
		if m.FinalDelta < opts.ToleranceKg || m.FinalDelta < opts.RelTolerance*math.Max(1, estimate) {
			return finalize(sc, model, v, iter, StatusConverged), m, nil
		}
		if next > divergeAt {
			m.Diverged = true
			return finalize(sc, model, v, iter, StatusNonConvergent), m, nil
		}
		if iter == opts.MaxIterations {
			return finalize(sc, model, v, iter, StatusNonConvergent), m, nil
		}
		estimate = next
	}
	// Unreachable: the loop always returns at the cap.
	return Solution{}, m, fmt.Errorf("%w: iteration cap not applied", ErrInvalidScenario)
}

// price computes the profit breakdown for a loading, with the additional
// burn taken at the loading's own implied weight.
func price(sc Scenario, model BurnModel, cargo, extra float64) (profit, revenue, savings, burn float64) {
	burn = model.AdditionalBurn(cargo + extra)
	rho := sc.Econ.Density
	revenue = sc.Econ.CargoRate * cargo
	savings = (sc.Econ.PriceDest - sc.Econ.PriceOrigin) * (extra - burn) / rho
	profit = revenue + savings - burn*sc.Econ.PriceOrigin/rho
	return profit, revenue, savings, burn
}

// finalize prices the chosen vertex at its own implied weight and assembles
// the full Solution, including the mass and profit breakdown.
func finalize(sc Scenario, model BurnModel, v Vertex, iters int, st Status) Solution {
	w := v.Cargo + v.ExtraFuel
	trip := model.TripFuel(w)
	plan := PlanFuel(trip, sc.Route, sc.Policy)
	profit, revenue, savings, burn := price(sc, model, v.Cargo, v.ExtraFuel)

	zfm := sc.Aircraft.DOM + sc.PaxWeight + v.Cargo
	tom := zfm + plan.RequiredFuel + v.ExtraFuel

	return Solution{
		Status:     st,
		Feasible:   true,
		Converged:  st == StatusConverged,
		Iterations: iters,

		Cargo:          v.Cargo,
		ExtraFuel:      v.ExtraFuel,
		TripFuel:       trip,
		RequiredFuel:   plan.RequiredFuel,
		TotalFuel:      plan.RequiredFuel + v.ExtraFuel,
		AdditionalBurn: burn,

		Profit:           profit,
		CargoRevenue:     revenue,
		TankeringSavings: savings,

		TakeoffMass:  tom,
		ZeroFuelMass: zfm,
		LandingMass:  tom - trip,

		Binding: v.Binding,
	}
}

func upperBounds(cs []Constraint) []ConstraintID {
	var out []ConstraintID
	for _, c := range cs {
		if c.ID != ConstraintCargoMin && c.ID != ConstraintFuelMin {
			out = append(out, c.ID)
		}
	}
	return out
}
