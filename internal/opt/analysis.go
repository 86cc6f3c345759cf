package opt

import "fmt"

// TradeoffPoint prices one cargo/fuel split of the available payload.
type TradeoffPoint struct {
	Ratio            float64 // cargo share of the available payload
	Cargo            float64
	ExtraFuel        float64
	Profit           float64
	CargoRevenue     float64
	TankeringSavings float64
	AdditionalBurn   float64
	Feasible         bool
	Violated         []ConstraintID // non-empty only when infeasible
}

// Tradeoff sweeps the split between cargo and tankered fuel across the
// payload available under the zero-fuel-weight limit, in steps+1 points from
// all-fuel (ratio 0) to all-cargo (ratio 1). Each point is priced at its own
// implied weight, so the curve shows the profit shape around the optimum
// rather than just the optimum Solve reports. Infeasible splits are kept in
// the result with their violated constraints instead of being dropped.
func Tradeoff(sc Scenario, steps int) ([]TradeoffPoint, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: tradeoff steps must be >= 1, got %d", ErrInvalidScenario, steps)
	}
	model, err := NewBurnModel(sc.Route, sc.BurnFactor)
	if err != nil {
		return nil, err
	}
	avail := sc.Aircraft.MZFW - sc.Aircraft.DOM - sc.PaxWeight
	if avail < 0 {
		avail = 0
	}
	points := make([]TradeoffPoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		ratio := float64(i) / float64(steps)
		cargo := ratio * avail
		extra := (1 - ratio) * avail

		trip := model.TripFuel(cargo + extra)
		plan := PlanFuel(trip, sc.Route, sc.Policy)

		pt := TradeoffPoint{Ratio: ratio, Cargo: cargo, ExtraFuel: extra}
		for _, c := range Constraints(sc, plan) {
			if c.Slack(cargo, extra) < -tol(c) {
				pt.Violated = append(pt.Violated, c.ID)
			}
		}
		if len(pt.Violated) == 0 {
			pt.Feasible = true
			pt.Profit, pt.CargoRevenue, pt.TankeringSavings, pt.AdditionalBurn = price(sc, model, cargo, extra)
		}
		points = append(points, pt)
	}
	return points, nil
}

// SensitivityParam names a price input Sensitivity can vary.
type SensitivityParam string

const (
	ParamPriceOrigin SensitivityParam = "priceOrigin"
	ParamPriceDest   SensitivityParam = "priceDest"
	ParamCargoRate   SensitivityParam = "cargoRate"
)

// SensitivityPoint is one full solve at a substituted parameter value.
type SensitivityPoint struct {
	Value    float64
	Solution Solution
	Metrics  Metrics
}

// Sensitivity re-solves the scenario once per value of the chosen parameter,
// leaving the input scenario untouched. Results come back in the order the
// values were given, so callers can plot the optimum against the parameter.
func Sensitivity(sc Scenario, param SensitivityParam, values []float64, opts Options) ([]SensitivityPoint, error) {
	switch param {
	case ParamPriceOrigin, ParamPriceDest, ParamCargoRate:
	default:
		return nil, fmt.Errorf("%w: unknown sensitivity parameter %q", ErrInvalidScenario, param)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values for %s", ErrInvalidScenario, param)
	}
	points := make([]SensitivityPoint, 0, len(values))
	for _, v := range values {
		variant := sc
		switch param {
		case ParamPriceOrigin:
			variant.Econ.PriceOrigin = v
		case ParamPriceDest:
			variant.Econ.PriceDest = v
		case ParamCargoRate:
			variant.Econ.CargoRate = v
		}
		sol, m, err := Solve(variant, opts)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, v, err)
		}
		points = append(points, SensitivityPoint{Value: v, Solution: sol, Metrics: m})
	}
	return points, nil
}
