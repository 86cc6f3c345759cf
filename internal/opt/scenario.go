// Package opt implements the fuel-tankering and cargo profit optimizer for a
// single flight leg. The decision variables are cargo weight and extra
// (tankered) fuel; the solver resolves the circular dependency between
// carried weight and the fuel burned to carry it by fixed-point iteration,
// solving an exact two-variable linear program at each step.
package opt

import (
	"errors"
	"fmt"
)

// ErrInvalidScenario is returned by Solve for malformed or physically
// inconsistent input. Check with errors.Is.
var ErrInvalidScenario = errors.New("opt: invalid scenario")

// Aircraft holds the structural limits of an aircraft type, in kg.
type Aircraft struct {
	Type         string
	MTOW         float64 // maximum take-off weight
	MLW          float64 // maximum landing weight
	MZFW         float64 // maximum zero-fuel weight
	DOM          float64 // dry operating mass
	FuelCapacity float64
	MaxPayload   float64 // maximum structural payload
}

// Route holds the leg geometry and baseline fuel figures.
type Route struct {
	DistanceNm    float64
	MinTripFuel   float64 // trip fuel at zero extra weight, kg
	AlternateFuel float64 // kg
}

// Economics holds the price side of the problem.
type Economics struct {
	PriceOrigin float64 // currency per liter at origin
	PriceDest   float64 // currency per liter at destination
	Density     float64 // fuel density, kg per liter
	CargoRate   float64 // cargo revenue, currency per kg
}

// Policy is company fuel policy.
type Policy struct {
	ContingencyPct float64 // fraction of trip fuel
	ReserveFuel    float64 // final reserve, kg
}

// Scenario is one immutable optimization request. It is passed by value and
// never mutated by the solver.
type Scenario struct {
	Aircraft   Aircraft
	Route      Route
	Econ       Economics
	Policy     Policy
	PaxWeight  float64 // total passenger weight incl. baggage, kg
	BurnFactor float64 // α: extra burn per kg carried per nm
}

// Validate checks the scenario for physical consistency. All failures wrap
// ErrInvalidScenario.
func (sc Scenario) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"mtow", sc.Aircraft.MTOW},
		{"mlw", sc.Aircraft.MLW},
		{"mzfw", sc.Aircraft.MZFW},
		{"dom", sc.Aircraft.DOM},
		{"fuelCapacity", sc.Aircraft.FuelCapacity},
		{"maxPayload", sc.Aircraft.MaxPayload},
		{"distanceNm", sc.Route.DistanceNm},
		{"minTripFuel", sc.Route.MinTripFuel},
		{"alternateFuel", sc.Route.AlternateFuel},
		{"reserveFuel", sc.Policy.ReserveFuel},
		{"contingencyPct", sc.Policy.ContingencyPct},
		{"paxWeight", sc.PaxWeight},
		{"burnFactor", sc.BurnFactor},
		{"priceOrigin", sc.Econ.PriceOrigin},
		{"priceDest", sc.Econ.PriceDest},
		{"cargoRate", sc.Econ.CargoRate},
	} {
		if c.v < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %g", ErrInvalidScenario, c.name, c.v)
		}
	}
	if sc.Econ.Density <= 0 {
		return fmt.Errorf("%w: density must be > 0, got %g", ErrInvalidScenario, sc.Econ.Density)
	}
	if sc.Aircraft.MZFW > sc.Aircraft.MTOW {
		return fmt.Errorf("%w: mzfw %g exceeds mtow %g", ErrInvalidScenario, sc.Aircraft.MZFW, sc.Aircraft.MTOW)
	}
	if sc.Aircraft.MLW > sc.Aircraft.MTOW {
		return fmt.Errorf("%w: mlw %g exceeds mtow %g", ErrInvalidScenario, sc.Aircraft.MLW, sc.Aircraft.MTOW)
	}
	return nil
}
