// Package model defines the API and storage records for the tankering
// planner. Numeric conventions: weights and fuel in kg, distance in nautical
// miles, prices in currency per liter, density in kg per liter.
package model

import "tankplan/internal/opt"

// AircraftProfile is the stored reference record for an aircraft type.
type AircraftProfile struct {
	Type         string  `json:"type" yaml:"type"`
	MTOW         float64 `json:"mtow" yaml:"mtow"`
	MLW          float64 `json:"mlw" yaml:"mlw"`
	MZFW         float64 `json:"mzfw" yaml:"mzfw"`
	DOM          float64 `json:"dom" yaml:"dom"`
	FuelCapacity float64 `json:"fuelCapacity" yaml:"fuelCapacity"`
	MaxPayload   float64 `json:"maxPayload" yaml:"maxPayload"`
	BurnFactor   float64 `json:"burnFactor,omitempty" yaml:"burnFactor"` // default alpha for the type
}

// RouteRecord couples a route's geometry with its economics; both vary by
// city pair and the prices by date, so they are stored together.
type RouteRecord struct {
	ID            string  `json:"id" yaml:"id"` // "MLE-TFU"
	Origin        string  `json:"origin" yaml:"origin"`
	Destination   string  `json:"destination" yaml:"destination"`
	DistanceNm    float64 `json:"distanceNm" yaml:"distanceNm"`
	MinTripFuel   float64 `json:"minTripFuel" yaml:"minTripFuel"`
	AlternateFuel float64 `json:"alternateFuel,omitempty" yaml:"alternateFuel"`
	PriceOrigin   float64 `json:"priceOrigin" yaml:"priceOrigin"`
	PriceDest     float64 `json:"priceDest" yaml:"priceDest"`
	Density       float64 `json:"density" yaml:"density"`
	CargoRate     float64 `json:"cargoRate" yaml:"cargoRate"`
}

// OperationalPolicy is company fuel policy.
type OperationalPolicy struct {
	ContingencyPct float64 `json:"contingencyPct" yaml:"contingencyPct"`
	ReserveFuel    float64 `json:"reserveFuel" yaml:"reserveFuel"`
}

// SolveOptions mirrors opt.Options on the wire.
type SolveOptions struct {
	ToleranceKg   float64 `json:"toleranceKg,omitempty" yaml:"toleranceKg"`
	RelTolerance  float64 `json:"relTolerance,omitempty" yaml:"relTolerance"`
	MaxIterations int     `json:"maxIterations,omitempty" yaml:"maxIterations"`
}

// SolveRequest describes one scenario. Aircraft and route are resolved from
// reference data by identifier; inline profiles override the stored ones.
type SolveRequest struct {
	AircraftType string             `json:"aircraftType,omitempty"`
	RouteID      string             `json:"routeId,omitempty"`
	Aircraft     *AircraftProfile   `json:"aircraft,omitempty"`
	Route        *RouteRecord       `json:"route,omitempty"`
	Policy       *OperationalPolicy `json:"policy,omitempty"`
	PaxWeight    float64            `json:"paxWeight"`
	BurnFactor   *float64           `json:"burnFactor,omitempty"` // overrides aircraft/calibrated alpha
	Options      *SolveOptions      `json:"options,omitempty"`
}

// BatchSolveRequest evaluates independent scenarios concurrently.
type BatchSolveRequest struct {
	Scenarios []SolveRequest `json:"scenarios"`
}

// SolutionOut is the wire form of opt.Solution.
type SolutionOut struct {
	Status     opt.Status `json:"status"`
	Feasible   bool       `json:"feasible"`
	Converged  bool       `json:"converged"`
	Iterations int        `json:"iterations"`

	Cargo          float64 `json:"cargo"`
	ExtraFuel      float64 `json:"extraFuel"`
	TripFuel       float64 `json:"tripFuel"`
	RequiredFuel   float64 `json:"requiredFuel"`
	TotalFuel      float64 `json:"totalFuel"`
	AdditionalBurn float64 `json:"additionalBurn"`

	Profit           float64 `json:"profit"`
	CargoRevenue     float64 `json:"cargoRevenue"`
	TankeringSavings float64 `json:"tankeringSavings"`

	TakeoffMass  float64 `json:"takeoffMass"`
	ZeroFuelMass float64 `json:"zeroFuelMass"`
	LandingMass  float64 `json:"landingMass"`

	Binding  []string `json:"bindingConstraints,omitempty"`
	Violated []string `json:"violatedConstraints,omitempty"`
}

// IterationOut is the wire form of opt.Snapshot.
type IterationOut struct {
	Iteration   int     `json:"iteration"`
	ExtraWeight float64 `json:"extraWeight"`
	TripFuel    float64 `json:"tripFuel"`
	Cargo       float64 `json:"cargo"`
	ExtraFuel   float64 `json:"extraFuel"`
	Profit      float64 `json:"profit"`
}

// SolveMetricsOut is the wire form of opt.Metrics.
type SolveMetricsOut struct {
	Iterations int            `json:"iterations"`
	FinalDelta float64        `json:"finalDeltaKg"`
	Diverged   bool           `json:"diverged,omitempty"`
	Snapshots  []IterationOut `json:"snapshots,omitempty"`
}

// SolveResponse is returned by POST /v1/solve.
type SolveResponse struct {
	RequestID string          `json:"requestId"`
	RouteID   string          `json:"routeId,omitempty"`
	Solution  SolutionOut     `json:"solution"`
	Metrics   SolveMetricsOut `json:"metrics"`
}

// SensitivityRequest re-solves one scenario across values of a price input.
type SensitivityRequest struct {
	SolveRequest
	Parameter string    `json:"parameter"` // priceOrigin, priceDest or cargoRate
	Values    []float64 `json:"values"`
}

// SensitivityPointOut is the wire form of opt.SensitivityPoint.
type SensitivityPointOut struct {
	Value    float64         `json:"value"`
	Solution SolutionOut     `json:"solution"`
	Metrics  SolveMetricsOut `json:"metrics"`
}

// SensitivityResponse is returned by POST /v1/solve/sensitivity.
type SensitivityResponse struct {
	RouteID   string                `json:"routeId,omitempty"`
	Parameter string                `json:"parameter"`
	Points    []SensitivityPointOut `json:"points"`
}

// TradeoffPointOut is the wire form of opt.TradeoffPoint.
type TradeoffPointOut struct {
	Ratio            float64  `json:"ratio"`
	Cargo            float64  `json:"cargo"`
	ExtraFuel        float64  `json:"extraFuel"`
	Profit           float64  `json:"profit"`
	CargoRevenue     float64  `json:"cargoRevenue"`
	TankeringSavings float64  `json:"tankeringSavings"`
	AdditionalBurn   float64  `json:"additionalBurn"`
	Feasible         bool     `json:"feasible"`
	Violated         []string `json:"violatedConstraints,omitempty"`
}

// TradeoffResponse is returned by GET /v1/routes/{id}/tradeoff.
type TradeoffResponse struct {
	RouteID      string             `json:"routeId"`
	AircraftType string             `json:"aircraftType,omitempty"`
	Points       []TradeoffPointOut `json:"points"`
}

// SolveRecord is the persisted history entry for one solve.
type SolveRecord struct {
	ID           string      `json:"id"`
	RouteID      string      `json:"routeId,omitempty"`
	AircraftType string      `json:"aircraftType,omitempty"`
	PaxWeight    float64     `json:"paxWeight"`
	BurnFactor   float64     `json:"burnFactor"`
	Solution     SolutionOut `json:"solution"`
	CreatedAt    string      `json:"createdAt"` // RFC3339
}

// BurnSample is one historical observation used to calibrate alpha: the
// extra burn seen on a flight that carried extraWeight over distanceNm.
type BurnSample struct {
	AircraftType string  `json:"aircraftType"`
	RouteID      string  `json:"routeId,omitempty"`
	ExtraWeight  float64 `json:"extraWeight"`
	DistanceNm   float64 `json:"distanceNm"`
	ExtraBurn    float64 `json:"extraBurn"`
	FlownAt      string  `json:"flownAt,omitempty"` // RFC3339 date
}

// NewSolutionOut converts the solver result to its wire form.
func NewSolutionOut(s opt.Solution) SolutionOut {
	return SolutionOut{
		Status:         s.Status,
		Feasible:       s.Feasible,
		Converged:      s.Converged,
		Iterations:     s.Iterations,
		Cargo:          s.Cargo,
		ExtraFuel:      s.ExtraFuel,
		TripFuel:       s.TripFuel,
		RequiredFuel:   s.RequiredFuel,
		TotalFuel:      s.TotalFuel,
		AdditionalBurn: s.AdditionalBurn,

		Profit:           s.Profit,
		CargoRevenue:     s.CargoRevenue,
		TankeringSavings: s.TankeringSavings,

		TakeoffMass:  s.TakeoffMass,
		ZeroFuelMass: s.ZeroFuelMass,
		LandingMass:  s.LandingMass,

		Binding:  constraintNames(s.Binding),
		Violated: constraintNames(s.Violated),
	}
}

// NewMetricsOut converts solver metrics to their wire form.
func NewMetricsOut(m opt.Metrics) SolveMetricsOut {
	out := SolveMetricsOut{Iterations: m.Iterations, FinalDelta: m.FinalDelta, Diverged: m.Diverged}
	for _, s := range m.Snapshots {
		out.Snapshots = append(out.Snapshots, IterationOut{
			Iteration:   s.Iteration,
			ExtraWeight: s.ExtraWeight,
			TripFuel:    s.TripFuel,
			Cargo:       s.Cargo,
			ExtraFuel:   s.ExtraFuel,
			Profit:      s.Profit,
		})
	}
	return out
}

// NewTradeoffOut converts a tradeoff sweep to its wire form.
func NewTradeoffOut(pts []opt.TradeoffPoint) []TradeoffPointOut {
	out := make([]TradeoffPointOut, len(pts))
	for i, p := range pts {
		out[i] = TradeoffPointOut{
			Ratio:            p.Ratio,
			Cargo:            p.Cargo,
			ExtraFuel:        p.ExtraFuel,
			Profit:           p.Profit,
			CargoRevenue:     p.CargoRevenue,
			TankeringSavings: p.TankeringSavings,
			AdditionalBurn:   p.AdditionalBurn,
			Feasible:         p.Feasible,
			Violated:         constraintNames(p.Violated),
		}
	}
	return out
}

func constraintNames(ids []opt.ConstraintID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Scenario assembles the immutable solver input from resolved reference
// data. alpha is the burn factor after override/calibration resolution.
func Scenario(a AircraftProfile, r RouteRecord, p OperationalPolicy, paxWeight, alpha float64) opt.Scenario {
	return opt.Scenario{
		Aircraft: opt.Aircraft{
			Type:         a.Type,
			MTOW:         a.MTOW,
			MLW:          a.MLW,
			MZFW:         a.MZFW,
			DOM:          a.DOM,
			FuelCapacity: a.FuelCapacity,
			MaxPayload:   a.MaxPayload,
		},
		Route: opt.Route{
			DistanceNm:    r.DistanceNm,
			MinTripFuel:   r.MinTripFuel,
			AlternateFuel: r.AlternateFuel,
		},
		Econ: opt.Economics{
			PriceOrigin: r.PriceOrigin,
			PriceDest:   r.PriceDest,
			Density:     r.Density,
			CargoRate:   r.CargoRate,
		},
		Policy:     opt.Policy{ContingencyPct: p.ContingencyPct, ReserveFuel: p.ReserveFuel},
		PaxWeight:  paxWeight,
		BurnFactor: alpha,
	}
}

// SolverOptions converts wire options to solver options; nil means defaults.
func SolverOptions(o *SolveOptions) opt.Options {
	if o == nil {
		return opt.Options{}
	}
	return opt.Options{
		ToleranceKg:   o.ToleranceKg,
		RelTolerance:  o.RelTolerance,
		MaxIterations: o.MaxIterations,
	}
}
