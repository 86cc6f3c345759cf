package opt

// Objective is the iteration-local linear profit function. With
// k = α·distance, ρ = density and Δp = priceDest − priceOrigin:
//
//	profit = R·cargo + Δp·(extra − burn)/ρ − burn·priceOrigin/ρ
//	burn   = k·(cargo + extra)
//
// which collapses to profit = Cargo·cargo + Fuel·extra with the closed-form
// coefficients below. Linearity in both variables is what makes exact vertex
// search sufficient.
type Objective struct {
	Cargo float64 // marginal profit per kg of cargo
	Fuel  float64 // marginal profit per kg of tankered fuel
}

// NewObjective derives the profit coefficients for a scenario.
func NewObjective(sc Scenario) Objective {
	k := sc.BurnFactor * sc.Route.DistanceNm
	rho := sc.Econ.Density
	return Objective{
		Cargo: sc.Econ.CargoRate - k*sc.Econ.PriceDest/rho,
		Fuel:  (sc.Econ.PriceDest-sc.Econ.PriceOrigin)/rho - k*sc.Econ.PriceDest/rho,
	}
}

// Profit evaluates the objective at a candidate point.
func (o Objective) Profit(cargo, extraFuel float64) float64 {
	return o.Cargo*cargo + o.Fuel*extraFuel
}
