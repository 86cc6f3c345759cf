package opt

import "fmt"

// BurnModel maps extra carried weight to trip fuel for one leg. Pure and
// deterministic: trip_fuel(w) = minTripFuel + α·w·distance, with w clamped
// to zero before evaluation.
type BurnModel struct {
	minTripFuel float64
	perKg       float64 // α·distance: extra burn per kg carried
}

// NewBurnModel builds a burn model for a route. Negative distance or burn
// factor is rejected with ErrInvalidScenario.
func NewBurnModel(r Route, burnFactor float64) (BurnModel, error) {
	if r.DistanceNm < 0 {
		return BurnModel{}, fmt.Errorf("%w: negative distance %g", ErrInvalidScenario, r.DistanceNm)
	}
	if burnFactor < 0 {
		return BurnModel{}, fmt.Errorf("%w: negative burn factor %g", ErrInvalidScenario, burnFactor)
	}
	return BurnModel{minTripFuel: r.MinTripFuel, perKg: burnFactor * r.DistanceNm}, nil
}

// BurnPerKg returns α·distance, the marginal burn per kg of extra weight.
func (m BurnModel) BurnPerKg() float64 { return m.perKg }

// TripFuel returns total trip fuel in kg at the given extra weight.
func (m BurnModel) TripFuel(extraWeight float64) float64 {
	if extraWeight < 0 {
		extraWeight = 0
	}
	return m.minTripFuel + m.perKg*extraWeight
}

// AdditionalBurn returns the burn attributable to the extra weight alone.
func (m BurnModel) AdditionalBurn(extraWeight float64) float64 {
	return m.TripFuel(extraWeight) - m.minTripFuel
}
