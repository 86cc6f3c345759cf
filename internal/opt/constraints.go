package opt

// ConstraintID names one half-plane of the feasible region. The identifiers
// are stable and appear in Solution diagnostics and API responses.
type ConstraintID string

const (
	ConstraintMTOW         ConstraintID = "mtow"
	ConstraintMZFW         ConstraintID = "mzfw"
	ConstraintMLW          ConstraintID = "mlw"
	ConstraintFuelCapacity ConstraintID = "fuel_capacity"
	ConstraintMaxPayload   ConstraintID = "structural_payload"
	ConstraintCargoMin     ConstraintID = "cargo_nonneg"
	ConstraintFuelMin      ConstraintID = "extra_fuel_nonneg"
)

// feasTol is the absolute slack tolerance, in kg, for feasibility and
// binding-constraint checks.
const feasTol = 1e-6

// Constraint is the half-plane A·cargo + B·extraFuel <= C.
type Constraint struct {
	ID ConstraintID
	A  float64
	B  float64
	C  float64
}

// Slack returns C − (A·cargo + B·extraFuel); negative means violated.
func (c Constraint) Slack(cargo, extraFuel float64) float64 {
	return c.C - (c.A*cargo + c.B*extraFuel)
}

// FuelPlan carries the iteration-local fuel totals derived from a fixed
// trip-fuel estimate. Recomputed every outer iteration; this is what
// linearizes the problem.
type FuelPlan struct {
	TripFuel        float64
	ContingencyFuel float64
	RequiredFuel    float64 // trip + contingency + alternate + reserve
}

// PlanFuel computes the required-fuel breakdown for a trip-fuel estimate.
// Contingency is taken from the weight-adjusted trip fuel, not the baseline.
func PlanFuel(tripFuel float64, r Route, p Policy) FuelPlan {
	cont := tripFuel * p.ContingencyPct
	return FuelPlan{
		TripFuel:        tripFuel,
		ContingencyFuel: cont,
		RequiredFuel:    tripFuel + cont + r.AlternateFuel + p.ReserveFuel,
	}
}

// Constraints derives the ordered half-plane list for the decision variables
// (cargo, extra_fuel), holding the fuel plan fixed:
//
//	mtow:    DOM + pax + cargo + required + extra <= MTOW
//	mzfw:    DOM + pax + cargo <= MZFW
//	mlw:     DOM + pax + cargo + required + extra - trip <= MLW
//	fuel:    required + extra <= capacity
//	payload: cargo <= max structural payload
//	cargo >= 0, extra >= 0
func Constraints(sc Scenario, plan FuelPlan) []Constraint {
	base := sc.Aircraft.DOM + sc.PaxWeight
	return []Constraint{
		{ID: ConstraintMTOW, A: 1, B: 1, C: sc.Aircraft.MTOW - base - plan.RequiredFuel},
		{ID: ConstraintMZFW, A: 1, B: 0, C: sc.Aircraft.MZFW - base},
		{ID: ConstraintMLW, A: 1, B: 1, C: sc.Aircraft.MLW - base - (plan.RequiredFuel - plan.TripFuel)},
		{ID: ConstraintFuelCapacity, A: 0, B: 1, C: sc.Aircraft.FuelCapacity - plan.RequiredFuel},
		{ID: ConstraintMaxPayload, A: 1, B: 0, C: sc.Aircraft.MaxPayload},
		{ID: ConstraintCargoMin, A: -1, B: 0, C: 0},
		{ID: ConstraintFuelMin, A: 0, B: -1, C: 0},
	}
}

// EmptyRegion reports the constraints that exclude the origin (0,0). Every
// upper-bound half-plane has non-negative coefficients on both variables, so
// if the origin is infeasible the whole non-negative quadrant is: the region
// is empty exactly when this list is non-empty.
func EmptyRegion(cs []Constraint) []ConstraintID {
	var out []ConstraintID
	for _, c := range cs {
		if c.Slack(0, 0) < -feasTol {
			out = append(out, c.ID)
		}
	}
	return out
}
