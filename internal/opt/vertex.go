package opt

import "math"

// Vertex is a feasible corner of the constraint polytope with its objective
// value and the constraints that hold with equality there.
type Vertex struct {
	Cargo     float64
	ExtraFuel float64
	Profit    float64
	Binding   []ConstraintID
}

// detTol rejects near-parallel line pairs when intersecting constraints.
const detTol = 1e-12

// BestVertex maximizes the linear objective over the polytope by enumerating
// the intersection of every pair of constraint boundary lines (the
// non-negativity axes included), discarding points that violate any other
// constraint, and picking the feasible vertex with the highest profit. Ties
// are broken deterministically by preferring greater extra fuel, then
// greater cargo. ok is false when no feasible vertex exists.
//
// With two variables and a fixed handful of constraints this exact
// enumeration is preferred over a general LP solver: every candidate is a
// closed-form 2x2 solve, so results are reproducible bit-for-bit across
// runs, which matters for auditing a fuel decision after the fact.
func BestVertex(cs []Constraint, obj Objective) (Vertex, bool) {
	best := Vertex{Profit: math.Inf(-1)}
	found := false
	for i := 0; i < len(cs); i++ {
		for j := i + 1; j < len(cs); j++ {
			x, y, ok := intersect(cs[i], cs[j])
			if !ok {
				continue
			}
			if !feasible(cs, x, y) {
				continue
			}
			p := obj.Profit(x, y)
			if !found || better(p, x, y, best) {
				best = Vertex{Cargo: x, ExtraFuel: y, Profit: p}
				found = true
			}
		}
	}
	if !found {
		return Vertex{}, false
	}
	best.Binding = binding(cs, best.Cargo, best.ExtraFuel)
	return best, true
}

// intersect solves the 2x2 system where both constraints hold with equality.
func intersect(a, b Constraint) (x, y float64, ok bool) {
	det := a.A*b.B - b.A*a.B
	if math.Abs(det) < detTol {
		return 0, 0, false
	}
	x = (a.C*b.B - b.C*a.B) / det
	y = (a.A*b.C - b.A*a.C) / det
	return x, y, true
}

func feasible(cs []Constraint, x, y float64) bool {
	for _, c := range cs {
		if c.Slack(x, y) < -tol(c) {
			return false
		}
	}
	return true
}

// tol scales the base tolerance by the constraint magnitude so that
// rounding at the 1e5 kg scale does not reject true vertices.
func tol(c Constraint) float64 {
	return feasTol * math.Max(1, math.Abs(c.C))
}

// better reports whether candidate (p, x, y) beats the incumbent, applying
// the documented tie-break: higher profit, then more extra fuel, then more
// cargo.
func better(p, x, y float64, inc Vertex) bool {
	if p > inc.Profit+feasTol {
		return true
	}
	if p < inc.Profit-feasTol {
		return false
	}
	if y > inc.ExtraFuel+feasTol {
		return true
	}
	if y < inc.ExtraFuel-feasTol {
		return false
	}
	return x > inc.Cargo+feasTol
}

func binding(cs []Constraint, x, y float64) []ConstraintID {
	var out []ConstraintID
	for _, c := range cs {
		if math.Abs(c.Slack(x, y)) <= tol(c) {
			out = append(out, c.ID)
		}
	}
	return out
}
