package store

import (
	"context"
	"errors"

	"tankplan/internal/model"
)

// Store is the persistence interface used by the API server. Reference data
// (aircraft, routes, policy) is read-mostly; solve history and burn samples
// are append-heavy.
type Store interface {
	// Aircraft profiles
	GetAircraft(ctx context.Context, aircraftType string) (model.AircraftProfile, error)
	ListAircraft(ctx context.Context) ([]model.AircraftProfile, error)
	PutAircraft(ctx context.Context, a model.AircraftProfile) error

	// Routes with their economics
	GetRoute(ctx context.Context, id string) (model.RouteRecord, error)
	ListRoutes(ctx context.Context) ([]model.RouteRecord, error)
	PutRoute(ctx context.Context, r model.RouteRecord) error
	DeleteRoute(ctx context.Context, id string) error

	// Company fuel policy (a single document)
	GetPolicy(ctx context.Context) (model.OperationalPolicy, error)
	PutPolicy(ctx context.Context, p model.OperationalPolicy) error

	// Solve history
	SaveSolution(ctx context.Context, rec model.SolveRecord) error
	ListSolutions(ctx context.Context, routeID string, limit int) ([]model.SolveRecord, error)

	// Burn-factor calibration
	AddBurnSamples(ctx context.Context, samples []model.BurnSample) (accepted int, err error)
	// BurnFactor fits alpha to the recorded samples for one aircraft type and
	// reports how many samples backed the fit. n == 0 means uncalibrated.
	BurnFactor(ctx context.Context, aircraftType string) (alpha float64, n int, err error)
}

var ErrNotFound = errors.New("not found")

// FitBurnFactor is the least-squares fit of extra burn against carried
// weight times distance, constrained through the origin: zero extra weight
// burns zero extra fuel. Samples with non-positive weight or distance carry
// no information and are skipped.
func FitBurnFactor(samples []model.BurnSample) (alpha float64, n int) {
	var sxy, sxx float64
	for _, s := range samples {
		if s.ExtraWeight <= 0 || s.DistanceNm <= 0 {
			continue
		}
		x := s.ExtraWeight * s.DistanceNm
		sxy += x * s.ExtraBurn
		sxx += x * x
		n++
	}
	if n == 0 || sxx == 0 {
		return 0, 0
	}
	alpha = sxy / sxx
	if alpha < 0 {
		alpha = 0
	}
	return alpha, n
}
