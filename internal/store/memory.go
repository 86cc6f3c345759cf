package store

import (
	"context"
	"sort"
	"sync"

	"tankplan/internal/config"
	"tankplan/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set. It is
// seeded from the reference-data config so the server is usable immediately.
type Memory struct {
	mu        sync.Mutex
	aircraft  map[string]model.AircraftProfile // type -> profile
	routes    map[string]model.RouteRecord     // id -> route
	policy    model.OperationalPolicy
	solutions []model.SolveRecord // newest last
	samples   map[string][]model.BurnSample // aircraft type -> samples
}

func NewMemory(cfg config.Config) *Memory {
	m := &Memory{
		aircraft: map[string]model.AircraftProfile{},
		routes:   map[string]model.RouteRecord{},
		policy:   cfg.Policy,
		samples:  map[string][]model.BurnSample{},
	}
	for _, a := range cfg.Aircraft {
		m.aircraft[a.Type] = a
	}
	for _, r := range cfg.Routes {
		m.routes[r.ID] = r
	}
	return m
}

func (m *Memory) GetAircraft(ctx context.Context, aircraftType string) (model.AircraftProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.aircraft[aircraftType]
	if !ok {
		return model.AircraftProfile{}, ErrNotFound
	}
	return a, nil
}

func (m *Memory) ListAircraft(ctx context.Context) ([]model.AircraftProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AircraftProfile, 0, len(m.aircraft))
	for _, a := range m.aircraft {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (m *Memory) PutAircraft(ctx context.Context, a model.AircraftProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aircraft[a.Type] = a
	return nil
}

func (m *Memory) GetRoute(ctx context.Context, id string) (model.RouteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routes[id]
	if !ok {
		return model.RouteRecord{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) ListRoutes(ctx context.Context) ([]model.RouteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.RouteRecord, 0, len(m.routes))
	for _, r := range m.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) PutRoute(ctx context.Context, r model.RouteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[r.ID] = r
	return nil
}

func (m *Memory) DeleteRoute(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[id]; !ok {
		return ErrNotFound
	}
	delete(m.routes, id)
	return nil
}

func (m *Memory) GetPolicy(ctx context.Context) (model.OperationalPolicy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.policy, nil
}

func (m *Memory) PutPolicy(ctx context.Context, p model.OperationalPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policy = p
	return nil
}

func (m *Memory) SaveSolution(ctx context.Context, rec model.SolveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solutions = append(m.solutions, rec)
	return nil
}

func (m *Memory) ListSolutions(ctx context.Context, routeID string, limit int) ([]model.SolveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := []model.SolveRecord{}
	for i := len(m.solutions) - 1; i >= 0 && len(out) < limit; i-- {
		rec := m.solutions[i]
		if routeID != "" && rec.RouteID != routeID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *Memory) AddBurnSamples(ctx context.Context, samples []model.BurnSample) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accepted := 0
	for _, s := range samples {
		if s.AircraftType == "" || s.ExtraWeight <= 0 || s.DistanceNm <= 0 || s.ExtraBurn < 0 {
			continue
		}
		m.samples[s.AircraftType] = append(m.samples[s.AircraftType], s)
		accepted++
	}
	return accepted, nil
}

func (m *Memory) BurnFactor(ctx context.Context, aircraftType string) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	alpha, n := FitBurnFactor(m.samples[aircraftType])
	return alpha, n, nil
}
