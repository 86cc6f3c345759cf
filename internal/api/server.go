package api

import (
	"context"
	"errors"
	"os"
	"strings"

	"tankplan/internal/config"
	"tankplan/internal/model"
	"tankplan/internal/store"
)

type Server struct {
	Store  store.Store
	Broker EventBroker
	Cfg    config.Config
}

// NewServer creates a Server. Reference data comes from REFDATA_PATH (or the
// built-in defaults); if DATABASE_URL is unset, uses the in-memory store.
func NewServer() (*Server, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	var s store.Store
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn == "" {
		s = store.NewMemory(cfg)
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		if os.Getenv("DB_MIGRATE") != "false" {
			ctx := context.Background()
			if err := sp.Migrate(ctx); err != nil {
				return nil, err
			}
			if err := sp.Seed(ctx, cfg.Aircraft, cfg.Routes, cfg.Policy); err != nil {
				return nil, err
			}
		}
		s = sp
	}
	var broker EventBroker
	if os.Getenv("REDIS_URL") != "" {
		if rb, err := NewRedisBroker(); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	return &Server{Store: s, Broker: broker, Cfg: cfg}, nil
}

// resolveScenario turns a wire request into a solver scenario: inline
// profiles win over stored ones, and the burn factor is resolved in order
// request override, calibrated fit, aircraft default.
func (s *Server) resolveScenario(ctx context.Context, req model.SolveRequest) (model.AircraftProfile, model.RouteRecord, model.OperationalPolicy, float64, error) {
	var aircraft model.AircraftProfile
	if req.Aircraft != nil {
		aircraft = *req.Aircraft
	} else {
		typ := req.AircraftType
		if typ == "" {
			typ = s.Cfg.DefaultAircraft
		}
		if typ == "" {
			return aircraft, model.RouteRecord{}, model.OperationalPolicy{}, 0, errBadRequest("aircraft or aircraftType required")
		}
		a, err := s.Store.GetAircraft(ctx, typ)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return aircraft, model.RouteRecord{}, model.OperationalPolicy{}, 0, errBadRequest("unknown aircraft type " + typ)
			}
			return aircraft, model.RouteRecord{}, model.OperationalPolicy{}, 0, err
		}
		aircraft = a
	}

	var route model.RouteRecord
	if req.Route != nil {
		route = *req.Route
	} else {
		if req.RouteID == "" {
			return aircraft, route, model.OperationalPolicy{}, 0, errBadRequest("route or routeId required")
		}
		r, err := s.Store.GetRoute(ctx, req.RouteID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return aircraft, route, model.OperationalPolicy{}, 0, errBadRequest("unknown route " + req.RouteID)
			}
			return aircraft, route, model.OperationalPolicy{}, 0, err
		}
		route = r
	}

	var pol model.OperationalPolicy
	if req.Policy != nil {
		pol = *req.Policy
	} else {
		p, err := s.Store.GetPolicy(ctx)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return aircraft, route, pol, 0, err
			}
			p = s.Cfg.Policy
		}
		pol = p
	}

	alpha := aircraft.BurnFactor
	if req.BurnFactor != nil {
		alpha = *req.BurnFactor
	} else if aircraft.Type != "" {
		if fit, n, err := s.Store.BurnFactor(ctx, aircraft.Type); err == nil && n > 0 {
			alpha = fit
		}
	}
	return aircraft, route, pol, alpha, nil
}

// badRequestError marks resolution failures the client caused.
type badRequestError string

func errBadRequest(msg string) error { return badRequestError(msg) }

func (e badRequestError) Error() string { return string(e) }

// IsBadRequest reports whether err came from request resolution rather than
// the store or the solver.
func IsBadRequest(err error) bool {
	var b badRequestError
	return errors.As(err, &b)
}
