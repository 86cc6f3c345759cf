package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tankplan/internal/metrics"
	"tankplan/internal/model"
	"tankplan/internal/opt"
	"tankplan/internal/store"
)

const maxBatchScenarios = 100

// SolveHandler handles POST /v1/solve
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	resp, err := s.solveOne(r, req)
	if err != nil {
		writeSolveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// BatchSolveHandler handles POST /v1/solve/batch. Scenarios are independent,
// so they run concurrently; a bad scenario fails its slot, not the batch.
func (s *Server) BatchSolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.BatchSolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if len(req.Scenarios) == 0 {
		writeProblem(w, http.StatusBadRequest, "Empty batch", "scenarios required", r.URL.Path)
		return
	}
	if len(req.Scenarios) > maxBatchScenarios {
		writeProblem(w, http.StatusBadRequest, "Batch too large", fmt.Sprintf("at most %d scenarios", maxBatchScenarios), r.URL.Path)
		return
	}
	type item struct {
		Index    int                  `json:"index"`
		Response *model.SolveResponse `json:"response,omitempty"`
		Error    string               `json:"error,omitempty"`
	}
	items := make([]item, len(req.Scenarios))
	var wg sync.WaitGroup
	for i, sr := range req.Scenarios {
		wg.Add(1)
		go func(i int, sr model.SolveRequest) {
			defer wg.Done()
			items[i].Index = i
			if err := validateSolveRequest(&sr); err != nil {
				items[i].Error = err.Error()
				return
			}
			resp, err := s.solveOne(r, sr)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Response = &resp
		}(i, sr)
	}
	wg.Wait()
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// solveOne resolves the scenario, runs the solver, records the result, and
// notifies route subscribers.
func (s *Server) solveOne(r *http.Request, req model.SolveRequest) (model.SolveResponse, error) {
	ctx := r.Context()
	aircraft, route, pol, alpha, err := s.resolveScenario(ctx, req)
	if err != nil {
		return model.SolveResponse{}, err
	}
	sc := model.Scenario(aircraft, route, pol, req.PaxWeight, alpha)

	start := time.Now()
	sol, m, err := opt.Solve(sc, model.SolverOptions(req.Options))
	metrics.SolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return model.SolveResponse{}, err
	}
	metrics.Solves.WithLabelValues(sol.Status.String()).Inc()
	metrics.SolveIterations.Observe(float64(m.Iterations))

	resp := model.SolveResponse{
		RequestID: uuid.New().String(),
		RouteID:   route.ID,
		Solution:  model.NewSolutionOut(sol),
		Metrics:   model.NewMetricsOut(m),
	}

	rec := model.SolveRecord{
		ID:           resp.RequestID,
		RouteID:      route.ID,
		AircraftType: aircraft.Type,
		PaxWeight:    req.PaxWeight,
		BurnFactor:   alpha,
		Solution:     resp.Solution,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.SaveSolution(ctx, rec); err != nil {
		return model.SolveResponse{}, err
	}
	if route.ID != "" {
		s.Broker.Publish(route.ID, SSEEvent{Type: "solution.created", Data: map[string]any{
			"requestId": resp.RequestID,
			"routeId":   route.ID,
			"status":    sol.Status.String(),
			"cargo":     sol.Cargo,
			"extraFuel": sol.ExtraFuel,
			"profit":    sol.Profit,
		}})
	}
	return resp, nil
}

func writeSolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsBadRequest(err), errors.Is(err, opt.ErrInvalidScenario):
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
	default:
		writeProblem(w, http.StatusInternalServerError, "Solve failed", err.Error(), r.URL.Path)
	}
}

// AircraftHandler handles GET/PUT /v1/aircraft
func (s *Server) AircraftHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.Store.ListAircraft(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List aircraft failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPut, http.MethodPost:
		var a model.AircraftProfile
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateAircraft(&a); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid aircraft profile", err.Error(), r.URL.Path)
			return
		}
		if err := s.Store.PutAircraft(r.Context(), a); err != nil {
			writeProblem(w, http.StatusInternalServerError, "Save aircraft failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, a)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// AircraftByTypeHandler handles GET /v1/aircraft/{type}
func (s *Server) AircraftByTypeHandler(w http.ResponseWriter, r *http.Request) {
	typ := strings.TrimPrefix(r.URL.Path, "/v1/aircraft/")
	if typ == "" || strings.Contains(typ, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing aircraft type", r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	a, err := s.Store.GetAircraft(r.Context(), typ)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Aircraft not found", typ, r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Get aircraft failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// RoutesHandler handles GET/PUT /v1/routes
func (s *Server) RoutesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.Store.ListRoutes(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List routes failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPut, http.MethodPost:
		var rec model.RouteRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateRoute(&rec); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid route", err.Error(), r.URL.Path)
			return
		}
		if err := s.Store.PutRoute(r.Context(), rec); err != nil {
			writeProblem(w, http.StatusInternalServerError, "Save route failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// RouteByIDHandler handles /v1/routes/{id}, /v1/routes/{id}/solutions,
// /v1/routes/{id}/tradeoff, and the SSE stream
// /v1/routes/{id}/solutions/stream
func (s *Server) RouteByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/routes/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]

	if len(parts) == 3 && parts[1] == "solutions" && parts[2] == "stream" {
		s.streamRouteSolutions(w, r, id)
		return
	}
	if len(parts) == 2 && parts[1] == "tradeoff" {
		s.tradeoffRoute(w, r, id)
		return
	}
	if len(parts) == 2 && parts[1] == "solutions" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, err := s.Store.ListSolutions(r.Context(), id, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List solutions failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
		return
	}
	if len(parts) != 1 {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := s.Store.GetRoute(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeProblem(w, http.StatusNotFound, "Route not found", id, r.URL.Path)
				return
			}
			writeProblem(w, http.StatusInternalServerError, "Get route failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodPut:
		var rec model.RouteRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		rec.ID = id
		if err := validateRoute(&rec); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid route", err.Error(), r.URL.Path)
			return
		}
		if err := s.Store.PutRoute(r.Context(), rec); err != nil {
			writeProblem(w, http.StatusInternalServerError, "Save route failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := s.Store.DeleteRoute(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeProblem(w, http.StatusNotFound, "Route not found", id, r.URL.Path)
				return
			}
			writeProblem(w, http.StatusInternalServerError, "Delete route failed", err.Error(), r.URL.Path)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) streamRouteSolutions(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	ch := s.Broker.Subscribe(id)
	defer s.Broker.Unsubscribe(id, ch)
	heartbeat := func() {
		fmt.Fprintf(w, "event: heartbeat\n")
		fmt.Fprintf(w, "data: {\"routeId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
		flusher.Flush()
	}
	heartbeat()
	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case evt := <-ch:
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\n", evt.Type)
			fmt.Fprintf(w, "data: %s\n\n", string(b))
			flusher.Flush()
		case <-time.After(15 * time.Second):
			heartbeat()
		}
	}
}

// PolicyHandler handles GET/PUT /v1/policy
func (s *Server) PolicyHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pol, err := s.Store.GetPolicy(r.Context())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusOK, s.Cfg.Policy)
				return
			}
			writeProblem(w, http.StatusInternalServerError, "Get policy failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, pol)
	case http.MethodPut:
		var pol model.OperationalPolicy
		if err := json.NewDecoder(r.Body).Decode(&pol); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if pol.ContingencyPct < 0 || pol.ReserveFuel < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid policy", "negative values", r.URL.Path)
			return
		}
		if err := s.Store.PutPolicy(r.Context(), pol); err != nil {
			writeProblem(w, http.StatusInternalServerError, "Save policy failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, pol)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SolutionsHandler handles GET /v1/solutions
func (s *Server) SolutionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, err := s.Store.ListSolutions(r.Context(), r.URL.Query().Get("routeId"), limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List solutions failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// BurnSamplesHandler handles POST /v1/calibration/burn-samples
func (s *Server) BurnSamplesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Samples []model.BurnSample `json:"samples"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if len(req.Samples) == 0 {
		writeProblem(w, http.StatusBadRequest, "No samples", "samples required", r.URL.Path)
		return
	}
	accepted, err := s.Store.AddBurnSamples(r.Context(), req.Samples)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save samples failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": accepted, "skipped": len(req.Samples) - accepted})
}

// BurnFactorHandler handles GET /v1/calibration/burn-factor
func (s *Server) BurnFactorHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	typ := r.URL.Query().Get("aircraftType")
	if typ == "" {
		typ = s.Cfg.DefaultAircraft
	}
	if typ == "" {
		writeProblem(w, http.StatusBadRequest, "Missing aircraftType", "", r.URL.Path)
		return
	}
	alpha, n, err := s.Store.BurnFactor(r.Context(), typ)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Burn factor failed", err.Error(), r.URL.Path)
		return
	}
	source := "calibrated"
	if n == 0 {
		source = "profile"
		if a, err := s.Store.GetAircraft(r.Context(), typ); err == nil {
			alpha = a.BurnFactor
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"aircraftType": typ, "burnFactor": alpha, "samples": n, "source": source})
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz; reports not-ready while the backing
// store is unreachable.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.Store.(interface {
		Ping(ctx context.Context) error
	}); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
