package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tankplan/internal/model"
	"tankplan/internal/opt"
)

const maxSensitivityValues = 50

// SensitivityHandler handles POST /v1/solve/sensitivity: one scenario
// re-solved per value of a price input, for what-if analysis ahead of a
// fuel-price change or a cargo-rate negotiation. Results are not persisted
// and no events are published.
func (s *Server) SensitivityHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req.SolveRequest); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid sensitivity request", err.Error(), r.URL.Path)
		return
	}
	if len(req.Values) > maxSensitivityValues {
		writeProblem(w, http.StatusBadRequest, "Too many values", fmt.Sprintf("at most %d values", maxSensitivityValues), r.URL.Path)
		return
	}
	aircraft, route, pol, alpha, err := s.resolveScenario(r.Context(), req.SolveRequest)
	if err != nil {
		writeSolveError(w, r, err)
		return
	}
	sc := model.Scenario(aircraft, route, pol, req.PaxWeight, alpha)
	pts, err := opt.Sensitivity(sc, opt.SensitivityParam(req.Parameter), req.Values, model.SolverOptions(req.Options))
	if err != nil {
		writeSolveError(w, r, err)
		return
	}
	resp := model.SensitivityResponse{RouteID: route.ID, Parameter: req.Parameter}
	for _, p := range pts {
		resp.Points = append(resp.Points, model.SensitivityPointOut{
			Value:    p.Value,
			Solution: model.NewSolutionOut(p.Solution),
			Metrics:  model.NewMetricsOut(p.Metrics),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// tradeoffRoute handles GET /v1/routes/{id}/tradeoff: the cargo-vs-fuel
// profit curve for a stored route, swept in `steps` increments. aircraftType,
// paxWeight and burnFactor query parameters resolve exactly as in a solve.
func (s *Server) tradeoffRoute(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	steps := 10
	if v := q.Get("steps"); v != "" {
		fmt.Sscanf(v, "%d", &steps)
	}
	if steps < 1 || steps > 1000 {
		writeProblem(w, http.StatusBadRequest, "Invalid steps", "steps must be between 1 and 1000", r.URL.Path)
		return
	}
	req := model.SolveRequest{AircraftType: q.Get("aircraftType"), RouteID: id}
	if v := q.Get("paxWeight"); v != "" {
		fmt.Sscanf(v, "%g", &req.PaxWeight)
	}
	if v := q.Get("burnFactor"); v != "" {
		var bf float64
		fmt.Sscanf(v, "%g", &bf)
		req.BurnFactor = &bf
	}
	aircraft, route, pol, alpha, err := s.resolveScenario(r.Context(), req)
	if err != nil {
		writeSolveError(w, r, err)
		return
	}
	sc := model.Scenario(aircraft, route, pol, req.PaxWeight, alpha)
	pts, err := opt.Tradeoff(sc, steps)
	if err != nil {
		writeSolveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.TradeoffResponse{
		RouteID:      id,
		AircraftType: aircraft.Type,
		Points:       model.NewTradeoffOut(pts),
	})
}
