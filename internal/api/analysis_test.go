package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"tankplan/internal/model"
)

func TestRouteTradeoff(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/routes/MLE-TFU/tradeoff?steps=4&paxWeight=24174", nil)
	s.RouteByIDHandler(rr, req)
	if rr.Code != 200 {
		t.Fatalf("tradeoff: got %d, body %s", rr.Code, rr.Body.String())
	}
	var resp model.TradeoffResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RouteID != "MLE-TFU" || resp.AircraftType != "A330-203" {
		t.Fatalf("ids: %+v", resp)
	}
	if len(resp.Points) != 5 {
		t.Fatalf("points: got %d, want 5", len(resp.Points))
	}
	last := resp.Points[4]
	// all-cargo end of the sweep fills to the zero-fuel-weight limit
	if math.Abs(last.Cargo-25516) > 1e-6 || last.ExtraFuel > 1e-6 {
		t.Fatalf("all-cargo point: %+v", last)
	}
	if !last.Feasible || last.Profit <= resp.Points[0].Profit {
		t.Fatalf("profit curve: first %+v last %+v", resp.Points[0], last)
	}
}

func TestRouteTradeoffBadInput(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.RouteByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/routes/MLE-TFU/tradeoff?steps=0", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("zero steps: got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	s.RouteByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/routes/XXX-YYY/tradeoff", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown route: got %d", rr.Code)
	}
}

func TestSensitivitySweep(t *testing.T) {
	s := newTestServer(t)
	rr := postJSON(t, s.SensitivityHandler, "/v1/solve/sensitivity", map[string]any{
		"routeId":   "MLE-TFU",
		"paxWeight": 24174,
		"parameter": "cargoRate",
		"values":    []float64{0, 2.6},
	})
	if rr.Code != 200 {
		t.Fatalf("sensitivity: got %d, body %s", rr.Code, rr.Body.String())
	}
	var resp model.SensitivityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Parameter != "cargoRate" || resp.RouteID != "MLE-TFU" {
		t.Fatalf("echo: %+v", resp)
	}
	if len(resp.Points) != 2 || resp.Points[0].Value != 0 || resp.Points[1].Value != 2.6 {
		t.Fatalf("points out of order: %+v", resp.Points)
	}
	if resp.Points[0].Solution.Cargo > 1e-6 {
		t.Fatalf("rate 0 should load no cargo: %+v", resp.Points[0].Solution)
	}
	if math.Abs(resp.Points[1].Solution.Cargo-25516) > 1 {
		t.Fatalf("rate 2.6: cargo %g", resp.Points[1].Solution.Cargo)
	}
}

func TestSensitivityBadInput(t *testing.T) {
	s := newTestServer(t)
	rr := postJSON(t, s.SensitivityHandler, "/v1/solve/sensitivity", map[string]any{
		"routeId":   "MLE-TFU",
		"parameter": "density",
		"values":    []float64{0.8},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown parameter: got %d", rr.Code)
	}
	rr = postJSON(t, s.SensitivityHandler, "/v1/solve/sensitivity", map[string]any{
		"routeId":   "MLE-TFU",
		"parameter": "priceDest",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing values: got %d", rr.Code)
	}
}
