package api

import (
	"fmt"

	"tankplan/internal/model"
)

func validateSolveRequest(req *model.SolveRequest) error {
	if req.PaxWeight < 0 {
		return fmt.Errorf("paxWeight must be >= 0")
	}
	if req.BurnFactor != nil && *req.BurnFactor < 0 {
		return fmt.Errorf("burnFactor must be >= 0")
	}
	if req.Aircraft != nil {
		if err := validateAircraft(req.Aircraft); err != nil {
			return err
		}
	}
	if req.Route != nil {
		if err := validateRoute(req.Route); err != nil {
			return err
		}
	}
	if req.Policy != nil {
		if req.Policy.ContingencyPct < 0 || req.Policy.ReserveFuel < 0 {
			return fmt.Errorf("policy values must be >= 0")
		}
	}
	if o := req.Options; o != nil {
		if o.ToleranceKg < 0 {
			return fmt.Errorf("toleranceKg must be >= 0")
		}
		if o.RelTolerance < 0 {
			return fmt.Errorf("relTolerance must be >= 0")
		}
		if o.MaxIterations < 0 || o.MaxIterations > 500 {
			return fmt.Errorf("maxIterations must be in [0,500]")
		}
	}
	return nil
}

func validateAircraft(a *model.AircraftProfile) error {
	if a.Type == "" {
		return fmt.Errorf("aircraft type required")
	}
	if a.MTOW <= 0 || a.MLW <= 0 || a.MZFW <= 0 || a.DOM <= 0 || a.FuelCapacity <= 0 {
		return fmt.Errorf("aircraft limits must be > 0")
	}
	if a.MaxPayload < 0 || a.BurnFactor < 0 {
		return fmt.Errorf("maxPayload and burnFactor must be >= 0")
	}
	if a.MZFW > a.MTOW || a.MLW > a.MTOW {
		return fmt.Errorf("mzfw and mlw must not exceed mtow")
	}
	return nil
}

func validateRoute(r *model.RouteRecord) error {
	if r.ID == "" {
		return fmt.Errorf("route id required")
	}
	if r.DistanceNm <= 0 {
		return fmt.Errorf("distanceNm must be > 0")
	}
	if r.MinTripFuel <= 0 {
		return fmt.Errorf("minTripFuel must be > 0")
	}
	if r.Density <= 0 {
		return fmt.Errorf("density must be > 0")
	}
	if r.PriceOrigin < 0 || r.PriceDest < 0 || r.CargoRate < 0 || r.AlternateFuel < 0 {
		return fmt.Errorf("prices, cargoRate, and alternateFuel must be >= 0")
	}
	return nil
}
