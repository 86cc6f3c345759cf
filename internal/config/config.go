// Package config loads the reference-data file: aircraft profiles, route
// tables with fuel prices, and the company fuel policy. The file is YAML and
// its location comes from REFDATA_PATH; without it the built-in defaults are
// used so the server runs out of the box.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tankplan/internal/model"
)

type Config struct {
	DefaultAircraft string                  `yaml:"defaultAircraft"`
	Aircraft        []model.AircraftProfile `yaml:"aircraft"`
	Routes          []model.RouteRecord     `yaml:"routes"`
	Policy          model.OperationalPolicy `yaml:"policy"`
}

// Default returns the built-in reference data: one A330-203 profile and the
// Male routes it flies, with the last published into-plane prices.
func Default() Config {
	return Config{
		DefaultAircraft: "A330-203",
		Aircraft: []model.AircraftProfile{
			{
				Type:         "A330-203",
				MTOW:         233000,
				MLW:          182000,
				MZFW:         170000,
				DOM:          120310,
				FuelCapacity: 109186,
				MaxPayload:   49717,
				BurnFactor:   0.00022,
			},
		},
		Routes: []model.RouteRecord{
			{
				ID: "MLE-TFU", Origin: "MLE", Destination: "TFU",
				DistanceNm: 2662, MinTripFuel: 32841,
				PriceOrigin: 0.9974, PriceDest: 0.6875,
				Density: 0.785, CargoRate: 2.6,
			},
			{
				ID: "MLE-PEK", Origin: "MLE", Destination: "PEK",
				DistanceNm: 3452, MinTripFuel: 42031,
				PriceOrigin: 0.9974, PriceDest: 0.7102,
				Density: 0.785, CargoRate: 2.6,
			},
			{
				ID: "MLE-PVG", Origin: "MLE", Destination: "PVG",
				DistanceNm: 3510, MinTripFuel: 42711,
				PriceOrigin: 0.9974, PriceDest: 0.6941,
				Density: 0.785, CargoRate: 2.6,
			},
		},
		Policy: model.OperationalPolicy{ContingencyPct: 0.05, ReserveFuel: 2500},
	}
}

// Load reads a reference-data file and validates it. Fields absent from the
// file keep their zero values; validation catches the ones that matter.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read refdata: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse refdata: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv loads REFDATA_PATH if set, otherwise the defaults.
func FromEnv() (Config, error) {
	if path := os.Getenv("REFDATA_PATH"); path != "" {
		return Load(path)
	}
	return Default(), nil
}

func (c Config) Validate() error {
	if len(c.Aircraft) == 0 {
		return fmt.Errorf("refdata: no aircraft profiles")
	}
	types := map[string]bool{}
	for _, a := range c.Aircraft {
		if a.Type == "" {
			return fmt.Errorf("refdata: aircraft profile without type")
		}
		if types[a.Type] {
			return fmt.Errorf("refdata: duplicate aircraft type %q", a.Type)
		}
		types[a.Type] = true
		if a.MTOW <= 0 || a.MZFW <= 0 || a.MLW <= 0 || a.DOM <= 0 || a.FuelCapacity <= 0 {
			return fmt.Errorf("refdata: aircraft %s has non-positive limits", a.Type)
		}
	}
	if c.DefaultAircraft != "" && !types[c.DefaultAircraft] {
		return fmt.Errorf("refdata: default aircraft %q not in profiles", c.DefaultAircraft)
	}
	ids := map[string]bool{}
	for _, r := range c.Routes {
		if r.ID == "" {
			return fmt.Errorf("refdata: route without id")
		}
		if ids[r.ID] {
			return fmt.Errorf("refdata: duplicate route %q", r.ID)
		}
		ids[r.ID] = true
		if r.DistanceNm <= 0 || r.MinTripFuel <= 0 {
			return fmt.Errorf("refdata: route %s has non-positive distance or trip fuel", r.ID)
		}
		if r.Density <= 0 {
			return fmt.Errorf("refdata: route %s has non-positive fuel density", r.ID)
		}
	}
	if c.Policy.ContingencyPct < 0 || c.Policy.ReserveFuel < 0 {
		return fmt.Errorf("refdata: negative policy values")
	}
	return nil
}
