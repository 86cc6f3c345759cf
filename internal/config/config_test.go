package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default refdata invalid: %v", err)
	}
	if cfg.DefaultAircraft != "A330-203" {
		t.Fatalf("default aircraft: got %q", cfg.DefaultAircraft)
	}
	if len(cfg.Routes) == 0 {
		t.Fatal("default refdata has no routes")
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
defaultAircraft: A330-203
aircraft:
  - type: A330-203
    mtow: 233000
    mlw: 182000
    mzfw: 170000
    dom: 120310
    fuelCapacity: 109186
    maxPayload: 49717
    burnFactor: 0.00022
routes:
  - id: MLE-TFU
    origin: MLE
    destination: TFU
    distanceNm: 2662
    minTripFuel: 32841
    priceOrigin: 0.9974
    priceDest: 0.6875
    density: 0.785
    cargoRate: 2.6
policy:
  contingencyPct: 0.05
  reserveFuel: 2500
`
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Aircraft) != 1 || cfg.Aircraft[0].MTOW != 233000 {
		t.Fatalf("aircraft: %+v", cfg.Aircraft)
	}
	if len(cfg.Routes) != 1 || cfg.Routes[0].PriceDest != 0.6875 {
		t.Fatalf("routes: %+v", cfg.Routes)
	}
	if cfg.Policy.ReserveFuel != 2500 {
		t.Fatalf("policy: %+v", cfg.Policy)
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"duplicate route": `
aircraft:
  - {type: A330-203, mtow: 233000, mlw: 182000, mzfw: 170000, dom: 120310, fuelCapacity: 109186}
routes:
  - {id: MLE-TFU, distanceNm: 2662, minTripFuel: 32841, density: 0.785}
  - {id: MLE-TFU, distanceNm: 2662, minTripFuel: 32841, density: 0.785}
`,
		"no aircraft": `
routes:
  - {id: MLE-TFU, distanceNm: 2662, minTripFuel: 32841, density: 0.785}
`,
		"zero density": `
aircraft:
  - {type: A330-203, mtow: 233000, mlw: 182000, mzfw: 170000, dom: 120310, fuelCapacity: 109186}
routes:
  - {id: MLE-TFU, distanceNm: 2662, minTripFuel: 32841}
`,
		"unknown default": `
defaultAircraft: B777
aircraft:
  - {type: A330-203, mtow: 233000, mlw: 182000, mzfw: 170000, dom: 120310, fuelCapacity: 109186}
`,
	}
	for name, doc := range cases {
		path := filepath.Join(t.TempDir(), "refdata.yaml")
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("REFDATA_PATH", "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if len(cfg.Aircraft) == 0 {
		t.Fatal("expected built-in defaults")
	}
}
