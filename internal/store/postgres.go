package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"tankplan/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// Migrate creates the schema if it does not exist. Idempotent; the server
// runs it at startup.
func (p *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS aircraft_profiles (
			type TEXT PRIMARY KEY,
			mtow DOUBLE PRECISION NOT NULL,
			mlw DOUBLE PRECISION NOT NULL,
			mzfw DOUBLE PRECISION NOT NULL,
			dom DOUBLE PRECISION NOT NULL,
			fuel_capacity DOUBLE PRECISION NOT NULL,
			max_payload DOUBLE PRECISION NOT NULL,
			burn_factor DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			origin TEXT NOT NULL DEFAULT '',
			destination TEXT NOT NULL DEFAULT '',
			distance_nm DOUBLE PRECISION NOT NULL,
			min_trip_fuel DOUBLE PRECISION NOT NULL,
			alternate_fuel DOUBLE PRECISION NOT NULL DEFAULT 0,
			price_origin DOUBLE PRECISION NOT NULL,
			price_dest DOUBLE PRECISION NOT NULL,
			density DOUBLE PRECISION NOT NULL,
			cargo_rate DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fuel_policy (
			id INT PRIMARY KEY DEFAULT 1,
			contingency_pct DOUBLE PRECISION NOT NULL,
			reserve_fuel DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS solve_history (
			id UUID PRIMARY KEY,
			route_id TEXT,
			aircraft_type TEXT,
			pax_weight DOUBLE PRECISION NOT NULL,
			burn_factor DOUBLE PRECISION NOT NULL,
			solution JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS solve_history_route_idx ON solve_history (route_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS burn_samples (
			id UUID PRIMARY KEY,
			aircraft_type TEXT NOT NULL,
			route_id TEXT,
			extra_weight DOUBLE PRECISION NOT NULL,
			distance_nm DOUBLE PRECISION NOT NULL,
			extra_burn DOUBLE PRECISION NOT NULL,
			flown_at DATE
		)`,
		`CREATE INDEX IF NOT EXISTS burn_samples_type_idx ON burn_samples (aircraft_type)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Seed inserts reference rows that are not already present.
func (p *Postgres) Seed(ctx context.Context, aircraft []model.AircraftProfile, routes []model.RouteRecord, pol model.OperationalPolicy) error {
	for _, a := range aircraft {
		_, err := p.db.ExecContext(ctx, `INSERT INTO aircraft_profiles (type, mtow, mlw, mzfw, dom, fuel_capacity, max_payload, burn_factor)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8) ON CONFLICT (type) DO NOTHING`,
			a.Type, a.MTOW, a.MLW, a.MZFW, a.DOM, a.FuelCapacity, a.MaxPayload, a.BurnFactor)
		if err != nil {
			return err
		}
	}
	for _, r := range routes {
		_, err := p.db.ExecContext(ctx, `INSERT INTO routes (id, origin, destination, distance_nm, min_trip_fuel, alternate_fuel, price_origin, price_dest, density, cargo_rate)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) ON CONFLICT (id) DO NOTHING`,
			r.ID, r.Origin, r.Destination, r.DistanceNm, r.MinTripFuel, r.AlternateFuel, r.PriceOrigin, r.PriceDest, r.Density, r.CargoRate)
		if err != nil {
			return err
		}
	}
	_, err := p.db.ExecContext(ctx, `INSERT INTO fuel_policy (id, contingency_pct, reserve_fuel)
		VALUES (1,$1,$2) ON CONFLICT (id) DO NOTHING`, pol.ContingencyPct, pol.ReserveFuel)
	return err
}

func (p *Postgres) GetAircraft(ctx context.Context, aircraftType string) (model.AircraftProfile, error) {
	var a model.AircraftProfile
	row := p.db.QueryRowContext(ctx, `SELECT type, mtow, mlw, mzfw, dom, fuel_capacity, max_payload, burn_factor
		FROM aircraft_profiles WHERE type=$1`, aircraftType)
	if err := row.Scan(&a.Type, &a.MTOW, &a.MLW, &a.MZFW, &a.DOM, &a.FuelCapacity, &a.MaxPayload, &a.BurnFactor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, ErrNotFound
		}
		return a, err
	}
	return a, nil
}

func (p *Postgres) ListAircraft(ctx context.Context) ([]model.AircraftProfile, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT type, mtow, mlw, mzfw, dom, fuel_capacity, max_payload, burn_factor
		FROM aircraft_profiles ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.AircraftProfile{}
	for rows.Next() {
		var a model.AircraftProfile
		if err := rows.Scan(&a.Type, &a.MTOW, &a.MLW, &a.MZFW, &a.DOM, &a.FuelCapacity, &a.MaxPayload, &a.BurnFactor); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) PutAircraft(ctx context.Context, a model.AircraftProfile) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO aircraft_profiles (type, mtow, mlw, mzfw, dom, fuel_capacity, max_payload, burn_factor)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (type) DO UPDATE SET mtow=$2, mlw=$3, mzfw=$4, dom=$5, fuel_capacity=$6, max_payload=$7, burn_factor=$8`,
		a.Type, a.MTOW, a.MLW, a.MZFW, a.DOM, a.FuelCapacity, a.MaxPayload, a.BurnFactor)
	return err
}

func (p *Postgres) GetRoute(ctx context.Context, id string) (model.RouteRecord, error) {
	var r model.RouteRecord
	row := p.db.QueryRowContext(ctx, `SELECT id, origin, destination, distance_nm, min_trip_fuel, alternate_fuel, price_origin, price_dest, density, cargo_rate
		FROM routes WHERE id=$1`, id)
	if err := row.Scan(&r.ID, &r.Origin, &r.Destination, &r.DistanceNm, &r.MinTripFuel, &r.AlternateFuel, &r.PriceOrigin, &r.PriceDest, &r.Density, &r.CargoRate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, ErrNotFound
		}
		return r, err
	}
	return r, nil
}

func (p *Postgres) ListRoutes(ctx context.Context) ([]model.RouteRecord, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, origin, destination, distance_nm, min_trip_fuel, alternate_fuel, price_origin, price_dest, density, cargo_rate
		FROM routes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.RouteRecord{}
	for rows.Next() {
		var r model.RouteRecord
		if err := rows.Scan(&r.ID, &r.Origin, &r.Destination, &r.DistanceNm, &r.MinTripFuel, &r.AlternateFuel, &r.PriceOrigin, &r.PriceDest, &r.Density, &r.CargoRate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) PutRoute(ctx context.Context, r model.RouteRecord) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO routes (id, origin, destination, distance_nm, min_trip_fuel, alternate_fuel, price_origin, price_dest, density, cargo_rate)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET origin=$2, destination=$3, distance_nm=$4, min_trip_fuel=$5, alternate_fuel=$6, price_origin=$7, price_dest=$8, density=$9, cargo_rate=$10`,
		r.ID, r.Origin, r.Destination, r.DistanceNm, r.MinTripFuel, r.AlternateFuel, r.PriceOrigin, r.PriceDest, r.Density, r.CargoRate)
	return err
}

func (p *Postgres) DeleteRoute(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM routes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) GetPolicy(ctx context.Context) (model.OperationalPolicy, error) {
	var pol model.OperationalPolicy
	row := p.db.QueryRowContext(ctx, `SELECT contingency_pct, reserve_fuel FROM fuel_policy WHERE id=1`)
	if err := row.Scan(&pol.ContingencyPct, &pol.ReserveFuel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pol, ErrNotFound
		}
		return pol, err
	}
	return pol, nil
}

func (p *Postgres) PutPolicy(ctx context.Context, pol model.OperationalPolicy) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO fuel_policy (id, contingency_pct, reserve_fuel)
		VALUES (1,$1,$2) ON CONFLICT (id) DO UPDATE SET contingency_pct=$1, reserve_fuel=$2`,
		pol.ContingencyPct, pol.ReserveFuel)
	return err
}

func (p *Postgres) SaveSolution(ctx context.Context, rec model.SolveRecord) error {
	sol, err := json.Marshal(rec.Solution)
	if err != nil {
		return err
	}
	createdAt := rec.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO solve_history (id, route_id, aircraft_type, pax_weight, burn_factor, solution, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, nullIfEmpty(rec.RouteID), nullIfEmpty(rec.AircraftType), rec.PaxWeight, rec.BurnFactor, sol, createdAt)
	return err
}

func (p *Postgres) ListSolutions(ctx context.Context, routeID string, limit int) ([]model.SolveRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if routeID != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, route_id, aircraft_type, pax_weight, burn_factor, solution, created_at
			FROM solve_history WHERE route_id=$1 ORDER BY created_at DESC LIMIT $2`, routeID, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, route_id, aircraft_type, pax_weight, burn_factor, solution, created_at
			FROM solve_history ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SolveRecord{}
	for rows.Next() {
		var rec model.SolveRecord
		var route, actype sql.NullString
		var sol []byte
		var created time.Time
		if err := rows.Scan(&rec.ID, &route, &actype, &rec.PaxWeight, &rec.BurnFactor, &sol, &created); err != nil {
			return nil, err
		}
		rec.RouteID = route.String
		rec.AircraftType = actype.String
		rec.CreatedAt = created.UTC().Format(time.RFC3339)
		if err := json.Unmarshal(sol, &rec.Solution); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) AddBurnSamples(ctx context.Context, samples []model.BurnSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()
	accepted := 0
	for _, s := range samples {
		if s.AircraftType == "" || s.ExtraWeight <= 0 || s.DistanceNm <= 0 || s.ExtraBurn < 0 {
			continue
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO burn_samples (id, aircraft_type, route_id, extra_weight, distance_nm, extra_burn, flown_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uuid.New(), s.AircraftType, nullIfEmpty(s.RouteID), s.ExtraWeight, s.DistanceNm, s.ExtraBurn, nullIfEmpty(s.FlownAt))
		if err != nil {
			return 0, err
		}
		accepted++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return accepted, nil
}

func (p *Postgres) BurnFactor(ctx context.Context, aircraftType string) (float64, int, error) {
	// Same origin-constrained fit as FitBurnFactor, pushed into SQL.
	row := p.db.QueryRowContext(ctx, `SELECT
			COALESCE(SUM(extra_weight*distance_nm*extra_burn), 0),
			COALESCE(SUM(extra_weight*distance_nm*extra_weight*distance_nm), 0),
			COUNT(*)
		FROM burn_samples WHERE aircraft_type=$1`, aircraftType)
	var sxy, sxx float64
	var n int
	if err := row.Scan(&sxy, &sxx, &n); err != nil {
		return 0, 0, err
	}
	if n == 0 || sxx == 0 {
		return 0, 0, nil
	}
	alpha := sxy / sxx
	if alpha < 0 {
		alpha = 0
	}
	return alpha, n, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
