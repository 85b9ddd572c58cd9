package stations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/patrickmn/go-cache"

	"best_route/config"
	"best_route/models"
	"best_route/utils"
)

const stationColumns = `station_code, station_name, state, zone, address, latitude, longitude`

// Rows are ranked with earthdistance; the reported distance is recomputed with
// the haversine formula so every backend agrees on the Earth radius.
const nearestQuery = `
	SELECT ` + stationColumns + `
	FROM stations
	WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	ORDER BY earth_distance(ll_to_earth($1, $2), ll_to_earth(latitude, longitude)) ASC
	LIMIT 1`

const transferQuery = `
	SELECT ` + stationColumns + `
	FROM stations
	WHERE station_code <> $1 AND station_code <> $2
	  AND latitude IS NOT NULL AND longitude IS NOT NULL
	ORDER BY earth_distance(ll_to_earth($3, $4), ll_to_earth(latitude, longitude))
	       + earth_distance(ll_to_earth($5, $6), ll_to_earth(latitude, longitude)) ASC
	LIMIT 1`

const byCodeQuery = `
	SELECT ` + stationColumns + `
	FROM stations
	WHERE station_code = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL`

type PostgresDirectory struct {
	db    *sql.DB
	cache *cache.Cache
}

func NewPostgresDirectory(db *sql.DB, c *cache.Cache) *PostgresDirectory {
	return &PostgresDirectory{db: db, cache: c}
}

func (d *PostgresDirectory) Nearest(ctx context.Context, p models.GeoPoint) (*models.NearestStation, error) {
	if !utils.ValidCoordinate(p) {
		return nil, fmt.Errorf("invalid coordinate %v", p)
	}
	s, err := scanStation(d.db.QueryRowContext(ctx, nearestQuery, p.Latitude, p.Longitude))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("no stations found")
	}
	if err != nil {
		return nil, fmt.Errorf("nearest station query failed: %w", err)
	}
	return &models.NearestStation{Station: *s, DistanceKm: utils.DistanceBetween(p, s.GeoPoint)}, nil
}

func (d *PostgresDirectory) Transfer(ctx context.Context, codeA, codeB string) (*models.Station, error) {
	a, err := d.ByCode(ctx, codeA)
	if err != nil {
		return nil, err
	}
	b, err := d.ByCode(ctx, codeB)
	if err != nil {
		return nil, err
	}

	s, err := scanStation(d.db.QueryRowContext(ctx, transferQuery,
		a.Code, b.Code,
		a.GeoPoint.Latitude, a.GeoPoint.Longitude,
		b.GeoPoint.Latitude, b.GeoPoint.Longitude))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("transfer station query failed: %w", err)
	}
	return s, nil
}

func (d *PostgresDirectory) ByCode(ctx context.Context, code string) (*models.Station, error) {
	key := config.GetCacheKey("station", code)
	if cached, ok := d.cache.Get(key); ok {
		s := cached.(models.Station)
		return &s, nil
	}

	s, err := scanStation(d.db.QueryRowContext(ctx, byCodeQuery, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("station %s", code)
	}
	if err != nil {
		return nil, fmt.Errorf("station lookup failed: %w", err)
	}

	d.cache.SetDefault(key, *s)
	return s, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var (
		s                    models.Station
		state, zone, address sql.NullString
	)
	if err := row.Scan(&s.Code, &s.Name, &state, &zone, &address,
		&s.GeoPoint.Latitude, &s.GeoPoint.Longitude); err != nil {
		return nil, err
	}
	s.State = nullableString(state)
	s.Zone = nullableString(zone)
	s.Address = nullableString(address)
	return &s, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
