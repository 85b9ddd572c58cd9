package stations

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"best_route/config"
	"best_route/models"
)

const insertStation = `
	INSERT INTO stations (station_code, station_name, state, zone, address, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (station_code) DO NOTHING`

// ImportResult counts stations written and stations ignored because their
// code already existed.
type ImportResult struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}

// ImportPostgres inserts stations in a single transaction. Existing codes are
// ignored, never updated, so re-running an import is harmless.
func ImportPostgres(ctx context.Context, db *sql.DB, stations []models.Station) (ImportResult, error) {
	var result ImportResult

	err := config.WithTransaction(ctx, db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertStation)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range stations {
			res, err := stmt.ExecContext(ctx, s.Code, s.Name, s.State, s.Zone, s.Address,
				s.GeoPoint.Latitude, s.GeoPoint.Longitude)
			if err != nil {
				return fmt.Errorf("failed to insert station %s: %w", s.Code, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				result.Duplicates++
			} else {
				result.Inserted++
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	log.Printf("[import] postgres: %d inserted, %d duplicates ignored", result.Inserted, result.Duplicates)
	return result, nil
}

// ImportMongo upserts with $setOnInsert so an existing code keeps its document.
func ImportMongo(ctx context.Context, d *MongoDirectory, stations []models.Station) (ImportResult, error) {
	if len(stations) == 0 {
		return ImportResult{}, nil
	}

	writes := make([]mongo.WriteModel, 0, len(stations))
	for _, s := range stations {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"code": s.Code}).
			SetUpdate(bson.M{"$setOnInsert": toDocument(s)}).
			SetUpsert(true))
	}

	res, err := d.coll.BulkWrite(ctx, writes)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to import stations: %w", err)
	}

	result := ImportResult{
		Inserted:   int(res.UpsertedCount),
		Duplicates: len(stations) - int(res.UpsertedCount),
	}
	log.Printf("[import] mongo: %d inserted, %d duplicates ignored", result.Inserted, result.Duplicates)
	return result, nil
}
