package stations

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"best_route/models"
	"best_route/utils"
)

const stationsCollection = "stations"

type geoJSONPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type stationDocument struct {
	Code    string       `bson:"code"`
	Name    string       `bson:"name"`
	State   *string      `bson:"state,omitempty"`
	Zone    *string      `bson:"zone,omitempty"`
	Address *string      `bson:"address,omitempty"`
	Geo     geoJSONPoint `bson:"geo"`
}

func toDocument(s models.Station) stationDocument {
	return stationDocument{
		Code:    s.Code,
		Name:    s.Name,
		State:   s.State,
		Zone:    s.Zone,
		Address: s.Address,
		Geo: geoJSONPoint{
			Type:        "Point",
			Coordinates: []float64{s.GeoPoint.Longitude, s.GeoPoint.Latitude},
		},
	}
}

func (doc stationDocument) station() models.Station {
	s := models.Station{
		Code:    doc.Code,
		Name:    doc.Name,
		State:   doc.State,
		Zone:    doc.Zone,
		Address: doc.Address,
	}
	if len(doc.Geo.Coordinates) == 2 {
		s.GeoPoint = models.GeoPoint{Latitude: doc.Geo.Coordinates[1], Longitude: doc.Geo.Coordinates[0]}
	}
	return s
}

// MongoDirectory answers lookups from a stations collection with a 2dsphere
// index on geo.
type MongoDirectory struct {
	coll *mongo.Collection
}

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{coll: db.Collection(stationsCollection)}
}

// EnsureIndexes creates the unique code index and the 2dsphere index.
func (d *MongoDirectory) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("station_code_idx"),
		},
		{
			Keys:    bson.D{{Key: "geo", Value: "2dsphere"}},
			Options: options.Index().SetName("station_geo_idx"),
		},
	}
	if _, err := d.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating station indexes: %w", err)
	}
	log.Printf("[stations] mongo indexes ready")
	return nil
}

func (d *MongoDirectory) Nearest(ctx context.Context, p models.GeoPoint) (*models.NearestStation, error) {
	if !utils.ValidCoordinate(p) {
		return nil, fmt.Errorf("invalid coordinate %v", p)
	}
	filter := bson.M{
		"geo": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{p.Longitude, p.Latitude},
				},
			},
		},
	}

	var doc stationDocument
	err := d.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("no stations found")
	}
	if err != nil {
		return nil, fmt.Errorf("nearest station query failed: %w", err)
	}

	s := doc.station()
	return &models.NearestStation{Station: s, DistanceKm: utils.DistanceBetween(p, s.GeoPoint)}, nil
}

// Transfer scans the collection since a summed two-point distance cannot be
// expressed as a single geo query.
func (d *MongoDirectory) Transfer(ctx context.Context, codeA, codeB string) (*models.Station, error) {
	a, err := d.ByCode(ctx, codeA)
	if err != nil {
		return nil, err
	}
	b, err := d.ByCode(ctx, codeB)
	if err != nil {
		return nil, err
	}

	cursor, err := d.coll.Find(ctx, bson.M{"code": bson.M{"$nin": []string{codeA, codeB}}})
	if err != nil {
		return nil, fmt.Errorf("transfer station query failed: %w", err)
	}
	defer cursor.Close(ctx)

	ranker := newTransferRanker(a, b)
	for cursor.Next(ctx) {
		var doc stationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding station: %w", err)
		}
		ranker.offer(doc.station())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("transfer station query failed: %w", err)
	}
	return ranker.best, nil
}

func (d *MongoDirectory) ByCode(ctx context.Context, code string) (*models.Station, error) {
	var doc stationDocument
	err := d.coll.FindOne(ctx, bson.M{"code": code}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("station %s", code)
	}
	if err != nil {
		return nil, fmt.Errorf("station lookup failed: %w", err)
	}
	s := doc.station()
	return &s, nil
}
