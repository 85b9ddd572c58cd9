package models

import "errors"

// ErrNotFound is returned when a place cannot be geocoded or no station matches.
var ErrNotFound = errors.New("not found")

type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Station is immutable reference data keyed by Code. Its coordinate is
// serialized flat, next to the station fields.
type Station struct {
	Code    string  `bson:"code" json:"station_code"`
	Name    string  `bson:"name" json:"station_name"`
	State   *string `bson:"state,omitempty" json:"state"`
	Zone    *string `bson:"zone,omitempty" json:"zone"`
	Address *string `bson:"address,omitempty" json:"address"`

	GeoPoint `bson:"location"`
}

// NearestStation is a Station together with its great-circle distance from the
// queried coordinate.
type NearestStation struct {
	Station
	DistanceKm float64 `json:"distance_km"`
}
