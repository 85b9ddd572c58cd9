package stations

import (
	"testing"

	"best_route/models"
)

func TestStationDocumentRoundTrip(t *testing.T) {
	state := "Kerala"
	s := models.Station{
		Code:     "TCR",
		Name:     "THRISSUR",
		State:    &state,
		GeoPoint: models.GeoPoint{Latitude: 10.5158, Longitude: 76.2227},
	}

	doc := toDocument(s)
	if doc.Geo.Type != "Point" {
		t.Errorf("expected GeoJSON Point, got %s", doc.Geo.Type)
	}
	if doc.Geo.Coordinates[0] != 76.2227 || doc.Geo.Coordinates[1] != 10.5158 {
		t.Errorf("expected [lon, lat] ordering, got %v", doc.Geo.Coordinates)
	}

	back := doc.station()
	if back.Code != s.Code || back.GeoPoint != s.GeoPoint || *back.State != state {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
