package stations

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"best_route/models"
)

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Code    string  `json:"code"`
		Name    string  `json:"name"`
		State   *string `json:"state"`
		Zone    *string `json:"zone"`
		Address *string `json:"address"`
	} `json:"properties"`
	Geometry *struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// ParseGeoJSON reads a station FeatureCollection. Features without a code or
// without point coordinates are counted in skipped and left out.
func ParseGeoJSON(r io.Reader) (stations []models.Station, skipped int, err error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, 0, fmt.Errorf("failed to decode stations GeoJSON: %w", err)
	}

	stations = make([]models.Station, 0, len(fc.Features))
	for _, f := range fc.Features {
		code := strings.TrimSpace(f.Properties.Code)
		if code == "" || f.Geometry == nil || len(f.Geometry.Coordinates) < 2 {
			skipped++
			continue
		}
		stations = append(stations, models.Station{
			Code:     code,
			Name:     strings.TrimSpace(f.Properties.Name),
			State:    f.Properties.State,
			Zone:     f.Properties.Zone,
			Address:  f.Properties.Address,
			GeoPoint: models.GeoPoint{
				Latitude:  f.Geometry.Coordinates[1],
				Longitude: f.Geometry.Coordinates[0],
			},
		})
	}
	return stations, skipped, nil
}

func LoadFile(path string) ([]models.Station, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stations file: %w", err)
	}
	defer file.Close()

	stations, skipped, err := ParseGeoJSON(file)
	if err != nil {
		return nil, err
	}
	log.Printf("[stations] loaded %d stations from %s (%d skipped)", len(stations), path, skipped)
	return stations, nil
}
