package stations

import (
	"context"
	"fmt"
	"math"

	"best_route/models"
	"best_route/utils"
)

// MemoryDirectory serves stations from a slice loaded at start-up.
type MemoryDirectory struct {
	stations []models.Station
	byCode   map[string]int
}

// NewMemoryDirectory keeps the first station seen for every code and ignores
// later duplicates, matching the importer's behaviour.
func NewMemoryDirectory(stations []models.Station) *MemoryDirectory {
	d := &MemoryDirectory{
		stations: make([]models.Station, 0, len(stations)),
		byCode:   make(map[string]int, len(stations)),
	}
	for _, s := range stations {
		if _, exists := d.byCode[s.Code]; exists {
			continue
		}
		d.byCode[s.Code] = len(d.stations)
		d.stations = append(d.stations, s)
	}
	return d
}

func (d *MemoryDirectory) Len() int {
	return len(d.stations)
}

func (d *MemoryDirectory) Nearest(ctx context.Context, p models.GeoPoint) (*models.NearestStation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utils.ValidCoordinate(p) {
		return nil, fmt.Errorf("invalid coordinate %v", p)
	}
	if len(d.stations) == 0 {
		return nil, notFound("no stations found")
	}

	bestIdx := -1
	bestDist := math.Inf(1)
	for i := range d.stations {
		dist := utils.DistanceBetween(p, d.stations[i].GeoPoint)
		if dist < bestDist {
			bestIdx, bestDist = i, dist
		}
	}
	if bestIdx < 0 {
		return nil, notFound("no station within range of %v", p)
	}

	return &models.NearestStation{Station: d.stations[bestIdx], DistanceKm: bestDist}, nil
}

func (d *MemoryDirectory) Transfer(ctx context.Context, codeA, codeB string) (*models.Station, error) {
	a, err := d.ByCode(ctx, codeA)
	if err != nil {
		return nil, err
	}
	b, err := d.ByCode(ctx, codeB)
	if err != nil {
		return nil, err
	}

	ranker := newTransferRanker(a, b)
	for _, s := range d.stations {
		ranker.offer(s)
	}
	return ranker.best, nil
}

func (d *MemoryDirectory) ByCode(ctx context.Context, code string) (*models.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := d.byCode[code]
	if !ok {
		return nil, notFound("station %s", code)
	}
	s := d.stations[i]
	return &s, nil
}
