// Package stations holds the railway station directory: nearest-station and
// transfer-station lookups over immutable station reference data.
//
// When two stations are exactly the same distance from a query point the one
// returned is whichever the backing store ranks first. Callers must not rely on
// a particular choice between exact ties.
package stations

import (
	"context"
	"fmt"
	"math"

	"best_route/models"
	"best_route/utils"
)

// Directory is implemented by every station backend.
type Directory interface {
	// Nearest returns the station closest to p. It fails with
	// models.ErrNotFound when the directory holds no stations.
	Nearest(ctx context.Context, p models.GeoPoint) (*models.NearestStation, error)

	// Transfer returns the station, other than codeA and codeB, with the smallest
	// summed distance to both. It returns nil, nil when no such station exists.
	Transfer(ctx context.Context, codeA, codeB string) (*models.Station, error)

	ByCode(ctx context.Context, code string) (*models.Station, error)
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), models.ErrNotFound)
}

// transferRanker keeps the best transfer candidate seen so far.
type transferRanker struct {
	a, b      models.GeoPoint
	codeA     string
	codeB     string
	best      *models.Station
	bestScore float64
}

func newTransferRanker(a, b *models.Station) *transferRanker {
	return &transferRanker{
		a:         a.GeoPoint,
		b:         b.GeoPoint,
		codeA:     a.Code,
		codeB:     b.Code,
		bestScore: math.Inf(1),
	}
}

func (r *transferRanker) offer(s models.Station) {
	if s.Code == r.codeA || s.Code == r.codeB {
		return
	}
	score := utils.DistanceBetween(r.a, s.GeoPoint) + utils.DistanceBetween(r.b, s.GeoPoint)
	if score < r.bestScore {
		station := s
		r.best = &station
		r.bestScore = score
	}
}
