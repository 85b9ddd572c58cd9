// Package route composes multi-modal itineraries (bus, train, taxi) between
// two free-text places.
package route

import (
	"context"
	"errors"
	"fmt"

	"best_route/models"
	"best_route/stations"
	"best_route/utils"
)

const DefaultDirectTrainMaxKm = 100.0

type Geocoder interface {
	Geocode(ctx context.Context, place string) (models.GeoPoint, error)
}

// BusChecker reports the bus leg serving departure to destination, if any.
// Implementations must not fail: an unavailable provider means no bus.
type BusChecker interface {
	Check(ctx context.Context, departure, destination string) (models.RouteLeg, bool)
}

type Options struct {
	// DirectTrainMaxKm bounds the distance from each place to its station for
	// a through train to be assumed.
	DirectTrainMaxKm float64
	IncludeTransfer  bool
}

type Composer struct {
	geocoder Geocoder
	stations stations.Directory
	buses    BusChecker
	opts     Options
}

func NewComposer(g Geocoder, d stations.Directory, b BusChecker, opts Options) *Composer {
	if opts.DirectTrainMaxKm <= 0 {
		opts.DirectTrainMaxKm = DefaultDirectTrainMaxKm
	}
	return &Composer{geocoder: g, stations: d, buses: b, opts: opts}
}

// Compose builds the itinerary from start to end. It never returns an empty
// leg list; any connector that cannot be served by bus becomes a taxi.
// Geocoding misses and an empty station directory fail with
// models.ErrNotFound.
func (c *Composer) Compose(ctx context.Context, start, end string) (*models.Itinerary, error) {
	startCity := utils.ExtractCity(start)
	endCity := utils.ExtractCity(end)

	if leg, ok := c.buses.Check(ctx, startCity, endCity); ok {
		return &models.Itinerary{RouteType: []models.RouteLeg{leg}}, nil
	}

	startStation, err := c.nearestStation(ctx, start)
	if err != nil {
		return nil, err
	}
	endStation, err := c.nearestStation(ctx, end)
	if err != nil {
		return nil, err
	}

	if startStation.Name == endStation.Name {
		return &models.Itinerary{RouteType: []models.RouteLeg{models.LegTaxi}}, nil
	}

	if c.directTrain(startCity, endCity, startStation, endStation) {
		return &models.Itinerary{
			RouteType:    []models.RouteLeg{models.LegTrain, models.LegTrain},
			StartStation: startStation,
			EndStation:   endStation,
		}, nil
	}

	legs, err := c.connectedLegs(ctx, startCity, endCity, startStation, endStation)
	if err != nil {
		return nil, err
	}

	itinerary := &models.Itinerary{
		RouteType:    legs,
		StartStation: startStation,
		EndStation:   endStation,
	}

	if c.opts.IncludeTransfer {
		transfer, err := c.stations.Transfer(ctx, startStation.Code, endStation.Code)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("transfer station lookup: %w", err)
		}
		itinerary.TransferStation = transfer
	}

	return itinerary, nil
}

func (c *Composer) nearestStation(ctx context.Context, place string) (*models.NearestStation, error) {
	p, err := c.geocoder.Geocode(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", place, err)
	}
	s, err := c.stations.Nearest(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("nearest station to %q: %w", place, err)
	}
	return s, nil
}

func (c *Composer) directTrain(startCity, endCity string, startStation, endStation *models.NearestStation) bool {
	return utils.SameName(startCity, startStation.Name) &&
		utils.SameName(endCity, endStation.Name) &&
		startStation.DistanceKm < c.opts.DirectTrainMaxKm &&
		endStation.DistanceKm < c.opts.DirectTrainMaxKm
}
