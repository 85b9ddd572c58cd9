package route

import (
	"context"

	"golang.org/x/sync/errgroup"

	"best_route/models"
	"best_route/utils"
)

// cityMatch describes how a city name relates to its nearest station's name.
type cityMatch int

const (
	matchNone    cityMatch = iota // station name does not contain the city
	matchPartial                  // station name contains the city, e.g. "Thrissur Jn"
	matchExact                    // station name is the city
)

func classify(city, stationName string) cityMatch {
	switch {
	case utils.SameName(city, stationName):
		return matchExact
	case utils.ContainsName(stationName, city):
		return matchPartial
	}
	return matchNone
}

type sides struct {
	start, end cityMatch
}

// template lists the legs for a pair of city matches. The start and end flags
// mark a connector slot before or after the train legs.
func template(m sides) (startSlot, endSlot bool) {
	switch m {
	case sides{matchNone, matchNone}:
		return true, true
	case sides{matchExact, matchNone}, sides{matchExact, matchPartial}, sides{matchExact, matchExact}:
		return false, true
	case sides{matchNone, matchExact}, sides{matchPartial, matchExact}:
		return true, false
	case sides{matchNone, matchPartial}:
		return true, false
	case sides{matchPartial, matchNone}:
		return false, true
	}
	// sides{matchPartial, matchPartial}
	return false, false
}

// connectedLegs resolves the general case: train legs between the two stations
// plus a bus or taxi connector on each side the template asks for. Connector
// slots are resolved concurrently.
func (c *Composer) connectedLegs(ctx context.Context, startCity, endCity string, startStation, endStation *models.NearestStation) ([]models.RouteLeg, error) {
	startSlot, endSlot := template(sides{
		start: classify(startCity, startStation.Name),
		end:   classify(endCity, endStation.Name),
	})

	var startLeg, endLeg models.RouteLeg
	g, gctx := errgroup.WithContext(ctx)
	if startSlot {
		g.Go(func() (err error) {
			startLeg, err = c.connector(gctx, startCity, utils.Capitalize(startStation.Name))
			return err
		})
	}
	if endSlot {
		g.Go(func() (err error) {
			endLeg, err = c.connector(gctx, utils.Capitalize(endStation.Name), endCity)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	legs := make([]models.RouteLeg, 0, 4)
	if startSlot {
		legs = append(legs, startLeg)
	}
	legs = append(legs, models.LegTrain, models.LegTrain)
	if endSlot {
		legs = append(legs, endLeg)
	}
	return legs, nil
}

// connector picks the bus serving departure to destination, or a taxi. A
// cancelled or expired context is reported instead of a taxi fallback, so a
// timed-out request never yields a partial itinerary.
func (c *Composer) connector(ctx context.Context, departure, destination string) (models.RouteLeg, error) {
	leg, ok := c.buses.Check(ctx, departure, destination)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ok {
		return leg, nil
	}
	return models.LegTaxi, nil
}
