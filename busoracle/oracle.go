// Package busoracle answers whether a scheduled bus runs between two cities by
// asking an ordered list of providers.
//
// The oracle is fail-open: a provider that errors is treated as reporting no
// service, so bus lookups never fail a route request.
package busoracle

import (
	"context"
	"log"

	"best_route/models"
)

type Provider interface {
	// Name is the leg reported when this provider has a schedule.
	Name() models.RouteLeg
	HasSchedule(ctx context.Context, departure, destination string) (bool, error)
}

// Oracle checks providers in order; the first one reporting a schedule wins.
type Oracle struct {
	providers []Provider
}

func New(providers ...Provider) *Oracle {
	return &Oracle{providers: providers}
}

// Check returns the leg of the first provider with a schedule from departure
// to destination, and false when none has one.
func (o *Oracle) Check(ctx context.Context, departure, destination string) (models.RouteLeg, bool) {
	for _, p := range o.providers {
		if ctx.Err() != nil {
			return "", false
		}
		ok, err := p.HasSchedule(ctx, departure, destination)
		if err != nil {
			log.Printf("[busoracle] %s lookup %s -> %s failed, treating as no service: %v",
				p.Name(), departure, destination, err)
			continue
		}
		if ok {
			return p.Name(), true
		}
	}
	return "", false
}
