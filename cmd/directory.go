package cmd

import (
	"context"
	"fmt"
	"log"

	"best_route/config"
	"best_route/handlers"
	"best_route/stations"
)

// openDirectory connects the configured station backend and returns it together
// with the health checks for the connections it opened.
func openDirectory(ctx context.Context, cfg *config.AppConfig) (stations.Directory, map[string]handlers.HealthCheck, error) {
	switch cfg.Stations.Backend {
	case "postgres":
		if err := config.InitDBWithRetry(ctx, cfg.Database); err != nil {
			return nil, nil, err
		}
		if cfg.Stations.AutoMigrate {
			if err := stations.Migrate(config.DB); err != nil {
				return nil, nil, err
			}
		}
		dir := stations.NewPostgresDirectory(config.DB, config.NewStationCache(cfg.Stations.CacheTTL))
		return dir, map[string]handlers.HealthCheck{"postgres": config.CheckPostgresHealth}, nil

	case "mongo":
		if err := config.ConnectMongo(ctx, cfg.Mongo); err != nil {
			return nil, nil, err
		}
		dir := stations.NewMongoDirectory(config.MongoDB)
		if err := dir.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return dir, map[string]handlers.HealthCheck{"mongo": config.CheckMongoHealth}, nil

	case "file":
		loaded, err := stations.LoadFile(cfg.Stations.File)
		if err != nil {
			return nil, nil, err
		}
		dir := stations.NewMemoryDirectory(loaded)
		log.Printf("Loaded %d stations from %s", dir.Len(), cfg.Stations.File)
		return dir, map[string]handlers.HealthCheck{}, nil
	}
	return nil, nil, fmt.Errorf("unknown station backend %q", cfg.Stations.Backend)
}
