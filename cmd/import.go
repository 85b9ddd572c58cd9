package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"best_route/config"
	"best_route/stations"
)

var importCmd = &cobra.Command{
	Use:   "import <stations.json>",
	Short: "Import railway stations from a GeoJSON FeatureCollection",
	Long: `Reads a GeoJSON FeatureCollection of railway stations and inserts them into
the configured backend. Stations whose code already exists are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		loaded, err := stations.LoadFile(args[0])
		if err != nil {
			return err
		}

		var result stations.ImportResult
		switch cfg.Stations.Backend {
		case "postgres":
			if err := config.InitDBWithRetry(ctx, cfg.Database); err != nil {
				return err
			}
			defer config.CloseDB()
			if err := stations.Migrate(config.DB); err != nil {
				return err
			}
			result, err = stations.ImportPostgres(ctx, config.DB, loaded)
		case "mongo":
			if err := config.ConnectMongo(ctx, cfg.Mongo); err != nil {
				return err
			}
			defer config.CloseDB()
			dir := stations.NewMongoDirectory(config.MongoDB)
			if err := dir.EnsureIndexes(ctx); err != nil {
				return err
			}
			result, err = stations.ImportMongo(ctx, dir, loaded)
		default:
			return fmt.Errorf("import needs a postgres or mongo backend, got %q", cfg.Stations.Backend)
		}
		if err != nil {
			return err
		}

		log.Printf("Imported %d stations (%d already present)", result.Inserted, result.Duplicates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
