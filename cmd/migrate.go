package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"best_route/config"
	"best_route/stations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.InitDBWithRetry(cmd.Context(), cfg.Database); err != nil {
			return err
		}
		defer config.CloseDB()

		if err := stations.Migrate(config.DB); err != nil {
			return err
		}
		log.Println("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
