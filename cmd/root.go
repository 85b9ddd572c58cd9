package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"best_route/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "best_route",
	Short: "Multi-modal route suggestions over bus, train and taxi",
	Long: `best_route answers "how do I get from A to B" by combining geocoding,
a railway station directory and bus availability lookups into a single
route suggestion.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default config.yml)")
}

// loadConfig reads .env and the YAML config, in that order, so that variables
// from .env take part in the environment overrides.
func loadConfig() (*config.AppConfig, error) {
	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	return config.Load(configPath)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
