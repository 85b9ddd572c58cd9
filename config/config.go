package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yml"

type ServerConfig struct {
	Port           string        `yaml:"port" validate:"required,numeric"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	CORSDebug      bool          `yaml:"cors_debug"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port" validate:"omitempty,numeric"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Name           string `yaml:"name"`
	SSLMode        string `yaml:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxOpenConns   int    `yaml:"max_open_conns" validate:"gte=0"`
	ConnectRetries uint64 `yaml:"connect_retries"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type StationsConfig struct {
	// Backend selects the station directory: postgres, mongo or file.
	Backend     string        `yaml:"backend" validate:"oneof=postgres mongo file"`
	File        string        `yaml:"file" validate:"required_if=Backend file"`
	CacheTTL    time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	AutoMigrate bool          `yaml:"auto_migrate"`
}

type GeocoderConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	UserAgent string        `yaml:"user_agent" validate:"required"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
}

type BusProviderConfig struct {
	Name             string        `yaml:"name" validate:"required,oneof=private_bus ksrtc_bus"`
	BaseURL          string        `yaml:"base_url" validate:"required,url"`
	Path             string        `yaml:"path" validate:"required"`
	DepartureParam   string        `yaml:"departure_param" validate:"required"`
	DestinationParam string        `yaml:"destination_param" validate:"required"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
}

type RouteConfig struct {
	DirectTrainMaxKm float64 `yaml:"direct_train_max_km" validate:"gt=0"`
	IncludeTransfer  bool    `yaml:"include_transfer"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server       ServerConfig        `yaml:"server"`
	Database     DatabaseConfig      `yaml:"database"`
	Mongo        MongoConfig         `yaml:"mongo"`
	Stations     StationsConfig      `yaml:"stations"`
	Geocoder     GeocoderConfig      `yaml:"geocoder"`
	BusProviders []BusProviderConfig `yaml:"bus_providers" validate:"dive"`
	Route        RouteConfig         `yaml:"route"`
}

func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:           "8080",
			RequestTimeout: 20 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "postgres",
			Name:           "railways",
			SSLMode:        "disable",
			MaxOpenConns:   25,
			ConnectRetries: 5,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "railways",
		},
		Stations: StationsConfig{
			Backend:  "postgres",
			CacheTTL: 12 * time.Hour,
		},
		Geocoder: GeocoderConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "best-route/1.0",
			Timeout:   10 * time.Second,
		},
		BusProviders: []BusProviderConfig{
			{
				Name:             "private_bus",
				BaseURL:          "https://busapi.amithv.xyz",
				Path:             "/api/v1/schedules",
				DepartureParam:   "departure",
				DestinationParam: "destination",
				Timeout:          5 * time.Second,
			},
			{
				Name:             "ksrtc_bus",
				BaseURL:          "http://127.0.0.1:9000",
				Path:             "/api/v1/ksrtc/",
				DepartureParam:   "source",
				DestinationParam: "destination",
				Timeout:          5 * time.Second,
			},
		},
		Route: RouteConfig{
			DirectTrainMaxKm: 100,
			IncludeTransfer:  true,
		},
	}
}

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. An empty path falls back to config.yml
// when it exists.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) {
	cfg.Server.Port = getEnvWithDefault("PORT", cfg.Server.Port)

	cfg.Database.Host = getEnvWithDefault("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvWithDefault("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnvWithDefault("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnvWithDefault("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnvWithDefault("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnvWithDefault("DB_SSL_MODE", cfg.Database.SSLMode)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)

	cfg.Mongo.URI = getEnvWithDefault("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.Database = getEnvWithDefault("MONGO_DB_NAME", cfg.Mongo.Database)

	cfg.Stations.Backend = getEnvWithDefault("STATION_BACKEND", cfg.Stations.Backend)
	cfg.Stations.File = getEnvWithDefault("STATIONS_FILE", cfg.Stations.File)
	cfg.Stations.AutoMigrate = getEnvAsBool("AUTO_MIGRATE", cfg.Stations.AutoMigrate)

	cfg.Geocoder.BaseURL = getEnvWithDefault("NOMINATIM_URL", cfg.Geocoder.BaseURL)

	for i := range cfg.BusProviders {
		switch cfg.BusProviders[i].Name {
		case "private_bus":
			cfg.BusProviders[i].BaseURL = getEnvWithDefault("PRIVATE_BUS_URL", cfg.BusProviders[i].BaseURL)
		case "ksrtc_bus":
			cfg.BusProviders[i].BaseURL = getEnvWithDefault("KSRTC_BUS_URL", cfg.BusProviders[i].BaseURL)
		}
	}

	cfg.Route.IncludeTransfer = getEnvAsBool("ROUTE_INCLUDE_TRANSFER", cfg.Route.IncludeTransfer)
}

// Helper functions
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
