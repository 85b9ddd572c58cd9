package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected defaults to load, got: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Route.DirectTrainMaxKm != 100 {
		t.Errorf("expected direct train threshold 100, got %v", cfg.Route.DirectTrainMaxKm)
	}
	if len(cfg.BusProviders) != 2 || cfg.BusProviders[0].Name != "private_bus" {
		t.Errorf("expected private bus provider first, got %+v", cfg.BusProviders)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  request_timeout: 5s
stations:
  backend: file
  file: stations.json
route:
  direct_train_max_km: 50
  include_transfer: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Stations.Backend != "file" || cfg.Stations.File != "stations.json" {
		t.Errorf("unexpected stations config: %+v", cfg.Stations)
	}
	if cfg.Route.IncludeTransfer {
		t.Errorf("expected include_transfer to be disabled")
	}
	// Sections absent from the file keep their defaults.
	if cfg.Geocoder.BaseURL != "https://nominatim.openstreetmap.org" {
		t.Errorf("expected default geocoder url, got %s", cfg.Geocoder.BaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "7070")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("KSRTC_BUS_URL", "http://ksrtc.internal:9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected PORT override, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected DB_HOST override, got %s", cfg.Database.Host)
	}
	if cfg.BusProviders[1].BaseURL != "http://ksrtc.internal:9000" {
		t.Errorf("expected KSRTC_BUS_URL override, got %s", cfg.BusProviders[1].BaseURL)
	}
	if cfg.BusProviders[0].BaseURL != "https://busapi.amithv.xyz" {
		t.Errorf("private bus url should be untouched, got %s", cfg.BusProviders[0].BaseURL)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := map[string]string{
		"unknown backend": "stations:\n  backend: redis\n",
		"file backend without file": "stations:\n  backend: file\n",
		"bad provider name": `
bus_providers:
  - name: tram
    base_url: http://localhost
    path: /x
    departure_param: a
    destination_param: b
    timeout: 1s
`,
		"zero threshold": "route:\n  direct_train_max_km: 0\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), "invalid configuration") {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("expected error for missing explicit config file")
	}
}

func TestLoadParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	if err == nil {
		t.Errorf("expected parse error")
	}
}

func TestPostgresConnString(t *testing.T) {
	got := PostgresConnString(DatabaseConfig{
		Host: "h", Port: "5432", User: "u", Password: "p", Name: "railways", SSLMode: "disable",
	})
	want := "host=h port=5432 user=u password=p dbname=railways sslmode=disable"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetCacheKey(t *testing.T) {
	if got := GetCacheKey("station", "ERS"); got != "station:ERS" {
		t.Errorf("unexpected cache key %q", got)
	}
}
