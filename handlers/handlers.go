package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"best_route/models"
	"best_route/stations"
)

// Composer builds an itinerary between two places.
type Composer interface {
	Compose(ctx context.Context, start, end string) (*models.Itinerary, error)
}

// HealthCheck pings one backend.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	composer       Composer
	stations       stations.Directory
	requestTimeout time.Duration
	checks         map[string]HealthCheck
}

func New(c Composer, d stations.Directory, requestTimeout time.Duration, checks map[string]HealthCheck) *Handlers {
	return &Handlers{
		composer:       c,
		stations:       d,
		requestTimeout: requestTimeout,
		checks:         checks,
	}
}

// RegisterRoutes mounts the API under /api/v1 and keeps /best-route at the root.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/best-route", h.GetBestRoute).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/best-route", h.GetBestRoute).Methods(http.MethodGet)

	api.HandleFunc("/stations/nearest", h.GetNearestStation).Methods(http.MethodGet)
	api.HandleFunc("/stations/transfer", h.GetTransferStation).Methods(http.MethodGet)
	api.HandleFunc("/stations/{code}", h.GetStationDetails).Methods(http.MethodGet)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	api.HandleFunc("/health/detailed", h.HealthCheck).Methods(http.MethodGet)
}

func (h *Handlers) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}
