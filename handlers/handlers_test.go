package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"best_route/geocoder"
	"best_route/middleware"
	"best_route/models"
	"best_route/stations"
)

type fakeComposer struct {
	itinerary *models.Itinerary
	err       error
	start     string
	end       string
}

func (f *fakeComposer) Compose(ctx context.Context, start, end string) (*models.Itinerary, error) {
	f.start, f.end = start, end
	return f.itinerary, f.err
}

func testRouter(c Composer, checks map[string]HealthCheck) *mux.Router {
	d := stations.NewMemoryDirectory([]models.Station{
		{Code: "ERS", Name: "ERNAKULAM JN", GeoPoint: models.GeoPoint{Latitude: 9.9690, Longitude: 76.2899}},
		{Code: "TCR", Name: "THRISSUR", GeoPoint: models.GeoPoint{Latitude: 10.5158, Longitude: 76.2227}},
		{Code: "AWY", Name: "ALUVA", GeoPoint: models.GeoPoint{Latitude: 10.1081, Longitude: 76.3522}},
	})
	r := mux.NewRouter()
	New(c, d, 5*time.Second, checks).RegisterRoutes(r)
	return r
}

func serve(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetBestRoute(t *testing.T) {
	c := &fakeComposer{itinerary: &models.Itinerary{
		RouteType: []models.RouteLeg{models.LegTaxi, models.LegTrain, models.LegTrain},
		StartStation: &models.NearestStation{
			Station:    models.Station{Code: "ERS", Name: "ERNAKULAM JN"},
			DistanceKm: 4.9,
		},
		EndStation: &models.NearestStation{
			Station:    models.Station{Code: "TCR", Name: "THRISSUR"},
			DistanceKm: 1.6,
		},
	}}

	for _, path := range []string{"/best-route", "/api/v1/best-route"} {
		rec := serve(t, testRouter(c, nil), path+"?start=Kochi&end=Thrissur,%20Kerala")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
		if c.start != "Kochi" || c.end != "Thrissur, Kerala" {
			t.Errorf("unexpected composer input %q, %q", c.start, c.end)
		}

		var body struct {
			RouteType    []string `json:"route_type"`
			StartStation struct {
				Code       string  `json:"station_code"`
				DistanceKm float64 `json:"distance_km"`
			} `json:"start_station"`
			TransferStation *json.RawMessage `json:"transfer_station"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if fmt.Sprint(body.RouteType) != "[taxi train train]" {
			t.Errorf("unexpected route_type %v", body.RouteType)
		}
		if body.StartStation.Code != "ERS" || body.StartStation.DistanceKm != 4.9 {
			t.Errorf("unexpected start_station %+v", body.StartStation)
		}
		if body.TransferStation != nil {
			t.Errorf("transfer_station should be omitted")
		}
	}
}

func TestGetBestRouteDirectBusOmitsStations(t *testing.T) {
	c := &fakeComposer{itinerary: &models.Itinerary{RouteType: []models.RouteLeg{models.LegPrivateBus}}}

	rec := serve(t, testRouter(c, nil), "/best-route?start=Kochi&end=Thrissur")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body) != 1 {
		t.Errorf("expected only route_type, got %v", body)
	}
}

func TestGetBestRouteErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"missing end", "/best-route?start=Kochi", nil, http.StatusBadRequest},
		{"blank start", "/best-route?start=%20&end=Kochi", nil, http.StatusBadRequest},
		{"not found", "/best-route?start=Atlantis&end=Kochi", fmt.Errorf("geocoding: %w", models.ErrNotFound), http.StatusNotFound},
		{"upstream", "/best-route?start=Kochi&end=Thrissur", fmt.Errorf("geocoding: %w", geocoder.ErrUpstream), http.StatusBadGateway},
		{"timeout", "/best-route?start=Kochi&end=Thrissur", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"database", "/best-route?start=Kochi&end=Thrissur", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, testRouter(&fakeComposer{err: tt.err}, nil), tt.target)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON error body: %v", err)
			}
			if body["error"] == nil || body["code"] != float64(tt.want) {
				t.Errorf("unexpected error body %v", body)
			}
		})
	}
}

func TestErrorResponseCarriesRequestID(t *testing.T) {
	h := middleware.LoggingMiddleware(testRouter(&fakeComposer{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/best-route?start=Kochi", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.RequestID != "req-7" || body.Status != "Bad Request" || body.Timestamp == "" {
		t.Errorf("unexpected error body %+v", body)
	}
}

func TestGetNearestStation(t *testing.T) {
	rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/stations/nearest?lat=10.5276&lon=76.2144")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body models.NearestStation
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Code != "TCR" {
		t.Errorf("expected TCR, got %s", body.Code)
	}

	for _, target := range []string{
		"/api/v1/stations/nearest?lat=abc&lon=76",
		"/api/v1/stations/nearest?lat=95&lon=76",
		"/api/v1/stations/nearest",
	} {
		if rec := serve(t, testRouter(&fakeComposer{}, nil), target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestGetTransferStation(t *testing.T) {
	rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/stations/transfer?from=ers&to=TCR")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body models.Station
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Code != "AWY" {
		t.Errorf("expected AWY, got %s", body.Code)
	}

	if rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/stations/transfer?from=ERS&to=NOPE"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown code: expected 404, got %d", rec.Code)
	}
	if rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/stations/transfer?from=ERS"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing to: expected 400, got %d", rec.Code)
	}
}

func TestGetStationDetails(t *testing.T) {
	rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/stations/tcr")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/stations/XYZ"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestNearestStationCoordinatesAreFlat(t *testing.T) {
	rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/stations/nearest?lat=10.5276&lon=76.2144")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"station_code", "station_name", "latitude", "longitude", "distance_km"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected top-level %q in %s", key, rec.Body.String())
		}
	}
	if _, nested := body["location"]; nested {
		t.Errorf("coordinates should not be nested: %s", rec.Body.String())
	}
	if lat, _ := body["latitude"].(float64); lat != 10.5158 {
		t.Errorf("expected latitude 10.5158, got %v", body["latitude"])
	}
}

func TestHealthCheck(t *testing.T) {
	healthy := map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
	}
	if rec := serve(t, testRouter(&fakeComposer{}, healthy), "/api/v1/health/detailed"); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	broken := map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return errors.New("ping failed") },
	}
	rec := serve(t, testRouter(&fakeComposer{}, broken), "/api/v1/health/detailed")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	var body HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Backends["postgres"] != "connection_error" {
		t.Errorf("unexpected backends %v", body.Backends)
	}

	if rec := serve(t, testRouter(&fakeComposer{}, nil), "/api/v1/health"); rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("expected plain OK, got %d %q", rec.Code, rec.Body.String())
	}
}
