package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"best_route/models"
	"best_route/utils"
)

// GetNearestStation handles GET /stations/nearest?lat=...&lon=...
func (h *Handlers) GetNearestStation(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	p := models.GeoPoint{Latitude: lat, Longitude: lon}
	if errLat != nil || errLon != nil || !utils.ValidCoordinate(p) {
		sendErrorResponse(w, "Query parameters 'lat' and 'lon' must be valid coordinates", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	station, err := h.stations.Nearest(ctx, p)
	if err != nil {
		sendLookupError(w, err, "No stations found")
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// GetTransferStation handles GET /stations/transfer?from=...&to=...
func (h *Handlers) GetTransferStation(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		sendErrorResponse(w, "Query parameters 'from' and 'to' are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	station, err := h.stations.Transfer(ctx, strings.ToUpper(from), strings.ToUpper(to))
	if err != nil {
		sendLookupError(w, err, "Station not found")
		return
	}
	if station == nil {
		sendErrorResponse(w, "No transfer station found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// GetStationDetails handles GET /stations/{code}
func (h *Handlers) GetStationDetails(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["code"]))

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	station, err := h.stations.ByCode(ctx, code)
	if err != nil {
		sendLookupError(w, err, "Station not found")
		return
	}
	writeJSON(w, http.StatusOK, station)
}
