package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// GetBestRoute handles GET /best-route?start=...&end=...
func (h *Handlers) GetBestRoute(w http.ResponseWriter, r *http.Request) {
	start := strings.TrimSpace(r.URL.Query().Get("start"))
	end := strings.TrimSpace(r.URL.Query().Get("end"))
	if start == "" || end == "" {
		sendErrorResponse(w, "Query parameters 'start' and 'end' are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	began := time.Now()
	itinerary, err := h.composer.Compose(ctx, start, end)
	if err != nil {
		sendLookupError(w, err, "Location or station not found")
		return
	}

	log.Printf("[route] %q -> %q: %v (%v)", start, end, itinerary.RouteType, time.Since(began))
	writeJSON(w, http.StatusOK, itinerary)
}
