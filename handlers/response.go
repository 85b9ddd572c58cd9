package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"best_route/geocoder"
	"best_route/middleware"
	"best_route/models"
)

func sendErrorResponse(w http.ResponseWriter, message string, code int) {
	log.Printf("Error: %s (Code: %d)", message, code)

	requestID := w.Header().Get(middleware.RequestIDHeader)
	writeJSON(w, code, models.NewErrorResponse(message, code, requestID))
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// sendLookupError maps lookup failures to a status code. notFoundMessage is
// shown to the client when err wraps models.ErrNotFound.
func sendLookupError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		log.Printf("Lookup miss: %v", err)
		sendErrorResponse(w, notFoundMessage, http.StatusNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("Lookup timed out: %v", err)
		sendErrorResponse(w, "Request timed out", http.StatusGatewayTimeout)
	case errors.Is(err, geocoder.ErrUpstream):
		log.Printf("Geocoder failure: %v", err)
		sendErrorResponse(w, "Geocoding service unavailable", http.StatusBadGateway)
	default:
		log.Printf("Lookup failure: %v", err)
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
