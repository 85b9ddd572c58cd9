package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"

	"best_route/models"
)

// RecoveryMiddleware turns a panic into a 500 with the standard JSON error
// body. The request id is taken from the response when LoggingMiddleware has
// already set it, otherwise from the request.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := w.Header().Get(RequestIDHeader)
				if requestID == "" {
					requestID = r.Header.Get(RequestIDHeader)
				}
				log.Printf("Panic recovered [%s] %s %s: %v\nStack trace:\n%s",
					requestID, r.Method, r.URL.Path, err, debug.Stack())

				body := models.NewErrorResponse("Internal server error", http.StatusInternalServerError, requestID)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(w).Encode(body); err != nil {
					log.Printf("Error encoding panic response: %v", err)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
