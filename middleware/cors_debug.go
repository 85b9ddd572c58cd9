package middleware

import (
	"log"
	"net/http"

	"github.com/rs/cors"
)

// NewCORS builds the CORS handler for the configured origins.
func NewCORS(allowedOrigins []string, debug bool) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"Origin",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
			RequestIDHeader,
		},
		AllowCredentials: false,
		MaxAge:           86400,
		Debug:            debug,
	})
}

// CORSDebugMiddleware logs the origin and method of cross-origin requests.
func CORSDebugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			log.Printf("[CORS Debug] %s request from Origin: %s", r.Method, origin)
		}
		next.ServeHTTP(w, r)
	})
}
