package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"best_route/busoracle"
	"best_route/config"
	"best_route/geocoder"
	"best_route/handlers"
	"best_route/middleware"
	"best_route/route"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newRouter(cfg *config.AppConfig, h *handlers.Handlers) http.Handler {
	r := mux.NewRouter()

	if cfg.Server.CORSDebug {
		r.Use(middleware.CORSDebugMiddleware)
	}
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	h.RegisterRoutes(r)

	// Preflight requests never match a GET route, so CORS wraps the router.
	return middleware.NewCORS(cfg.Server.AllowedOrigins, cfg.Server.CORSDebug).Handler(r)
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	log.Printf("Opening %s station directory...", cfg.Stations.Backend)
	dir, checks, err := openDirectory(ctx, cfg)
	if err != nil {
		return err
	}
	defer config.CloseDB()

	geo := geocoder.NewNominatim(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)
	buses := busoracle.New(busoracle.FromConfig(cfg.BusProviders)...)
	composer := route.NewComposer(geo, dir, buses, route.Options{
		DirectTrainMaxKm: cfg.Route.DirectTrainMaxKm,
		IncludeTransfer:  cfg.Route.IncludeTransfer,
	})

	h := handlers.New(composer, dir, cfg.Server.RequestTimeout, checks)

	srv := &http.Server{
		Handler:           newRouter(cfg, h),
		Addr:              ":" + cfg.Server.Port,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on port %s...", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	log.Printf("Server initialized in %v", time.Since(startTime))
	log.Printf("Best route endpoint: http://localhost:%s/best-route?start=&end=", cfg.Server.Port)
	log.Printf("Health check endpoint: http://localhost:%s/api/v1/health", cfg.Server.Port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case runErr = <-serverErrors:
		log.Printf("Server error received: %v", runErr)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
	return runErr
}
