// Package api serves class metadata collected by scan runs over HTTP.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP routes for the given server.
func Router(server *Server) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(server.config.APIKey))

		instrument := func(method, endpoint string, h http.HandlerFunc) http.HandlerFunc {
			if server.metrics == nil {
				return h
			}
			return server.metrics.InstrumentHandler(method, endpoint, h)
		}

		r.Get("/health", instrument("GET", "/api/v1/health", server.handleHealth))
		r.Get("/classes", instrument("GET", "/api/v1/classes", server.handleListClasses))
		r.Get("/classes/{name}", instrument("GET", "/api/v1/classes/{name}", server.handleGetClass))
		r.Get("/records", instrument("GET", "/api/v1/records", server.handleListRecords))
		r.Get("/sealed", instrument("GET", "/api/v1/sealed", server.handleListSealed))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(classIndex ClassIndex, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(classIndex, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting classkit API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, Router(server))
}
