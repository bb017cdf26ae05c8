// Package api is the SlotKit HTTP API: slot inspection and instruction
// invocation against a pebble-backed slot store.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Post("/accounts", s.metrics.InstrumentHandler("POST", "/api/v1/accounts", s.handleCreateSlot))
		r.Get("/accounts/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/accounts/{key}", s.handleGetSlot))
		r.Post("/invoke", s.metrics.InstrumentHandler("POST", "/api/v1/invoke", s.handleInvoke))
	})

	return r
}

// StartServer serves the API until the listener fails
func StartServer(s *Server) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	s.logger.Info("starting SlotKit API server", zap.String("addr", addr), zap.Stringer("program_id", s.program.ID()))
	return http.ListenAndServe(addr, s.Router())
}
