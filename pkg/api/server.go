// Package api serves the w3stat checksum, digest, stat string and
// fingerprint operations over HTTP.
//
// Every route under /api/v1 requires the X-API-Key header. Prometheus
// metrics are served unauthenticated at /metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout       = 10 * time.Second
	metricsUpdateInterval = 30 * time.Second
)

// NewRouter builds the chi router for s. gatherer serves /metrics; nil
// means the default Prometheus registry.
func NewRouter(s *Server, gatherer prometheus.Gatherer) chi.Router {
	metrics := s.metrics

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	if gatherer == nil {
		r.Handle("/metrics", promhttp.Handler())
	} else {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Checksums
		r.Post("/checksum/crc32", metrics.InstrumentHandler("POST", "/api/v1/checksum/crc32", s.handleCRC32))
		r.Post("/digest/sha1", metrics.InstrumentHandler("POST", "/api/v1/digest/sha1", s.handleSHA1))

		// Stat strings
		r.Post("/statstring/encode", metrics.InstrumentHandler("POST", "/api/v1/statstring/encode", s.handleEncode))
		r.Post("/statstring/decode", metrics.InstrumentHandler("POST", "/api/v1/statstring/decode", s.handleDecode))
		r.Post("/statstring/game", metrics.InstrumentHandler("POST", "/api/v1/statstring/game", s.handleGameStat))
		r.Post("/statstring/parse", metrics.InstrumentHandler("POST", "/api/v1/statstring/parse", s.handleParse))

		// Map files
		r.Post("/fingerprint", metrics.InstrumentHandler("POST", "/api/v1/fingerprint", s.handleFingerprint))
		r.Get("/cache", metrics.InstrumentHandler("GET", "/api/v1/cache", s.handleListCache))
		r.Get("/cache/{id}", metrics.InstrumentHandler("GET", "/api/v1/cache/{id}", s.handleGetCacheEntry))
	})

	return r
}

// StartServer serves the API until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, s *Server) error {
	handler := NewRouter(s, s.config.Gatherer)

	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	updaterCtx, stopUpdater := context.WithCancel(ctx)
	defer stopUpdater()
	go s.startMetricsUpdater(updaterCtx, metricsUpdateInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting w3stat API server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down w3stat API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
