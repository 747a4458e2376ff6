package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/ogoue/ogoue/internal/api/v1"
	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/auth"
	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/config"
	"github.com/ogoue/ogoue/internal/reports"
	"github.com/ogoue/ogoue/internal/server/middleware"
	"github.com/ogoue/ogoue/internal/store/postgres"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	audit      *audit.Service
	reports    *reports.Service
	blobs      *blob.FSStore
	cfg        *config.Config
}

// New creates a Server with all routes wired.
// webAssets may be nil; when provided, the embedded dashboard is served on all
// unmatched routes (go:embed for single-binary distribution).
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, authSvc *auth.Service, auditSvc *audit.Service, reportSvc *reports.Service, blobs *blob.FSStore, webAssets fs.FS) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router:  router,
		store:   store,
		auth:    authSvc,
		audit:   auditSvc,
		reports: reportSvc,
		blobs:   blobs,
		cfg:     cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Unauthenticated group for auth endpoints, rate limited per IP.
	// 2. Authenticated group for everything else, rate limited per organization.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, 5, 10))

			authConfig := huma.DefaultConfig("Ogoue Auth API", "1.0.0")
			authConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			authAPI := humachi.New(r, authConfig)
			registerAuthRoutes(authAPI, store, authSvc)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RequireOrganization())
			r.Use(middleware.RateLimit(ctx, 100, 200))

			apiConfig := huma.DefaultConfig("Ogoue API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)
			registerAPIRoutes(api, store, auditSvc, reportSvc, blobs)

			// Receipt upload is multipart, which huma does not model well;
			// it stays a plain chi handler inside the authenticated group.
			r.Post("/receipts", v1.ReceiptUploadHandler(blobs, cfg.Blob.MaxUploadBytes))
		})
	})

	// Stored receipt files. Paths embed the organization ID and a random
	// UUID, so URLs are unguessable but not access controlled.
	router.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(blobs.Root()))))

	// Prometheus metrics (unauthenticated; firewall in production).
	router.Handle("/metrics", promhttp.Handler())

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Serve the embedded dashboard on all unmatched routes.
	// This must be the last route registered so API routes take priority.
	if webAssets != nil {
		router.NotFound(spaFileServer(webAssets).ServeHTTP)
		log.Info().Msg("embedded dashboard enabled")
	}

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
