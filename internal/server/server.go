package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	http     *http.Server
	registry *prometheus.Registry
}

// New builds the router with the middleware chain, operational endpoints and
// every /api route.
func New(cfg *config.Config, db *gorm.DB, services api.Services, createLimiter *middleware.RateLimiter) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := gin.New()
	router.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.NewMetrics(registry).Handler(),
		middleware.CORS(cfg.CORSOrigins),
	)

	router.GET("/health", api.HealthCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Images live on local disk unless an S3 bucket is configured
	if cfg.S3Bucket == "" && cfg.MediaURL != "" {
		router.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api.SetupAPI(router, services, api.Options{
		PublicBaseURL: cfg.PublicBaseURL,
		PageSize:      cfg.PageSize,
		CreateLimiter: createLimiter,
	})

	return &Server{
		router:   router,
		registry: registry,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	logger.Logger.Info().Str("addr", s.http.Addr).Msg("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
