package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httperr "github.com/skshmgpt/folio/internal/core/errors"
)

const (
	healthCheckTimeout     = 2 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

type Server struct {
	Engine          *gin.Engine
	Addr            string
	health          HealthChecker
	shutdownTimeout time.Duration
}

// HealthChecker is an interface for components that can report their health status.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// breakerReporter is implemented by stores wrapped in a circuit breaker.
type breakerReporter interface {
	State() string
}

// Options configures New.
type Options struct {
	Addr            string
	Mode            string // debug | release
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// Health backs GET /health. Nil reports healthy unconditionally.
	Health HealthChecker
}

func New(opts Options) *Server {
	// Set Gin mode based on configuration
	if opts.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestMetrics())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
		slog.Info("[HTTP] CORS enabled", "origins", opts.CORSOrigins)
	}

	shutdown := opts.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}

	s := &Server{
		Engine:          r,
		Addr:            opts.Addr,
		health:          opts.Health,
		shutdownTimeout: shutdown,
	}

	// Health check endpoint with storage connectivity verification
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	body := gin.H{"status": "healthy", "storage": "connected"}
	if reporter, ok := s.health.(breakerReporter); ok {
		body["breaker"] = reporter.State()
	}

	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			slog.Error("[HTTP] Health check failed: storage unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
				Error:     "unhealthy",
				ErrorType: httperr.HttpStoreUnavailableError,
				Details:   gin.H{"storage": "unreachable"},
			})
			return
		}
	}

	c.JSON(http.StatusOK, body)
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("[HTTP] Starting server", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("[HTTP] Stopping server", "grace", s.shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[HTTP] Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
