package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	railrouter "github.com/theoremus-urban-solutions/rail-router"
	"github.com/theoremus-urban-solutions/rail-router/config"
	"github.com/theoremus-urban-solutions/rail-router/internal"
)

const defaultShutdownTimeout = 10 * time.Second

// Server exposes a Service over HTTP.
type Server struct {
	cfg    config.ServerConfig
	svc    *railrouter.Service
	log    *zap.Logger
	engine *gin.Engine
	http   *http.Server
}

func New(cfg config.ServerConfig, svc *railrouter.Service, logger *zap.Logger) *Server {
	s := &Server{cfg: cfg, svc: svc, log: internal.OrNop(logger)}
	s.engine = s.routes()
	return s
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.log), cors.New(corsConfig(s.cfg.AllowedOrigins)))

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/route", s.handleRoute)
		api.POST("/route/coordinates", s.handleRouteCoordinates)
		api.GET("/worlds", s.handleWorlds)
		api.GET("/worlds/:world/route", s.handleWorldRoute)
		api.POST("/worlds/:world/invalidate", s.handleInvalidate)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AddAllowHeaders(requestIDHeader)
	c.AddExposeHeaders(requestIDHeader)
	return c
}

// Start begins listening in the background.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()
	s.log.Info("server listening", zap.String("addr", addr))
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// HandleGracefulShutdown blocks until SIGINT, SIGTERM or ctx cancellation
// and then shuts the server down.
func (s *Server) HandleGracefulShutdown(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		s.log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
		s.log.Info("shutdown requested")
	}

	timeout := defaultShutdownTimeout
	if s.cfg.ShutdownTimeoutSec > 0 {
		timeout = time.Duration(s.cfg.ShutdownTimeoutSec) * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		s.log.Error("server shutdown error", zap.Error(err))
		return
	}
	s.log.Info("server shut down successfully")
}
