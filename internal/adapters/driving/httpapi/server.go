// Package httpapi exposes the workspace over a JSON HTTP API built on gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "localhost:8080"

// maxUploadBytes bounds a multipart document upload.
const maxUploadBytes = 32 << 20

// ErrMissingWorkspace is returned when the workspace is not provided.
var ErrMissingWorkspace = errors.New("httpapi: workspace is required")

// Ports aggregates the driving ports the API serves.
type Ports struct {
	Workspace driving.Workspace

	// DocumentRoot is the directory document paths sent to process must
	// resolve into. Empty refuses local paths; documents are then only
	// accepted through upload.
	DocumentRoot string
}

// Server routes HTTP requests to the workspace.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer creates the API server and registers its routes.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil || ports.Workspace == nil {
		return nil, ErrMissingWorkspace
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.MaxMultipartMemory = maxUploadBytes

	s := &Server{ports: ports, engine: engine}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/kinds", s.listKinds)
		v1.POST("/:kind/process", s.process)
		v1.POST("/:kind/upload", s.upload)
		v1.POST("/:kind/ask", s.ask)
		v1.POST("/:kind/reset", s.reset)
		v1.GET("/:kind/history", s.history)
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on http://%s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requestLogger logs each request at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
