// Package server exposes the reaction tools over HTTP.
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
//	GET  /metrics prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/njchilds90/gocrn/internal/tool"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Server serves tool calls with the given rendering defaults.
type Server struct {
	engine   *gin.Engine
	opts     tool.Options
	logger   *zap.Logger
	metrics  *Metrics
	registry *prometheus.Registry
}

// New builds a server with its own metrics registry.
func New(opts tool.Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		engine:   gin.New(),
		opts:     opts,
		logger:   logger,
		metrics:  NewMetrics(reg),
		registry: reg,
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.Use(s.recovery(), s.requestLog())
	s.engine.POST("/tool", s.handleTool)
	s.engine.GET("/schema", s.handleSchema)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		s.logger.Error("panic in handler",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", rec),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) handleTool(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req tool.Request
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := s.opts.Handle(req)
	s.metrics.observe(req.Tool, resp.Error == "", time.Since(start))
	if resp.Error != "" {
		s.logger.Info("tool call failed", zap.String("tool", req.Tool), zap.String("error", resp.Error))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(tool.Spec()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("crn tool server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
