// Package server exposes the placement services over HTTP. The
// eligibility endpoint always answers; the AI-backed endpoints return
// 503 when the oracle is not configured.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/eligibility"
	"github.com/palassaha/SC2-Backend/internal/interview"
	"github.com/palassaha/SC2-Backend/internal/planner"
	"github.com/palassaha/SC2-Backend/internal/resume"
	"github.com/palassaha/SC2-Backend/internal/summarizer"
)

const shutdownTimeout = 10 * time.Second

// Services are the backends the HTTP layer fronts. Engine is required;
// the rest may be nil when the oracle is not configured.
type Services struct {
	Engine     *eligibility.Engine
	Resume     *resume.Analyzer
	Interview  *interview.Fetcher
	Planner    *planner.Planner
	Summarizer *summarizer.Summarizer
}

type Config struct {
	Debug   bool
	Version string
}

type Server struct {
	services Services
	metrics  *Metrics
	logger   *zap.Logger
	version  string
	router   *gin.Engine
}

func New(cfg Config, services Services, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	s := &Server{
		services: services,
		metrics:  metrics,
		logger:   logger,
		version:  cfg.Version,
	}
	s.router = s.buildRouter(cfg.Debug)

	return s
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("http server started", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter(debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(s.requestLogger(), gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(s.metrics.handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/eligibility/check", s.handleEligibilityCheck)
		api.POST("/skills/analyze", s.handleSkillsAnalyze)
		api.POST("/interview/questions", s.handleInterviewQuestions)
		api.POST("/planner/generate", s.handlePlannerGenerate)
		api.POST("/posts/summarize", s.handlePostsSummarize)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
}
