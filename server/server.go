package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"suppliernorm/database"
	"suppliernorm/internal/config"
	"suppliernorm/normalization"
)

// Server is the HTTP surface of the normalization service: upload a file,
// run the pipeline, fetch or export the results.
type Server struct {
	cfg    *config.Config
	store  *database.Store
	oracle normalization.GroupingOracle
	router *gin.Engine
	log    *slog.Logger
}

// New builds the server and its routes. The oracle may be nil; hybrid runs
// then finalize ambiguous clusters without confirmation.
func New(cfg *config.Config, store *database.Store, oracle normalization.GroupingOracle) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		store:  store,
		oracle: oracle,
		log:    slog.Default().With("component", "server"),
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/normalize", s.handleNormalize)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
		api.GET("/runs/:id/results", s.handleGetResults)
		api.GET("/runs/:id/export", s.handleExport)
	}

	s.router = router
	return s
}

// Handler exposes the router for tests and custom http.Server setups.
func (s *Server) Handler() http.Handler { return s.router }

// Run starts serving on the configured port.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	s.log.Info("server starting", "addr", addr, "mode", s.cfg.Mode)
	if err := s.router.Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// requestLogger attaches a request ID and logs each request once.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()
		c.Set("request_id", reqID)
		c.Header("X-Request-ID", reqID)

		c.Next()

		s.log.Info("request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", reqID,
		)
	}
}

// newNormalizer builds a pipeline for one run.
func (s *Server) newNormalizer(mode string) (*normalization.SupplierNormalizer, error) {
	return normalization.NewSupplierNormalizer(normalization.Options{
		Mode:             mode,
		Oracle:           s.oracle,
		BatchSize:        s.cfg.BatchSize,
		ConfirmBatchSize: s.cfg.ConfirmBatchSize,
		MinGroupSize:     s.cfg.MinGroupSize,
		Cluster: normalization.ClusterConfig{
			Threshold:        s.cfg.ClusterThreshold,
			ConfirmThreshold: s.cfg.ConfirmThreshold,
		},
		Retry: normalization.RetryConfig{
			MaxRetries: s.cfg.MaxRetries,
			ErrorDelay: normalization.DefaultErrorDelay,
		},
	})
}
