package http

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aescanero/visits/internal/application/visits"
	metrics "github.com/aescanero/visits/pkg/adapters/metrics/prometheus"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents the HTTP API server
type Server struct {
	router  *gin.Engine
	server  *http.Server
	visits  *visits.Service
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Addr    string
	Visits  *visits.Service
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// StreamHandler serves the live visit feed
type StreamHandler interface {
	HandleVisitStream(c *gin.Context)
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	// client_ip is the transport-layer peer; forwarding headers are not trusted
	_ = router.SetTrustedProxies(nil)
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	router.Use(requestMetrics(cfg.Metrics))

	s := &Server{
		router:  router,
		visits:  cfg.Visits,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	return s
}

// setupRoutes configures routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/stats", s.handleStats)
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// SetupWebSocket adds the live visit feed to the server
func (s *Server) SetupWebSocket(handler StreamHandler) {
	s.router.GET("/stats/stream", handler.HandleVisitStream)
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
