package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/example/ballethq/internal/router"
	"github.com/example/ballethq/internal/session"
	"github.com/example/ballethq/pkg/logger"
	"github.com/example/ballethq/pkg/monitoring"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the web surface
type Options struct {
	Title    string
	LogoPath string // Served at /logo when the file exists
	Mode     string // gin mode: "debug", "release" or "test"
}

// Server renders the quiz pages and turns form posts into router actions
type Server struct {
	opts     Options
	router   *router.Router
	sessions *session.Registry
	limiter  *RateLimiter
	engine   *gin.Engine
	hasLogo  bool
}

// NewServer wires the routes. limiter may be nil to disable rate limiting.
func NewServer(opts Options, rt *router.Router, sessions *session.Registry, limiter *RateLimiter) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{
		opts:     opts,
		router:   rt,
		sessions: sessions,
		limiter:  limiter,
		engine:   gin.New(),
	}

	if opts.LogoPath != "" {
		if _, err := os.Stat(opts.LogoPath); err == nil {
			s.hasLogo = true
		} else {
			logger.Log.Warn("Logo not found, pages render without it", zap.String("path", opts.LogoPath))
		}
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	s.engine.SetHTMLTemplate(tmpl)

	s.engine.Use(requestLogger(), gin.Recovery(), secureHeaders(), monitoring.MetricsMiddleware())

	s.engine.GET("/", s.showPage)
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/metrics", monitoring.PrometheusHandler())
	if s.hasLogo {
		s.engine.StaticFile("/logo", s.opts.LogoPath)
	}

	actions := s.engine.Group("/")
	if s.limiter != nil {
		actions.Use(s.limiter.Middleware())
	}
	actions.POST("/select", s.selectSection)
	actions.POST("/answer", s.submitAnswer)
	actions.POST("/home", s.goHome)
	actions.POST("/play-again", s.playAgain)
}

// Handler exposes the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func secureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		c.Next()
	}
}
