package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"evodash/internal"
	"evodash/internal/api"
	"evodash/internal/dashboard"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static
var embeddedFiles embed.FS

// Server is the dashboard web UI: the page, the filter and selection API,
// per-panel SVG and the pass event stream.
type Server struct {
	router    *gin.Engine
	dashboard *dashboard.Controller
	hub       *api.SSEHub
	templates *template.Template
	logger    *internal.Logger
}

// NewServer wires a router around a controller. hub may be nil, in which
// case /api/events is not served.
func NewServer(ctrl *dashboard.Controller, hub *api.SSEHub) (*Server, error) {
	s := &Server{
		router:    gin.New(),
		dashboard: ctrl,
		hub:       hub,
		logger:    internal.DefaultLogger.With("ui"),
	}

	funcMap := template.FuncMap{
		"oneDecimal": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
		"selected":   func(a, b string) bool { return a == b },
		"insight":    dashboard.Insight,
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(metricsHandler()))

	apiGroup := s.router.Group("/api")
	apiGroup.GET("/state", s.handleState)
	apiGroup.POST("/filter", s.handleFilter)
	apiGroup.POST("/select", s.handleSelect)
	if s.hub != nil {
		apiGroup.GET("/events", s.hub.HandleSSE)
	}

	s.router.GET("/charts/:name", s.handleChart)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting evodash UI on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		if s.hub != nil {
			s.hub.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
