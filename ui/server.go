// Package ui serves the hierarchy viewer: an HTML page with three tabs and a
// JSON API over the same per-session controllers.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"hierviz/internal"
	"hierviz/internal/config"
	"hierviz/internal/session"
	"hierviz/ui/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates static
var embeddedFiles embed.FS

const pageTitle = "Hierarchical Visualization"

// Server represents the web server for the hierarchy viewer
type Server struct {
	router    *gin.Engine
	sessions  *session.Manager
	templates *template.Template
	help      template.HTML
	upload    config.UploadConfig
	cookie    middleware.CookieOptions
	logger    *internal.Logger
}

// NewServer parses the embedded templates and wires routes. gin's mode is
// process-wide and is left to the caller.
func NewServer(cfg *config.Config, sessions *session.Manager, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	help, err := renderHelp(embeddedFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to render upload help: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		sessions:  sessions,
		templates: templates,
		help:      help,
		upload:    cfg.Upload,
		cookie: middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			MaxAge: int(cfg.Session.TTL / time.Second),
			Secure: cfg.Session.SecureCookie,
		},
		logger: logger.WithComponent("ui"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	app := s.router.Group("/")
	app.Use(middleware.RequestLogger(s.logger), middleware.EnsureSession(s.sessions, s.cookie, s.logger))

	// Pages
	app.GET("/", s.handleIndex)
	app.GET("/tab/:tab", s.handleSelectTab)
	app.POST("/upload", s.handleUpload)
	app.POST("/reset", s.handleReset)

	// JSON API
	api := app.Group("/api")
	api.GET("/view", s.handleAPIView)
	api.POST("/tab/:tab", s.handleAPISelectTab)
	api.POST("/upload", s.handleAPIUpload)
	api.POST("/reset", s.handleAPIReset)
	api.GET("/structure", s.handleAPIStructure)
}

// Handler exposes the router, mainly for tests and http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns an http.Server for addr that serves this UI.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Slog().Handler(), slog.LevelError),
	}
}
