package ui

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware shared by every route
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("static filesystem unavailable", "error", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}
