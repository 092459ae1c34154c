package ui

import (
	"net/http"

	"hierviz/domain/hierarchy"
	"hierviz/internal/controller"
	"hierviz/internal/errors"
	"hierviz/internal/view"
	"hierviz/ui/middleware"
	"hierviz/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// handleIndex renders the active tab of the caller's session
func (s *Server) handleIndex(c *gin.Context) {
	entry := middleware.Session(c)
	st := entry.Controller.State()
	s.renderPage(c, http.StatusOK, view.Render(st.ActiveTab, st.Dataset), st.Dataset)
}

// handleSelectTab switches tabs and sends the browser back to the page
func (s *Server) handleSelectTab(c *gin.Context) {
	entry := middleware.Session(c)
	out, err := entry.Controller.Dispatch(c.Request.Context(), controller.TabSelected{Tab: hierarchy.Tab(c.Param("tab"))})
	if err != nil {
		s.renderPage(c, errors.HTTPStatus(errors.FromDomain(err)), out, entry.Store.Get())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// handleUpload parses the posted file and shows the table preview, or the
// parse error next to whatever was loaded before
func (s *Server) handleUpload(c *gin.Context) {
	entry := middleware.Session(c)

	filename, data, err := s.readUpload(c)
	if err != nil {
		out := view.Render(hierarchy.TabUpload, entry.Store.Get())
		out.Error = err.Error()
		s.renderPage(c, errors.HTTPStatus(err), out, entry.Store.Get())
		return
	}

	out, err := entry.Controller.Dispatch(c.Request.Context(), controller.FileUploaded{Filename: filename, Data: data})
	status := http.StatusOK
	if err != nil {
		status = errors.HTTPStatus(errors.FromDomain(err))
	}
	s.renderPage(c, status, out, entry.Store.Get())
}

// handleReset drops the session's dataset
func (s *Server) handleReset(c *gin.Context) {
	entry := middleware.Session(c)
	if _, err := entry.Controller.Dispatch(c.Request.Context(), controller.ResetRequested{}); err != nil {
		s.renderPage(c, errors.HTTPStatus(errors.FromDomain(err)), entry.Controller.Current(), entry.Store.Get())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) renderPage(c *gin.Context, status int, out view.Output, ds hierarchy.Dataset) {
	s.renderTemplate(c, status, fragments.Index, s.newPageData(out, ds))
}
