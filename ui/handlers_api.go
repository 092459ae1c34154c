package ui

import (
	"net/http"

	"hierviz/domain/hierarchy"
	"hierviz/internal/controller"
	"hierviz/internal/errors"
	"hierviz/internal/structure"
	"hierviz/internal/view"
	"hierviz/ui/middleware"

	"github.com/gin-gonic/gin"
)

// handleAPIView returns the active tab's view, or with ?tab= any tab's view
// without changing the active one
func (s *Server) handleAPIView(c *gin.Context) {
	entry := middleware.Session(c)
	st := entry.Controller.State()

	tab := st.ActiveTab
	if q := c.Query("tab"); q != "" {
		parsed, err := hierarchy.ParseTab(q)
		if err != nil {
			s.respondError(c, errors.FromDomain(err))
			return
		}
		tab = parsed
	}
	c.JSON(http.StatusOK, view.Render(tab, st.Dataset))
}

func (s *Server) handleAPISelectTab(c *gin.Context) {
	entry := middleware.Session(c)
	out, err := entry.Controller.Dispatch(c.Request.Context(), controller.TabSelected{Tab: hierarchy.Tab(c.Param("tab"))})
	s.respondView(c, out, err)
}

func (s *Server) handleAPIUpload(c *gin.Context) {
	entry := middleware.Session(c)
	filename, data, err := s.readUpload(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out, err := entry.Controller.Dispatch(c.Request.Context(), controller.FileUploaded{Filename: filename, Data: data})
	s.respondView(c, out, err)
}

func (s *Server) handleAPIReset(c *gin.Context) {
	entry := middleware.Session(c)
	out, err := entry.Controller.Dispatch(c.Request.Context(), controller.ResetRequested{})
	s.respondView(c, out, err)
}

// handleAPIStructure reports the structure analysis of the loaded dataset
func (s *Server) handleAPIStructure(c *gin.Context) {
	entry := middleware.Session(c)
	ds := entry.Store.Get()
	if !ds.Present() {
		s.respondError(c, errors.NotFound("dataset"))
		return
	}
	c.JSON(http.StatusOK, structure.Analyze(ds))
}

// respondView writes out, or the error with out attached so clients can keep
// showing the current view.
func (s *Server) respondView(c *gin.Context, out view.Output, err error) {
	if err != nil {
		appErr := errors.FromDomain(err)
		c.JSON(errors.HTTPStatus(appErr), gin.H{
			"error": err.Error(),
			"code":  errors.GetCode(appErr),
			"view":  out,
		})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
