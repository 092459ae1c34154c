package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"hierviz/domain/hierarchy"
	"hierviz/internal/view"
	"hierviz/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// tabLink is one entry of the tab bar.
type tabLink struct {
	Label    string
	Href     string
	Selected bool
}

// pageData is what index.html renders.
type pageData struct {
	Title        string
	Tabs         []tabLink
	View         view.Output
	ViewTemplate string
	Source       *hierarchy.Source
	Rows         int
	HasData      bool
	Help         template.HTML
}

func parseTemplates(files fs.FS) (*template.Template, error) {
	templatesFS, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
	}
	templates := template.New("").Funcs(funcMap)

	// Parse each file under its path so handlers can refer to fragments by name.
	for _, name := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := templates.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	return templates, nil
}

// newPageData builds the page for out. The selected tab follows what is
// being shown, so an upload preview highlights the Upload tab.
func (s *Server) newPageData(out view.Output, ds hierarchy.Dataset) pageData {
	tabs := make([]tabLink, 0, len(hierarchy.Tabs()))
	for _, t := range hierarchy.Tabs() {
		tabs = append(tabs, tabLink{
			Label:    t.Label(),
			Href:     "/tab/" + t.String(),
			Selected: t == out.Tab,
		})
	}

	data := pageData{
		Title:        pageTitle,
		Tabs:         tabs,
		View:         out,
		ViewTemplate: fragments.ForKind(out.Kind),
		Rows:         ds.Len(),
		HasData:      ds.Present(),
		Help:         s.help,
	}
	if ds.Present() {
		src := ds.Source()
		data.Source = &src
	}
	return data
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template rendering failed", "template", templateName, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	if templateName == fragments.Index && !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("rendered page appears truncated", "template", templateName, "bytes", buf.Len())
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("writing template response failed", "error", err)
	}
}
