package ui

import (
	"html/template"
	"io/fs"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const helpDocument = "static/help.md"

// renderHelp converts the upload help document to HTML once at startup.
func renderHelp(files fs.FS) (template.HTML, error) {
	source, err := fs.ReadFile(files, helpDocument)
	if err != nil {
		return "", err
	}
	return template.HTML(markdownToHTML(source)), nil
}

func markdownToHTML(source []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML,
	})
	return markdown.ToHTML(source, p, renderer)
}
