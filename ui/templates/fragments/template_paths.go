// Package fragments names the page templates so handlers and the template
// loader agree on them.
package fragments

import "hierviz/internal/view"

// Template paths, relative to ui/templates. Each file is parsed under its path.
const (
	Index = "index.html"

	// Layout templates
	TabBar      = "fragments/layout/tab_bar.html"
	UploadForm  = "fragments/layout/upload_form.html"
	SourceBadge = "fragments/layout/source_badge.html"

	// View templates, one per view kind
	UploadPrompt = "fragments/views/upload_prompt.html"
	TableView    = "fragments/views/table.html"
	ChartView    = "fragments/views/chart.html"
	NoData       = "fragments/views/no_data.html"

	// Status templates
	Notices   = "fragments/status/notices.html"
	ErrorLine = "fragments/status/error.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		Index,

		// Layout
		TabBar,
		UploadForm,
		SourceBadge,

		// Views
		UploadPrompt,
		TableView,
		ChartView,
		NoData,

		// Status
		Notices,
		ErrorLine,
	}
}

// ForKind returns the view template that draws outputs of kind k.
func ForKind(k view.Kind) string {
	switch k {
	case view.KindUploadPrompt:
		return UploadPrompt
	case view.KindTable:
		return TableView
	case view.KindIcicle, view.KindSunburst:
		return ChartView
	default:
		return NoData
	}
}
