package view

// Figure is a plotly.js figure: the browser passes Data and Layout straight
// to Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace covers the three trace types this service emits: icicle, sunburst and table.
type Trace struct {
	Type    string       `json:"type"`
	Labels  []string     `json:"labels,omitempty"`
	Parents []string     `json:"parents,omitempty"`
	Tiling  *Tiling      `json:"tiling,omitempty"`
	Root    *RootStyle   `json:"root,omitempty"`
	Header  *TableHeader `json:"header,omitempty"`
	Cells   *TableCells  `json:"cells,omitempty"`
}

// Tiling controls icicle orientation ("v" stacks levels top to bottom).
type Tiling struct {
	Orientation string `json:"orientation"`
}

// RootStyle colors the synthetic root drawn above the top-level segments.
type RootStyle struct {
	Color string `json:"color"`
}

// Fill is a background color.
type Fill struct {
	Color string `json:"color"`
}

// TableHeader holds column names for a table trace.
type TableHeader struct {
	Values []string `json:"values"`
	Fill   Fill     `json:"fill"`
}

// TableCells holds cell values column by column.
type TableCells struct {
	Values [][]string `json:"values"`
}

// Layout is the subset of plotly layout this service sets.
type Layout struct {
	Margin *Margin `json:"margin,omitempty"`
}

// Margin in pixels.
type Margin struct {
	T int `json:"t"`
	L int `json:"l"`
	R int `json:"r"`
	B int `json:"b"`
}

const (
	TraceIcicle   = "icicle"
	TraceSunburst = "sunburst"
	TraceTable    = "table"

	RootColor        = "lightgrey"
	TableHeaderColor = "#fafafa"
	IcicleTiling     = "v"
)

// ChartMargin is shared by both hierarchy charts.
var ChartMargin = Margin{T: 50, L: 25, R: 25, B: 25}
