// Package view turns a tab selection and a dataset into a description of
// what the page shows. Render is pure: equal inputs give equal outputs.
package view

import (
	"fmt"
	"strings"

	"hierviz/domain/core"
	"hierviz/domain/hierarchy"
	"hierviz/internal/structure"
)

// Kind is the shape of a rendered view.
type Kind string

const (
	KindUploadPrompt Kind = "upload_prompt"
	KindTable        Kind = "table"
	KindIcicle       Kind = "icicle"
	KindSunburst     Kind = "sunburst"
	KindNoData       Kind = "no_data"
)

// NoDataMessage is shown on chart tabs before anything has been uploaded.
const NoDataMessage = "No data available. Upload a CSV file on the Upload tab first."

// Level grades a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notice is a remark about the data shown alongside a view.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Table is the row preview shown on the upload tab.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Output describes one rendered view.
type Output struct {
	Tab     hierarchy.Tab `json:"tab"`
	Kind    Kind          `json:"kind"`
	Message string        `json:"message,omitempty"`
	Table   *Table        `json:"table,omitempty"`
	Figure  *Figure       `json:"figure,omitempty"`
	Notices []Notice      `json:"notices,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// HasChart reports whether the output carries a hierarchy chart.
func (o Output) HasChart() bool {
	return o.Kind == KindIcicle || o.Kind == KindSunburst
}

// Render produces the view for tab over ds.
func Render(tab hierarchy.Tab, ds hierarchy.Dataset) Output {
	switch tab {
	case hierarchy.TabUpload:
		if !ds.Present() {
			return Output{Tab: tab, Kind: KindUploadPrompt}
		}
		return renderTable(tab, ds)

	case hierarchy.TabKPITree, hierarchy.TabSunburst:
		// Chart inputs with no labels draw an empty canvas; stop before building one.
		if !ds.Present() || ds.Len() == 0 {
			return Output{Tab: tab, Kind: KindNoData, Message: NoDataMessage}
		}
		return renderChart(tab, ds)

	default:
		return Output{
			Tab:   tab,
			Kind:  KindNoData,
			Error: core.NewUnknownTabError(string(tab)).Error(),
		}
	}
}

func renderTable(tab hierarchy.Tab, ds hierarchy.Dataset) Output {
	columns := hierarchy.Columns()
	rows := make([][]string, 0, ds.Len())
	for _, r := range ds.Rows() {
		rows = append(rows, []string{r.Segment, r.Parent})
	}

	fig := &Figure{
		Data: []Trace{{
			Type:   TraceTable,
			Header: &TableHeader{Values: columns, Fill: Fill{Color: TableHeaderColor}},
			Cells:  &TableCells{Values: [][]string{ds.Labels(), ds.Parents()}},
		}},
	}

	return Output{
		Tab:     tab,
		Kind:    KindTable,
		Table:   &Table{Columns: columns, Rows: rows},
		Figure:  fig,
		Message: fmt.Sprintf("%d rows loaded", ds.Len()),
	}
}

func renderChart(tab hierarchy.Tab, ds hierarchy.Dataset) Output {
	st := structure.Analyze(ds)

	// Dangling parents are charted as extra roots.
	parents := ds.Parents()
	if st.HasDangling() {
		for _, d := range st.Dangling {
			parents[d.Row] = ""
		}
	}

	trace := Trace{
		Labels:  ds.Labels(),
		Parents: parents,
		Root:    &RootStyle{Color: RootColor},
	}
	kind := KindSunburst
	trace.Type = TraceSunburst
	if tab == hierarchy.TabKPITree {
		kind = KindIcicle
		trace.Type = TraceIcicle
		trace.Tiling = &Tiling{Orientation: IcicleTiling}
	}

	margin := ChartMargin
	return Output{
		Tab:     tab,
		Kind:    kind,
		Figure:  &Figure{Data: []Trace{trace}, Layout: Layout{Margin: &margin}},
		Notices: Notices(st),
	}
}

// Notices explains how the chart departs from the raw rows.
func Notices(st structure.Structure) []Notice {
	var out []Notice
	for _, d := range st.Dangling {
		out = append(out, Notice{
			Level: LevelWarning,
			Text:  fmt.Sprintf("row %d: parent %q of segment %q is not a segment in this file; it is shown as a root", d.Row+1, d.Parent, d.Segment),
		})
	}
	for _, d := range st.Duplicates {
		out = append(out, Notice{
			Level: LevelWarning,
			Text:  fmt.Sprintf("segment %q appears on %d rows; the chart may merge or drop repeats", d.Segment, len(d.Rows)),
		})
	}
	for _, c := range st.Cycles {
		out = append(out, Notice{
			Level: LevelWarning,
			Text:  fmt.Sprintf("segments %s form a cycle and cannot be charted", quoteJoin(c)),
		})
	}
	if len(st.Unreachable) > 0 {
		out = append(out, Notice{
			Level: LevelInfo,
			Text:  fmt.Sprintf("segments %s sit below a cycle and cannot be charted", quoteJoin(st.Unreachable)),
		})
	}
	return out
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
