package hierarchy

import (
	"time"

	"hierviz/domain/core"
)

// Column names every upload must carry. Matching is exact and case-sensitive.
const (
	ColumnSegment = "Segment"
	ColumnParent  = "parent"
)

// Columns lists the dataset columns in display order.
func Columns() []string {
	return []string{ColumnSegment, ColumnParent}
}

// Row is one node of the hierarchy. An empty Parent marks a root.
type Row struct {
	Segment string `json:"Segment"`
	Parent  string `json:"parent"`
}

// IsRoot reports whether the row has no parent.
func (r Row) IsRoot() bool { return r.Parent == "" }

// Source describes where a dataset came from
type Source struct {
	Filename    string    `json:"filename,omitempty"`
	Fingerprint core.Hash `json:"fingerprint,omitempty"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Dataset is the ordered, immutable set of rows for one session, or the
// absent sentinel before the first successful upload.
type Dataset struct {
	rows    []Row
	source  Source
	present bool
}

// Absent returns the "no upload yet" dataset.
func Absent() Dataset { return Dataset{} }

// NewDataset copies rows into a present dataset.
func NewDataset(rows []Row, source Source) Dataset {
	cp := make([]Row, len(rows))
	copy(cp, rows)
	return Dataset{rows: cp, source: source, present: true}
}

// Present reports whether a dataset has been loaded.
func (d Dataset) Present() bool { return d.present }

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.rows) }

// Source returns upload metadata.
func (d Dataset) Source() Source { return d.source }

// Rows returns a copy of the rows in file order.
func (d Dataset) Rows() []Row {
	cp := make([]Row, len(d.rows))
	copy(cp, d.rows)
	return cp
}

// Labels returns the Segment column, index-aligned with Parents.
func (d Dataset) Labels() []string {
	out := make([]string, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Segment
	}
	return out
}

// Parents returns the parent column, index-aligned with Labels.
func (d Dataset) Parents() []string {
	out := make([]string, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Parent
	}
	return out
}

// Tab selects which encoding of the dataset is shown.
type Tab string

const (
	TabUpload   Tab = "upload"
	TabKPITree  Tab = "kpitree"
	TabSunburst Tab = "sunburst"
)

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabUpload, TabKPITree, TabSunburst}
}

// ParseTab converts a tab value from a URL or form into a Tab.
func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabUpload, TabKPITree, TabSunburst:
		return t, nil
	default:
		return "", core.NewUnknownTabError(s)
	}
}

// Label is the text shown on the tab bar.
func (t Tab) Label() string {
	switch t {
	case TabUpload:
		return "Upload"
	case TabKPITree:
		return "KPI Tree"
	case TabSunburst:
		return "Sunburst"
	default:
		return string(t)
	}
}

func (t Tab) String() string { return string(t) }

// ViewState is everything one session shows: the selected tab and its data.
type ViewState struct {
	ActiveTab Tab
	Dataset   Dataset
}

// InitialViewState is the state of a fresh session.
func InitialViewState() ViewState {
	return ViewState{ActiveTab: TabUpload, Dataset: Absent()}
}
