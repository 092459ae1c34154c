// Package controller drives one session's view state. Every user action is
// an Event; Reduce computes the next state and Controller applies it, then
// renders.
package controller

import (
	"time"

	"hierviz/domain/core"
	"hierviz/domain/hierarchy"
)

// Parser turns raw upload bytes into rows. Failures wrap core.ErrParse.
type Parser interface {
	Parse(raw []byte) ([]hierarchy.Row, error)
}

// Event is a user action.
type Event interface {
	eventName() string
}

// TabSelected switches the visible tab.
type TabSelected struct {
	Tab hierarchy.Tab
}

// FileUploaded carries the bytes of a newly selected file.
type FileUploaded struct {
	Filename string
	Data     []byte
}

// ResetRequested drops the current dataset.
type ResetRequested struct{}

func (TabSelected) eventName() string    { return "tab_selected" }
func (FileUploaded) eventName() string   { return "file_uploaded" }
func (ResetRequested) eventName() string { return "reset_requested" }

// Transition is the outcome of reducing one event.
type Transition struct {
	Next ViewStateChange
	// ViewTab is the tab to render for this event. After an upload it is the
	// upload tab, whatever tab is active, so the user sees the table preview.
	ViewTab hierarchy.Tab
	// Err is a recoverable failure to show next to the view. State is unchanged when set.
	Err error
}

// ViewStateChange is the next state plus whether the dataset was replaced.
type ViewStateChange struct {
	hierarchy.ViewState
	DatasetChanged bool
}

// Reduce applies ev to state. It never mutates its input.
func Reduce(state hierarchy.ViewState, ev Event, parser Parser, now time.Time) Transition {
	switch e := ev.(type) {
	case TabSelected:
		if _, err := hierarchy.ParseTab(string(e.Tab)); err != nil {
			return Transition{Next: ViewStateChange{ViewState: state}, ViewTab: state.ActiveTab, Err: err}
		}
		next := state
		next.ActiveTab = e.Tab
		return Transition{Next: ViewStateChange{ViewState: next}, ViewTab: e.Tab}

	case FileUploaded:
		rows, err := parser.Parse(e.Data)
		if err != nil {
			return Transition{Next: ViewStateChange{ViewState: state}, ViewTab: state.ActiveTab, Err: err}
		}
		next := state
		next.Dataset = hierarchy.NewDataset(rows, hierarchy.Source{
			Filename:    e.Filename,
			Fingerprint: core.NewHash(e.Data),
			LoadedAt:    now,
		})
		return Transition{Next: ViewStateChange{ViewState: next, DatasetChanged: true}, ViewTab: hierarchy.TabUpload}

	case ResetRequested:
		next := hierarchy.InitialViewState()
		return Transition{Next: ViewStateChange{ViewState: next, DatasetChanged: true}, ViewTab: next.ActiveTab}

	default:
		return Transition{Next: ViewStateChange{ViewState: state}, ViewTab: state.ActiveTab}
	}
}
