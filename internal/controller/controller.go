package controller

import (
	"context"
	"sync"
	"time"

	"hierviz/domain/hierarchy"
	"hierviz/internal"
	"hierviz/internal/datastore"
	"hierviz/internal/view"
)

// Controller owns the view state of one session. Dispatch calls are
// serialized, so each event is handled to completion before the next.
type Controller struct {
	mu        sync.Mutex
	activeTab hierarchy.Tab
	store     *datastore.Store
	parser    Parser
	logger    *internal.Logger
	now       func() time.Time
}

// New creates a controller in the initial state: upload tab, no data.
func New(store *datastore.Store, parser Parser, logger *internal.Logger) *Controller {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Controller{
		activeTab: hierarchy.TabUpload,
		store:     store,
		parser:    parser,
		logger:    logger.WithComponent("controller"),
		now:       time.Now,
	}
}

// State returns a snapshot of the current view state.
func (c *Controller) State() hierarchy.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() hierarchy.ViewState {
	return hierarchy.ViewState{ActiveTab: c.activeTab, Dataset: c.store.Get()}
}

// Current renders the active tab over the current dataset.
func (c *Controller) Current() view.Output {
	st := c.State()
	return view.Render(st.ActiveTab, st.Dataset)
}

// Dispatch applies ev and renders the result. A returned error is also set
// on the output; the session stays usable and the dataset is left as it was.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (view.Output, error) {
	if err := ctx.Err(); err != nil {
		return c.Current(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := Reduce(c.stateLocked(), ev, c.parser, c.now())

	if t.Err != nil {
		c.logger.Warn("event rejected", "event", ev.eventName(), "error", t.Err)
		out := view.Render(t.ViewTab, t.Next.Dataset)
		out.Error = t.Err.Error()
		return out, t.Err
	}

	c.activeTab = t.Next.ActiveTab
	if t.Next.DatasetChanged {
		if t.Next.Dataset.Present() {
			c.store.Set(t.Next.Dataset)
			src := t.Next.Dataset.Source()
			c.logger.Info("dataset replaced",
				"filename", src.Filename,
				"fingerprint", src.Fingerprint.Short(),
				"rows", t.Next.Dataset.Len())
		} else {
			c.store.Clear()
			c.logger.Info("dataset cleared")
		}
	}
	c.logger.Debug("event applied", "event", ev.eventName(), "active_tab", c.activeTab, "view_tab", t.ViewTab)

	return view.Render(t.ViewTab, t.Next.Dataset), nil
}
