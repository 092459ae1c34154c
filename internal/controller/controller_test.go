package controller

import (
	"context"
	"testing"
	"time"

	"hierviz/adapters/tabular"
	"hierviz/domain/core"
	"hierviz/domain/hierarchy"
	"hierviz/internal/datastore"
	"hierviz/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController() (*Controller, *datastore.Store) {
	store := datastore.New()
	return New(store, tabular.NewReader(tabular.DefaultReaderConfig()), nil), store
}

func upload(t *testing.T, c *Controller, body string) (view.Output, error) {
	t.Helper()
	return c.Dispatch(context.Background(), FileUploaded{Filename: "tree.csv", Data: []byte(body)})
}

func selectTab(t *testing.T, c *Controller, tab hierarchy.Tab) view.Output {
	t.Helper()
	out, err := c.Dispatch(context.Background(), TabSelected{Tab: tab})
	require.NoError(t, err)
	return out
}

func TestInitialState(t *testing.T) {
	c, _ := newTestController()

	st := c.State()
	assert.Equal(t, hierarchy.TabUpload, st.ActiveTab)
	assert.False(t, st.Dataset.Present())
	assert.Equal(t, view.KindUploadPrompt, c.Current().Kind)
}

func TestUploadThenIcicleShowsChart(t *testing.T) {
	c, store := newTestController()

	out, err := upload(t, c, "Segment,parent\nA,\nB,A\nC,A")
	require.NoError(t, err)
	require.Equal(t, view.KindTable, out.Kind)
	assert.Len(t, out.Table.Rows, 3)
	assert.Equal(t, 3, store.Get().Len())

	out = selectTab(t, c, hierarchy.TabKPITree)
	require.Equal(t, view.KindIcicle, out.Kind)
	tr := out.Figure.Data[0]
	assert.Equal(t, []string{"A", "B", "C"}, tr.Labels)
	assert.Equal(t, []string{"", "A", "A"}, tr.Parents)
}

func TestUploadWithoutParentColumnLeavesNoDataset(t *testing.T) {
	c, store := newTestController()

	out, err := upload(t, c, "Segment,owner\nA,x\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingColumn)

	assert.False(t, store.Get().Present(), "dataset must stay absent")
	assert.Equal(t, view.KindUploadPrompt, out.Kind)
	assert.NotEmpty(t, out.Error)
	assert.Equal(t, hierarchy.TabUpload, c.State().ActiveTab)

	// The session keeps working after the failure.
	_, err = upload(t, c, "Segment,parent\nA,\n")
	require.NoError(t, err)
	assert.True(t, store.Get().Present())
}

func TestSunburstBeforeUploadShowsNoData(t *testing.T) {
	c, store := newTestController()

	out := selectTab(t, c, hierarchy.TabSunburst)
	assert.Equal(t, view.KindNoData, out.Kind)
	assert.Nil(t, out.Figure)
	assert.False(t, store.Get().Present())
	assert.Equal(t, hierarchy.TabSunburst, c.State().ActiveTab)
}

func TestSecondUploadReplacesDataset(t *testing.T) {
	c, _ := newTestController()

	_, err := upload(t, c, "Segment,parent\nA,\nB,A\nC,A\n")
	require.NoError(t, err)
	_, err = upload(t, c, "Segment,parent\nX,\nY,X\n")
	require.NoError(t, err)

	for _, tab := range []hierarchy.Tab{hierarchy.TabKPITree, hierarchy.TabSunburst} {
		out := selectTab(t, c, tab)
		tr := out.Figure.Data[0]
		assert.Equal(t, []string{"X", "Y"}, tr.Labels)
		assert.Equal(t, []string{"", "X"}, tr.Parents)
		assert.NotContains(t, tr.Labels, "A")
	}
}

func TestFailedReuploadKeepsPreviousDataset(t *testing.T) {
	c, store := newTestController()

	_, err := upload(t, c, "Segment,parent\nA,\nB,A\n")
	require.NoError(t, err)
	before := store.Get()

	out, err := upload(t, c, "Segment,parent\n\"broken,\n")
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))

	after := store.Get()
	assert.Equal(t, before.Rows(), after.Rows())
	assert.Equal(t, before.Source(), after.Source())
	// The error is shown over the previous table.
	assert.Equal(t, view.KindTable, out.Kind)
	assert.NotEmpty(t, out.Error)
}

func TestTabSwitchNeverMutatesDataset(t *testing.T) {
	c, store := newTestController()
	_, err := upload(t, c, "Segment,parent\nA,\nB,A\n")
	require.NoError(t, err)
	before := store.Get()
	updated := store.UpdatedAt()

	for _, tab := range []hierarchy.Tab{hierarchy.TabSunburst, hierarchy.TabKPITree, hierarchy.TabUpload, hierarchy.TabSunburst} {
		selectTab(t, c, tab)
	}

	assert.Equal(t, before.Rows(), store.Get().Rows())
	assert.Equal(t, updated, store.UpdatedAt())
}

func TestUploadShowsTableWhateverTheActiveTab(t *testing.T) {
	c, _ := newTestController()
	selectTab(t, c, hierarchy.TabSunburst)

	out, err := upload(t, c, "Segment,parent\nA,\n")
	require.NoError(t, err)
	assert.Equal(t, view.KindTable, out.Kind)
	assert.Equal(t, hierarchy.TabUpload, out.Tab)
	assert.Equal(t, hierarchy.TabSunburst, c.State().ActiveTab)
	assert.Equal(t, view.KindSunburst, c.Current().Kind)
}

func TestUnknownTabRejected(t *testing.T) {
	c, _ := newTestController()
	out, err := c.Dispatch(context.Background(), TabSelected{Tab: "treemap"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownTab)
	assert.Equal(t, hierarchy.TabUpload, c.State().ActiveTab)
	assert.NotEmpty(t, out.Error)
}

func TestReset(t *testing.T) {
	c, store := newTestController()
	_, err := upload(t, c, "Segment,parent\nA,\n")
	require.NoError(t, err)
	selectTab(t, c, hierarchy.TabKPITree)

	out, err := c.Dispatch(context.Background(), ResetRequested{})
	require.NoError(t, err)
	assert.Equal(t, view.KindUploadPrompt, out.Kind)
	assert.False(t, store.Get().Present())
	assert.Equal(t, hierarchy.TabUpload, c.State().ActiveTab)
}

func TestDispatchHonoursCancelledContext(t *testing.T) {
	c, store := newTestController()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Dispatch(ctx, FileUploaded{Data: []byte("Segment,parent\nA,\n")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.Get().Present())
}

func TestReduceIsPure(t *testing.T) {
	parser := tabular.NewReader(tabular.DefaultReaderConfig())
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	state := hierarchy.InitialViewState()

	tr := Reduce(state, FileUploaded{Filename: "a.csv", Data: []byte("Segment,parent\nA,\n")}, parser, now)
	require.NoError(t, tr.Err)
	assert.True(t, tr.Next.DatasetChanged)
	assert.Equal(t, hierarchy.TabUpload, tr.ViewTab)
	assert.Equal(t, now, tr.Next.Dataset.Source().LoadedAt)
	assert.Equal(t, core.NewHash([]byte("Segment,parent\nA,\n")), tr.Next.Dataset.Source().Fingerprint)
	assert.False(t, state.Dataset.Present(), "input state untouched")

	again := Reduce(state, FileUploaded{Filename: "a.csv", Data: []byte("Segment,parent\nA,\n")}, parser, now)
	assert.Equal(t, tr, again)

	tab := Reduce(tr.Next.ViewState, TabSelected{Tab: hierarchy.TabKPITree}, parser, now)
	assert.False(t, tab.Next.DatasetChanged)
	assert.Equal(t, tr.Next.Dataset, tab.Next.Dataset)
}
