package session

import (
	"context"
	"testing"
	"time"

	"hierviz/adapters/tabular"
	"hierviz/domain/core"
	"hierviz/internal/controller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(ttl time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewManager(tabular.NewReader(tabular.DefaultReaderConfig()), ttl, nil)
	m.now = clock.Now
	return m, clock
}

func TestGetOrCreate(t *testing.T) {
	m, _ := newTestManager(time.Minute)

	first, created := m.GetOrCreate("")
	require.True(t, created)
	assert.NotEmpty(t, first.ID)

	again, created := m.GetOrCreate(first.ID)
	assert.False(t, created)
	assert.Same(t, first, again)
	assert.Equal(t, 1, m.Len())

	_, created = m.GetOrCreate("")
	assert.True(t, created)
	assert.Equal(t, 2, m.Len())
}

func TestGetOrCreateNeverAdoptsUnknownID(t *testing.T) {
	m, _ := newTestManager(time.Minute)

	planted := core.NewSessionID()
	entry, created := m.GetOrCreate(planted)
	require.True(t, created)
	assert.NotEqual(t, planted, entry.ID)

	_, err := m.Get(planted)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	// A second caller presenting the same id gets yet another session.
	other, created := m.GetOrCreate(planted)
	assert.True(t, created)
	assert.NotEqual(t, entry.ID, other.ID)
	assert.Equal(t, 2, m.Len())
}

func TestGetMissing(t *testing.T) {
	m, _ := newTestManager(time.Minute)
	_, err := m.Get(core.NewSessionID())
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.True(t, core.IsNotFoundError(err))
}

func TestSessionsDoNotShareData(t *testing.T) {
	m, _ := newTestManager(time.Minute)
	a, _ := m.GetOrCreate("")
	b, _ := m.GetOrCreate("")

	_, err := a.Controller.Dispatch(context.Background(), controller.FileUploaded{Data: []byte("Segment,parent\nA,\n")})
	require.NoError(t, err)

	assert.True(t, a.Store.Get().Present())
	assert.False(t, b.Store.Get().Present())

	list := m.List()
	require.Len(t, list, 2)
	rows := map[core.SessionID]int{}
	for _, s := range list {
		rows[s.ID] = s.Rows
	}
	assert.Equal(t, 1, rows[a.ID])
	assert.Equal(t, 0, rows[b.ID])
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	m, clock := newTestManager(10 * time.Minute)

	idle, _ := m.GetOrCreate("")
	clock.Advance(8 * time.Minute)
	busy, _ := m.GetOrCreate("")
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 1, m.Sweep(clock.Now()))
	_, err := m.Get(idle.ID)
	assert.Error(t, err)
	_, err = m.Get(busy.ID)
	assert.NoError(t, err)

	// Get refreshed busy, so it survives another short wait.
	clock.Advance(9 * time.Minute)
	assert.Equal(t, 0, m.Sweep(clock.Now()))
}

func TestRunStopsWithContext(t *testing.T) {
	m, _ := newTestManager(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
