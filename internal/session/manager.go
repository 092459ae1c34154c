// Package session keeps one controller per browser session in memory.
// Nothing is written to disk; an evicted or restarted session starts over
// with no data.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hierviz/domain/core"
	"hierviz/internal"
	"hierviz/internal/controller"
	"hierviz/internal/datastore"
)

// Entry is one live session.
type Entry struct {
	ID         core.SessionID
	Controller *controller.Controller
	Store      *datastore.Store
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns the last time the session was used.
func (e *Entry) LastSeen() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = now
}

// Summary is what the health endpoint reports about a session.
type Summary struct {
	ID         core.SessionID `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	LastSeen   time.Time      `json:"last_seen"`
	HasDataset bool           `json:"has_dataset"`
	Rows       int            `json:"rows"`
}

// Manager owns all sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*Entry
	parser   controller.Parser
	ttl      time.Duration
	logger   *internal.Logger
	now      func() time.Time
}

// NewManager creates a manager that evicts sessions idle for longer than ttl.
func NewManager(parser controller.Parser, ttl time.Duration, logger *internal.Logger) *Manager {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Manager{
		sessions: make(map[core.SessionID]*Entry),
		parser:   parser,
		ttl:      ttl,
		logger:   logger.WithComponent("sessions"),
		now:      time.Now,
	}
}

// Get returns an existing session and marks it used.
func (m *Manager) Get(id core.SessionID) (*Entry, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	entry.touch(m.now())
	return entry, nil
}

// GetOrCreate returns the session for id. When id is empty or unknown a
// session is created under a freshly minted id, never under the caller's.
func (m *Manager) GetOrCreate(id core.SessionID) (*Entry, bool) {
	if id != "" {
		if entry, err := m.Get(id); err == nil {
			return entry, false
		}
	}
	id = core.NewSessionID()

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	store := datastore.New()
	entry := &Entry{
		ID:         id,
		Store:      store,
		Controller: controller.New(store, m.parser, m.logger.WithSession(id.String())),
		CreatedAt:  now,
		lastSeen:   now,
	}
	m.sessions[id] = entry
	m.logger.Debug("session created", "session_id", id.String())
	return entry, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List summarizes live sessions, oldest first.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	entries := make([]*Entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		ds := e.Store.Get()
		out = append(out, Summary{
			ID:         e.ID,
			CreatedAt:  e.CreatedAt,
			LastSeen:   e.LastSeen(),
			HasDataset: ds.Present(),
			Rows:       ds.Len(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Sweep evicts sessions idle since before now-ttl and returns how many went.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, e := range m.sessions {
		if e.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Info("idle sessions evicted", "count", evicted, "remaining", len(m.sessions))
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep(m.now())
		}
	}
}
