// Package datastore holds the hierarchy dataset of a single session.
package datastore

import (
	"sync"
	"time"

	"hierviz/domain/hierarchy"
)

// Store holds at most one dataset. It performs no validation; whatever the
// parser accepted is kept as-is.
type Store struct {
	mu        sync.RWMutex
	dataset   hierarchy.Dataset
	updatedAt time.Time
	now       func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{dataset: hierarchy.Absent(), now: time.Now}
}

// Set replaces the current dataset unconditionally. Last upload wins.
func (s *Store) Set(ds hierarchy.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.updatedAt = s.now()
}

// Get returns the current dataset or hierarchy.Absent().
func (s *Store) Get() hierarchy.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Clear resets the store to absent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = hierarchy.Absent()
	s.updatedAt = s.now()
}

// UpdatedAt is the time of the last Set or Clear; zero if neither happened.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
