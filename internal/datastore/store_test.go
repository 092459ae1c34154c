package datastore

import (
	"testing"
	"time"

	"hierviz/domain/hierarchy"

	"github.com/stretchr/testify/assert"
)

func TestStoreStartsAbsent(t *testing.T) {
	s := New()
	assert.False(t, s.Get().Present())
	assert.True(t, s.UpdatedAt().IsZero())
}

func TestStoreLastSetWins(t *testing.T) {
	s := New()
	s.Set(hierarchy.NewDataset([]hierarchy.Row{{Segment: "A"}, {Segment: "B", Parent: "A"}}, hierarchy.Source{Filename: "first.csv"}))
	s.Set(hierarchy.NewDataset([]hierarchy.Row{{Segment: "X"}}, hierarchy.Source{Filename: "second.csv"}))

	ds := s.Get()
	assert.True(t, ds.Present())
	assert.Equal(t, []string{"X"}, ds.Labels())
	assert.Equal(t, "second.csv", ds.Source().Filename)
}

func TestStoreClear(t *testing.T) {
	s := New()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Set(hierarchy.NewDataset([]hierarchy.Row{{Segment: "A"}}, hierarchy.Source{}))
	s.Clear()

	assert.False(t, s.Get().Present())
	assert.Equal(t, fixed, s.UpdatedAt())
}
