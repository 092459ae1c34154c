// Package testkit builds synthetic hierarchy files for tests and for
// hvinspect generate.
package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"

	"hierviz/domain/hierarchy"

	"github.com/xuri/excelize/v2"
)

// TreeGeneratorConfig configures the tree generator
type TreeGeneratorConfig struct {
	RootName string `json:"root_name"`
	// Levels counts the root level, so Levels=1 yields a single row.
	Levels int `json:"levels"`
	FanOut int `json:"fan_out"`
	// JitterFanOut draws each node's child count from 1..FanOut.
	JitterFanOut bool `json:"jitter_fan_out"`
	// DanglingCount appends rows whose parent is not in the file.
	DanglingCount int `json:"dangling_count"`
	// ExtraColumns are filled with random numbers; the viewer ignores them.
	ExtraColumns []string `json:"extra_columns"`
	Shuffle      bool     `json:"shuffle"`
	Seed         int64    `json:"seed"`
}

// DefaultTreeConfig returns a small balanced tree
func DefaultTreeConfig() TreeGeneratorConfig {
	return TreeGeneratorConfig{
		RootName: "Total",
		Levels:   3,
		FanOut:   3,
		Seed:     42,
	}
}

// TreeGenerator generates hierarchy rows deterministically for a seed
type TreeGenerator struct {
	config TreeGeneratorConfig
	rng    *rand.Rand
}

// NewTreeGenerator creates a new tree generator
func NewTreeGenerator(config TreeGeneratorConfig) *TreeGenerator {
	if config.RootName == "" {
		config.RootName = "Total"
	}
	if config.FanOut < 1 {
		config.FanOut = 1
	}
	return &TreeGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Rows generates the tree breadth first: the root, then each level in order.
func (g *TreeGenerator) Rows() []hierarchy.Row {
	if g.config.Levels < 1 {
		return []hierarchy.Row{}
	}

	rows := []hierarchy.Row{{Segment: g.config.RootName}}
	level := []string{g.config.RootName}
	for depth := 1; depth < g.config.Levels; depth++ {
		var next []string
		for _, parent := range level {
			children := g.config.FanOut
			if g.config.JitterFanOut {
				children = 1 + g.rng.Intn(g.config.FanOut)
			}
			for i := 1; i <= children; i++ {
				name := fmt.Sprintf("%s.%d", parent, i)
				rows = append(rows, hierarchy.Row{Segment: name, Parent: parent})
				next = append(next, name)
			}
		}
		level = next
	}

	for i := 1; i <= g.config.DanglingCount; i++ {
		rows = append(rows, hierarchy.Row{
			Segment: fmt.Sprintf("Orphan %d", i),
			Parent:  fmt.Sprintf("Missing %d", i),
		})
	}

	if g.config.Shuffle {
		g.rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	}
	return rows
}

// header returns the file header for the configured extra columns.
func (g *TreeGenerator) header() []string {
	return append(hierarchy.Columns(), g.config.ExtraColumns...)
}

func (g *TreeGenerator) record(r hierarchy.Row) []string {
	rec := []string{r.Segment, r.Parent}
	for range g.config.ExtraColumns {
		rec = append(rec, fmt.Sprintf("%.2f", g.rng.Float64()*1000))
	}
	return rec
}

// CSV generates a tree and encodes it as a CSV file with a header row.
func (g *TreeGenerator) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(g.header()); err != nil {
		return nil, err
	}
	for _, r := range g.Rows() {
		if err := w.Write(g.record(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX generates a tree into the first sheet of a workbook.
func (g *TreeGenerator) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeSheetRow(f, sheet, 1, g.header()); err != nil {
		return nil, err
	}
	for i, r := range g.Rows() {
		if err := writeSheetRow(f, sheet, i+2, g.record(r)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
