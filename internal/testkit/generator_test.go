package testkit

import (
	"testing"

	"hierviz/adapters/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeGenerator_Balanced(t *testing.T) {
	rows := NewTreeGenerator(DefaultTreeConfig()).Rows()

	require.Len(t, rows, 1+3+9)
	assert.Equal(t, "Total", rows[0].Segment)
	assert.True(t, rows[0].IsRoot())
	assert.Equal(t, "Total.1", rows[1].Segment)
	assert.Equal(t, "Total", rows[1].Parent)
	assert.Equal(t, "Total.3.3", rows[12].Segment)
	assert.Equal(t, "Total.3", rows[12].Parent)
}

func TestTreeGenerator_Deterministic(t *testing.T) {
	cfg := DefaultTreeConfig()
	cfg.Levels = 4
	cfg.JitterFanOut = true
	cfg.Shuffle = true
	cfg.Seed = 7

	a := NewTreeGenerator(cfg).Rows()
	b := NewTreeGenerator(cfg).Rows()
	assert.Equal(t, a, b)

	cfg.Seed = 8
	assert.NotEqual(t, a, NewTreeGenerator(cfg).Rows())
}

func TestTreeGenerator_EdgeConfigs(t *testing.T) {
	cfg := DefaultTreeConfig()
	cfg.Levels = 0
	assert.Empty(t, NewTreeGenerator(cfg).Rows())

	cfg.Levels = 1
	cfg.DanglingCount = 2
	rows := NewTreeGenerator(cfg).Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Missing 2", rows[2].Parent)
}

func TestTreeGenerator_CSVAndXLSXParse(t *testing.T) {
	cfg := DefaultTreeConfig()
	cfg.ExtraColumns = []string{"Value", "Target"}
	reader := tabular.NewReader(tabular.DefaultReaderConfig())

	csvData, err := NewTreeGenerator(cfg).CSV()
	require.NoError(t, err)
	fromCSV, err := reader.Parse(csvData)
	require.NoError(t, err)
	assert.Equal(t, NewTreeGenerator(cfg).Rows(), fromCSV)

	xlsxData, err := NewTreeGenerator(cfg).XLSX()
	require.NoError(t, err)
	assert.Equal(t, tabular.FormatXLSX, tabular.DetectFormat(xlsxData))
	fromXLSX, err := reader.Parse(xlsxData)
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromXLSX)
}
