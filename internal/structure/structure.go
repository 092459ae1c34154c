// Package structure inspects a hierarchy dataset for the shapes a chart
// cannot draw faithfully: dangling parents, repeated segments and cycles.
// It also reports depth and fan-out figures shown next to the table.
package structure

import (
	"sort"

	"hierviz/domain/hierarchy"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DanglingRef is a row whose parent names no segment in the dataset.
type DanglingRef struct {
	Row     int    `json:"row"`
	Segment string `json:"segment"`
	Parent  string `json:"parent"`
}

// Duplicate is a segment that appears on more than one row.
type Duplicate struct {
	Segment string `json:"segment"`
	Rows    []int  `json:"rows"`
}

// Structure is the result of Analyze. Every list is ordered by the row on
// which its first member appears, so equal datasets give equal results.
type Structure struct {
	Rows        int           `json:"rows"`
	Nodes       int           `json:"nodes"`
	Roots       []string      `json:"roots"`
	Dangling    []DanglingRef `json:"dangling,omitempty"`
	Duplicates  []Duplicate   `json:"duplicates,omitempty"`
	Cycles      [][]string    `json:"cycles,omitempty"`
	Unreachable []string      `json:"unreachable,omitempty"`
	MaxDepth    int           `json:"max_depth"`
	LevelCounts []int         `json:"level_counts"`
	MeanFanOut  float64       `json:"mean_fan_out"`
	MaxFanOut   int           `json:"max_fan_out"`
}

// HasDangling reports whether any parent is unresolved.
func (s Structure) HasDangling() bool { return len(s.Dangling) > 0 }

// Analyze inspects ds. Rows are never modified.
func Analyze(ds hierarchy.Dataset) Structure {
	rows := ds.Rows()
	out := Structure{Rows: len(rows), Roots: []string{}, LevelCounts: []int{}}
	if len(rows) == 0 {
		return out
	}

	// First occurrence of each segment defines its node and its parent.
	index := make(map[string]int, len(rows))
	order := make([]string, 0, len(rows))
	parentOf := make(map[string]string, len(rows))
	seenRows := make(map[string][]int)
	for i, row := range rows {
		seenRows[row.Segment] = append(seenRows[row.Segment], i)
		if _, ok := index[row.Segment]; ok {
			continue
		}
		index[row.Segment] = len(order)
		order = append(order, row.Segment)
		parentOf[row.Segment] = row.Parent
	}
	out.Nodes = len(order)

	for _, seg := range order {
		if r := seenRows[seg]; len(r) > 1 {
			out.Duplicates = append(out.Duplicates, Duplicate{Segment: seg, Rows: r})
		}
	}

	for i, row := range rows {
		switch {
		case row.Parent == "":
			out.Roots = append(out.Roots, row.Segment)
		case !hasKey(index, row.Parent):
			out.Dangling = append(out.Dangling, DanglingRef{Row: i, Segment: row.Segment, Parent: row.Parent})
		}
	}

	out.Cycles = findCycles(order, index, parentOf)
	inCycle := make(map[string]bool)
	for _, c := range out.Cycles {
		for _, seg := range c {
			inCycle[seg] = true
		}
	}

	depths := computeDepths(order, index, parentOf, inCycle)
	var depthData stats.Float64Data
	for _, seg := range order {
		d := depths[seg]
		if d < 0 {
			if !inCycle[seg] {
				out.Unreachable = append(out.Unreachable, seg)
			}
			continue
		}
		depthData = append(depthData, float64(d))
		for len(out.LevelCounts) <= d {
			out.LevelCounts = append(out.LevelCounts, 0)
		}
		out.LevelCounts[d]++
	}
	if maxDepth, err := stats.Max(depthData); err == nil {
		out.MaxDepth = int(maxDepth)
	}

	children := make(map[string]int)
	for _, seg := range order {
		p := parentOf[seg]
		if p != "" && p != seg && hasKey(index, p) {
			children[p]++
		}
	}
	var fanOut stats.Float64Data
	for _, seg := range order {
		if n := children[seg]; n > 0 {
			fanOut = append(fanOut, float64(n))
		}
	}
	if mean, err := stats.Mean(fanOut); err == nil {
		out.MeanFanOut, _ = stats.Round(mean, 2)
	}
	if maxFan, err := stats.Max(fanOut); err == nil {
		out.MaxFanOut = int(maxFan)
	}

	return out
}

// findCycles returns every set of segments that reach themselves through
// their parents, including segments that name themselves as parent.
func findCycles(order []string, index map[string]int, parentOf map[string]string) [][]string {
	g := simple.NewDirectedGraph()
	for i := range order {
		g.AddNode(simple.Node(int64(i)))
	}

	var cycles [][]string
	for i, seg := range order {
		p := parentOf[seg]
		if p == "" {
			continue
		}
		j, ok := index[p]
		if !ok {
			continue
		}
		if i == j {
			// simple graphs reject self edges
			cycles = append(cycles, []string{seg})
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(int64(j)), simple.Node(int64(i))))
	}

	for _, component := range topo.TarjanSCC(g) {
		if len(component) < 2 {
			continue
		}
		ids := make([]int, 0, len(component))
		for _, n := range component {
			ids = append(ids, int(n.ID()))
		}
		sort.Ints(ids)
		segs := make([]string, len(ids))
		for k, id := range ids {
			segs[k] = order[id]
		}
		cycles = append(cycles, segs)
	}

	sort.SliceStable(cycles, func(a, b int) bool {
		return index[cycles[a][0]] < index[cycles[b][0]]
	})
	return cycles
}

// computeDepths assigns depth 0 to roots and to segments with dangling
// parents, matching how they are charted. Segments in or below a cycle get -1.
func computeDepths(order []string, index map[string]int, parentOf map[string]string, inCycle map[string]bool) map[string]int {
	const unknown = -2
	depths := make(map[string]int, len(order))
	for _, seg := range order {
		depths[seg] = unknown
	}

	for _, start := range order {
		var path []string
		seg := start
		for depths[seg] == unknown {
			if inCycle[seg] {
				depths[seg] = -1
				break
			}
			p := parentOf[seg]
			if p == "" || !hasKey(index, p) {
				depths[seg] = 0
				break
			}
			path = append(path, seg)
			seg = p
		}
		base := depths[seg]
		for k := len(path) - 1; k >= 0; k-- {
			if base < 0 {
				depths[path[k]] = -1
				continue
			}
			base++
			depths[path[k]] = base
		}
	}
	return depths
}

func hasKey(m map[string]int, k string) bool {
	_, ok := m[k]
	return ok
}
