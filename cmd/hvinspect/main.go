package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hierviz/adapters/tabular"
	"hierviz/domain/core"
	"hierviz/domain/hierarchy"
	"hierviz/internal/structure"
	"hierviz/internal/testkit"
	"hierviz/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9A9A9A"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C343"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1975FA", Dark: "#6CA8FF"})
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readerOptions are the parser settings shared by every subcommand.
type readerOptions struct {
	maxBytes   int64
	nullValues []string
}

func (o *readerOptions) reader() *tabular.Reader {
	return tabular.NewReader(tabular.ReaderConfig{MaxBytes: o.maxBytes, NullValues: o.nullValues})
}

func newRootCmd() *cobra.Command {
	opts := &readerOptions{}

	rootCmd := &cobra.Command{
		Use:           "hvinspect",
		Short:         "Inspect hierarchy CSV files the way the viewer reads them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Int64Var(&opts.maxBytes, "max-bytes", tabular.DefaultReaderConfig().MaxBytes, "Reject files larger than this many bytes (0 for no limit)")
	rootCmd.PersistentFlags().StringSliceVar(&opts.nullValues, "null", tabular.DefaultNullValues(), "Cell values to treat as empty; --null= keeps every value literal")

	rootCmd.AddCommand(
		newRowsCmd(opts),
		newCheckCmd(opts),
		newRenderCmd(opts),
		newGenerateCmd(),
	)
	return rootCmd
}

func newRowsCmd(opts *readerOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rows FILE",
		Short: "Print the Segment and parent columns as parsed",
		Long: `Print the rows the viewer would load from FILE, in file order.

Use "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd, opts, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("#", hierarchy.ColumnSegment, hierarchy.ColumnParent)
			for i, r := range ds.Rows() {
				t.Row(strconv.Itoa(i+1), r.Segment, r.Parent)
			}
			fmt.Fprintln(out, t.String())
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d rows", ds.Len())))
			return nil
		},
	}
}

func newCheckCmd(opts *readerOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Report roots, depth and structural problems",
		Long: `Parse FILE and report its shape: roots, depth, fan-out, and any
dangling parents, repeated segments or cycles.

Exits non-zero when FILE cannot be parsed, or with --strict when any
warning is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd, opts, args[0])
			if err != nil {
				return err
			}

			st := structure.Analyze(ds)
			notices := view.Notices(st)
			printStructure(cmd.OutOrStdout(), ds, st, notices)

			if strict {
				warnings := 0
				for _, n := range notices {
					if n.Level == view.LevelWarning {
						warnings++
					}
				}
				if warnings > 0 {
					return fmt.Errorf("%d warning(s) in %s", warnings, args[0])
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any warning is reported")
	return cmd
}

func newRenderCmd(opts *readerOptions) *cobra.Command {
	var tabName string
	var compact bool

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print the view the viewer would show for a tab, as JSON",
		Long: `Render FILE for one tab and print the view output as JSON. For chart
tabs the "figure" member can be passed to Plotly.newPlot as is.

Example: hvinspect render --tab sunburst tree.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := hierarchy.ParseTab(tabName)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd, opts, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(view.Render(tab, ds))
		},
	}
	cmd.Flags().StringVar(&tabName, "tab", hierarchy.TabKPITree.String(), "Tab to render: upload|kpitree|sunburst")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on one line")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	cfg := testkit.DefaultTreeConfig()
	var format string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic hierarchy file to standard output",
		Long: `Generate a tree with the given number of levels and children per node.

Example: hvinspect generate --levels 4 --fan-out 5 --jitter > tree.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.NewTreeGenerator(cfg)

			var (
				data []byte
				err  error
			)
			switch format {
			case "csv":
				data, err = gen.CSV()
			case "xlsx":
				data, err = gen.XLSX()
			default:
				return fmt.Errorf("unknown format %q: use csv or xlsx", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.RootName, "root", cfg.RootName, "Name of the root segment")
	cmd.Flags().IntVar(&cfg.Levels, "levels", cfg.Levels, "Number of levels including the root")
	cmd.Flags().IntVar(&cfg.FanOut, "fan-out", cfg.FanOut, "Children per node (maximum with --jitter)")
	cmd.Flags().BoolVar(&cfg.JitterFanOut, "jitter", false, "Pick each node's child count at random")
	cmd.Flags().IntVar(&cfg.DanglingCount, "dangling", 0, "Append rows whose parent is missing")
	cmd.Flags().StringSliceVar(&cfg.ExtraColumns, "extra", nil, "Extra numeric columns to include")
	cmd.Flags().BoolVar(&cfg.Shuffle, "shuffle", false, "Shuffle row order")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for deterministic output")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv|xlsx")
	return cmd
}

// loadDataset reads path ("-" for stdin) and parses it into a dataset.
func loadDataset(cmd *cobra.Command, opts *readerOptions, path string) (hierarchy.Dataset, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return hierarchy.Absent(), fmt.Errorf("failed to read %s: %w", path, err)
	}

	rows, err := opts.reader().Parse(raw)
	if err != nil {
		return hierarchy.Absent(), fmt.Errorf("%s: %w", path, err)
	}
	return hierarchy.NewDataset(rows, hierarchy.Source{
		Filename:    filepath.Base(path),
		Fingerprint: core.NewHash(raw),
		LoadedAt:    time.Now(),
	}), nil
}

func printStructure(w io.Writer, ds hierarchy.Dataset, st structure.Structure, notices []view.Notice) {
	src := ds.Source()
	fmt.Fprintln(w, titleStyle.Render(src.Filename)+" "+mutedStyle.Render(src.Fingerprint.Short()))

	levels := make([]string, len(st.LevelCounts))
	for i, n := range st.LevelCounts {
		levels[i] = strconv.Itoa(n)
	}

	fmt.Fprintf(w, "  rows:         %d\n", st.Rows)
	fmt.Fprintf(w, "  segments:     %d\n", st.Nodes)
	fmt.Fprintf(w, "  roots:        %s\n", strings.Join(st.Roots, ", "))
	fmt.Fprintf(w, "  max depth:    %d\n", st.MaxDepth)
	fmt.Fprintf(w, "  per level:    %s\n", strings.Join(levels, " / "))
	fmt.Fprintf(w, "  fan-out:      mean %.2f, max %d\n", st.MeanFanOut, st.MaxFanOut)

	if len(notices) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no problems found"))
		return
	}
	for _, n := range notices {
		style := infoStyle
		if n.Level == view.LevelWarning {
			style = warningStyle
		}
		fmt.Fprintln(w, style.Render(string(n.Level)+": "+n.Text))
	}
}
